package lspserver

import (
	"sync"

	"github.com/coregx/coregex"

	"github.com/rime-ls/rime-ls/internal/inputparser"
)

// RegexState holds the compiled trigger-mode pattern behind its own lock,
// separate from config.Store, because recompiling it (spec §5: "trigger
// characters are recompiled into a regex on change") is comparatively
// expensive and only ever depends on one config field.
type RegexState struct {
	mu sync.RWMutex
	re *coregex.Regex
}

// NewRegexState compiles the initial trigger pattern from triggerChars. A
// nil/empty slice means "no-trigger mode": Current returns nil and callers
// fall back to inputparser.ParseNoTrigger.
func NewRegexState(triggerChars []string) (*RegexState, error) {
	s := &RegexState{}
	if err := s.Recompile(triggerChars); err != nil {
		return nil, err
	}
	return s, nil
}

// Recompile rebuilds the compiled pattern from a new trigger_characters
// setting, replacing the previous one.
func (s *RegexState) Recompile(triggerChars []string) error {
	if len(triggerChars) == 0 {
		s.mu.Lock()
		s.re = nil
		s.mu.Unlock()
		return nil
	}
	re, err := inputparser.CompileTrigger(triggerChars)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.re = re
	s.mu.Unlock()
	return nil
}

// Current returns the compiled trigger pattern, or nil in no-trigger mode.
func (s *RegexState) Current() *coregex.Regex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.re
}
