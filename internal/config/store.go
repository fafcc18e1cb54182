package config

import (
	"sync"

	"github.com/tidwall/sjson"
)

// Store holds the live configuration behind a reader-writer lock. Readers
// (every completion request) never block each other; writers (rare
// didChangeConfiguration notifications or the toggle-rime command) take an
// exclusive lock just long enough to mutate the struct.
type Store struct {
	mu  sync.RWMutex
	cfg Config
}

// NewStore creates a Store seeded with the given configuration.
func NewStore(cfg Config) *Store {
	return &Store{cfg: cfg}
}

// Snapshot returns a copy of the current configuration. Callers should
// snapshot once at the start of a request and use the copy for the
// duration, rather than re-acquiring the lock repeatedly (§9).
func (s *Store) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Replace installs an entirely new configuration, used for
// initializationOptions which replace rather than patch.
func (s *Store) Replace(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

// ApplyPartial patches the stored configuration in place from raw JSON,
// applying only the fields present in the payload.
func (s *Store) ApplyPartial(raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ApplyPartialSettings(&s.cfg, raw)
}

// ToggleEnabled flips the enabled flag and returns the new value.
func (s *Store) ToggleEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Enabled = !s.cfg.Enabled
	return s.cfg.Enabled
}

// Summary renders the current configuration as a normalized JSON blob,
// built incrementally with sjson rather than a struct marshal so that the
// key order and shape matches what a client sent (used for the log line
// emitted after a settings update).
func (s *Store) Summary() (string, error) {
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()

	json := "{}"
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		json, err = sjson.Set(json, path, value)
	}

	set("enabled", cfg.Enabled)
	set("max_candidates", cfg.MaxCandidates)
	set("trigger_characters", cfg.TriggerCharacters)
	set("paging_characters", cfg.PagingCharacters)
	set("schema_trigger_character", cfg.SchemaTriggerCharacter)
	set("max_tokens", cfg.MaxTokens)
	set("always_incomplete", cfg.AlwaysIncomplete)
	set("preselect_first", cfg.PreselectFirst)

	return json, err
}
