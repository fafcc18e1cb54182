package inputstate

import (
	"strings"

	"github.com/rime-ls/rime-ls/internal/diff"
	"github.com/rime-ls/rime-ls/internal/inputparser"
	"github.com/rime-ls/rime-ls/internal/keycode"
)

// state is the per-document cache described by spec §3's InputState.
type state struct {
	input        inputparser.Input
	sessionID    uint
	anchorOffset int
	isIncomplete bool
}

// Result is the outcome of Apply: which session now owns the document's
// composition, and how far into Pinyin the engine's own raw input begins
// (spec §4.4's extra_offset, used to correct the completion range when the
// engine has silently swallowed leading punctuation).
type Result struct {
	SessionID   uint
	ExtraOffset int
}

// Machine runs the decision tree of spec §4.4 against one Engine,
// tracking state per document URI.
type Machine struct {
	engine Engine
}

// NewMachine creates a Machine driving engine.
func NewMachine(engine Engine) *Machine {
	return &Machine{engine: engine}
}

// Apply is the entry point named in spec §4.4: given the newly parsed
// Input at newAnchorOffset, decide whether to start a fresh session or
// continue the existing one, inject the minimal key sequence, and record
// the resulting state for st (the caller's storage slot for this
// document — see Store for a concurrent per-URI wrapper).
func (m *Machine) Apply(st *State, newInput inputparser.Input, newAnchorOffset int, schemaTrigger string, maxTokens int) Result {
	prev := st.get()

	if prev == nil || prev.anchorOffset != newAnchorOffset || !m.engine.FindSession(prev.sessionID) || !prev.isIncomplete {
		if prev != nil && m.engine.FindSession(prev.sessionID) {
			m.engine.DestroySession(prev.sessionID)
		}
		return m.firstInput(st, newInput, newAnchorOffset, schemaTrigger)
	}

	sessionID := prev.sessionID
	rawInput := ""

	switch r := diff.Diff(prev.input.Pinyin(), newInput.Pinyin()); r.Kind {
	case diff.Add:
		m.engine.ProcessStr(sessionID, r.Suffix)
	case diff.Delete:
		if maxTokens > 0 && len(newInput.Pinyin()) == maxTokens {
			m.engine.ClearComposition(sessionID)
			m.processPinyin(sessionID, newInput, schemaTrigger)
			m.engine.ProcessStr(sessionID, newInput.Select())
			m.engine.DeleteKeys(sessionID, len(r.Suffix))
			rawInput = m.engine.GetRawInput(sessionID)
			st.set(&state{input: newInput, sessionID: sessionID, anchorOffset: newAnchorOffset, isIncomplete: true})
			return Result{SessionID: sessionID, ExtraOffset: extraOffset(newInput, rawInput)}
		}
		m.engine.DeleteKeys(sessionID, len(r.Suffix))
	case diff.New:
		m.engine.ClearComposition(sessionID)
		m.processPinyin(sessionID, newInput, schemaTrigger)
	}

	rawInput = m.engine.GetRawInput(sessionID)

	switch r := diff.Diff(prev.input.Select(), newInput.Select()); r.Kind {
	case diff.Add:
		m.engine.ProcessStr(sessionID, r.Suffix)
	case diff.Delete:
		m.engine.DeleteKeys(sessionID, len(r.Suffix))
	case diff.New:
		m.engine.DeleteKeys(sessionID, len(prev.input.Select()))
		m.engine.ProcessStr(sessionID, newInput.Select())
	}

	st.set(&state{input: newInput, sessionID: sessionID, anchorOffset: newAnchorOffset, isIncomplete: true})
	return Result{SessionID: sessionID, ExtraOffset: extraOffset(newInput, rawInput)}
}

// firstInput implements spec §4.4 step 1: create a fresh session, process
// the full pinyin (or schema shortcut), then select.
func (m *Machine) firstInput(st *State, newInput inputparser.Input, newAnchorOffset int, schemaTrigger string) Result {
	sessionID := m.engine.CreateSession()
	m.processPinyin(sessionID, newInput, schemaTrigger)
	m.engine.ProcessStr(sessionID, newInput.Select())
	rawInput := m.engine.GetRawInput(sessionID)

	st.set(&state{input: newInput, sessionID: sessionID, anchorOffset: newAnchorOffset, isIncomplete: true})
	return Result{SessionID: sessionID, ExtraOffset: extraOffset(newInput, rawInput)}
}

// processPinyin injects the schema-menu shortcut instead of literal
// pinyin when the input is a schema trigger (spec §4.4,
// "Schema-aware processing").
func (m *Machine) processPinyin(sessionID uint, in inputparser.Input, schemaTrigger string) {
	if schemaTrigger != "" && in.IsSchema() {
		m.engine.ProcessKey(sessionID, keycode.F4)
		return
	}
	m.engine.ProcessStr(sessionID, in.Pinyin())
}

// extraOffset finds, via reverse search, the offset within pinyin at
// which the engine's own raw input begins (spec §4.4).
func extraOffset(in inputparser.Input, rawInput string) int {
	if rawInput == "" {
		return 0
	}
	if idx := strings.LastIndex(in.Pinyin(), rawInput); idx >= 0 {
		return idx
	}
	return 0
}
