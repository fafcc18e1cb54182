package inputstate

import (
	"fmt"
	"testing"

	"github.com/rime-ls/rime-ls/internal/inputparser"
	"github.com/rime-ls/rime-ls/internal/keycode"
)

// fakeEngine is a minimal in-memory stand-in for the native engine,
// recording enough to assert the key sequence the Machine injects.
type fakeEngine struct {
	nextID   uint
	sessions map[uint]*fakeSession
	events   []string
}

type fakeSession struct {
	pinyin string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{sessions: make(map[uint]*fakeSession)}
}

func (e *fakeEngine) CreateSession() uint {
	e.nextID++
	id := e.nextID
	e.sessions[id] = &fakeSession{}
	e.events = append(e.events, fmt.Sprintf("create(%d)", id))
	return id
}

func (e *fakeEngine) FindSession(id uint) bool {
	_, ok := e.sessions[id]
	return ok
}

func (e *fakeEngine) DestroySession(id uint) {
	delete(e.sessions, id)
	e.events = append(e.events, fmt.Sprintf("destroy(%d)", id))
}

func (e *fakeEngine) ProcessKey(id uint, code int) {
	e.events = append(e.events, fmt.Sprintf("key(%d,%#x)", id, code))
	if code == keycode.F4 {
		e.sessions[id].pinyin = "schema"
	}
}

func (e *fakeEngine) ProcessStr(id uint, s string) {
	if s == "" {
		return
	}
	e.events = append(e.events, fmt.Sprintf("str(%d,%q)", id, s))
	e.sessions[id].pinyin += s
}

func (e *fakeEngine) DeleteKeys(id uint, n int) {
	if n <= 0 {
		return
	}
	e.events = append(e.events, fmt.Sprintf("del(%d,%d)", id, n))
	p := e.sessions[id].pinyin
	if n > len(p) {
		n = len(p)
	}
	e.sessions[id].pinyin = p[:len(p)-n]
}

func (e *fakeEngine) ClearComposition(id uint) {
	e.events = append(e.events, fmt.Sprintf("clear(%d)", id))
	e.sessions[id].pinyin = ""
}

func (e *fakeEngine) GetRawInput(id uint) string {
	if s, ok := e.sessions[id]; ok {
		return s.pinyin
	}
	return ""
}

func parse(t *testing.T, tail string) inputparser.Input {
	t.Helper()
	in, ok := inputparser.ParseNoTrigger(tail, "")
	if !ok {
		t.Fatalf("ParseNoTrigger(%q) did not match", tail)
	}
	return in
}

func TestMachine_FirstInput(t *testing.T) {
	engine := newFakeEngine()
	m := NewMachine(engine)
	st := &State{}

	res := m.Apply(st, parse(t, "ni"), 0, "", 0)
	if res.SessionID != 1 {
		t.Errorf("session id = %d, want 1", res.SessionID)
	}
	if !engine.FindSession(1) {
		t.Error("expected session 1 to exist")
	}
}

func TestMachine_ContinueAdd(t *testing.T) {
	engine := newFakeEngine()
	m := NewMachine(engine)
	st := &State{}

	m.Apply(st, parse(t, "ni"), 0, "", 0)
	res := m.Apply(st, parse(t, "nihao"), 0, "", 0)

	if res.SessionID != 1 {
		t.Errorf("session id changed on continuation: %d", res.SessionID)
	}
	if engine.GetRawInput(1) != "nihao" {
		t.Errorf("raw input = %q, want %q", engine.GetRawInput(1), "nihao")
	}
}

func TestMachine_ContinueDelete(t *testing.T) {
	engine := newFakeEngine()
	m := NewMachine(engine)
	st := &State{}

	m.Apply(st, parse(t, "nihao"), 0, "", 0)
	res := m.Apply(st, parse(t, "niha"), 0, "", 0)

	if res.SessionID != 1 {
		t.Errorf("session id changed on backspace: %d", res.SessionID)
	}
	if engine.GetRawInput(1) != "niha" {
		t.Errorf("raw input = %q, want %q", engine.GetRawInput(1), "niha")
	}
}

func TestMachine_AnchorMoveResets(t *testing.T) {
	engine := newFakeEngine()
	m := NewMachine(engine)
	st := &State{}

	m.Apply(st, parse(t, "ni"), 0, "", 0)
	res := m.Apply(st, parse(t, "hao"), 5, "", 0)

	if res.SessionID == 1 {
		t.Error("expected a new session after the anchor moved")
	}
	if engine.FindSession(1) {
		t.Error("expected the stale session to be destroyed")
	}
}

func TestMachine_ForceRefreshOnMaxTokens(t *testing.T) {
	engine := newFakeEngine()
	m := NewMachine(engine)
	st := &State{}

	m.Apply(st, parse(t, "abcde"), 0, "", 4)
	res := m.Apply(st, parse(t, "abcd"), 0, "", 4)

	if res.SessionID != 1 {
		t.Errorf("force refresh should keep the same session id, got %d", res.SessionID)
	}
	foundClear := false
	for _, e := range engine.events {
		if e == "clear(1)" {
			foundClear = true
		}
	}
	if !foundClear {
		t.Errorf("expected a clear_composition on force refresh, events: %v", engine.events)
	}
}

func TestMachine_SchemaTrigger(t *testing.T) {
	engine := newFakeEngine()
	m := NewMachine(engine)
	st := &State{}

	in, ok := inputparser.ParseNoTrigger("/help", "/help")
	if !ok || !in.IsSchema() {
		t.Fatal("expected schema input to parse")
	}

	m.Apply(st, in, 0, "/help", 0)

	foundF4 := false
	for _, e := range engine.events {
		if e == fmt.Sprintf("key(1,%#x)", keycode.F4) {
			foundF4 = true
		}
	}
	if !foundF4 {
		t.Errorf("expected F4 key injection for schema trigger, events: %v", engine.events)
	}
}

func TestStore_GetIsStable(t *testing.T) {
	s := NewStore()
	a := s.Get("file:///a")
	b := s.Get("file:///a")
	if a != b {
		t.Error("expected the same State pointer for the same URI")
	}
	s.Delete("file:///a")
	c := s.Get("file:///a")
	if c == a {
		t.Error("expected a fresh State after Delete")
	}
}
