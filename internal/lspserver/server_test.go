package lspserver

import (
	"encoding/json"
	"testing"

	"github.com/rime-ls/rime-ls/internal/protocol"
	"github.com/rime-ls/rime-ls/internal/rime"
)

// fakeEngine is a minimal in-memory stand-in for *rime.Adapter: sessions
// accumulate whatever ProcessStr feeds them, and GetResponse returns the
// same two fixed candidates for any non-empty session (it never commits),
// enough to drive the Facade's plumbing end to end without linking
// librime.
type fakeEngine struct {
	nextID   uint
	sessions map[uint]*fakeSession
	synced   bool
}

type fakeSession struct {
	pinyin string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{sessions: make(map[uint]*fakeSession)}
}

func (e *fakeEngine) CreateSession() uint {
	e.nextID++
	e.sessions[e.nextID] = &fakeSession{}
	return e.nextID
}

func (e *fakeEngine) FindSession(id uint) bool { _, ok := e.sessions[id]; return ok }

func (e *fakeEngine) DestroySession(id uint) { delete(e.sessions, id) }

func (e *fakeEngine) ProcessKey(id uint, keycode int) {}

func (e *fakeEngine) ProcessStr(id uint, s string) {
	if sess, ok := e.sessions[id]; ok {
		sess.pinyin += s
	}
}

func (e *fakeEngine) DeleteKeys(id uint, n int) {
	if sess, ok := e.sessions[id]; ok && n <= len(sess.pinyin) {
		sess.pinyin = sess.pinyin[:len(sess.pinyin)-n]
	}
}

func (e *fakeEngine) ClearComposition(id uint) {
	if sess, ok := e.sessions[id]; ok {
		sess.pinyin = ""
	}
}

func (e *fakeEngine) GetRawInput(id uint) string {
	if sess, ok := e.sessions[id]; ok {
		return sess.pinyin
	}
	return ""
}

func (e *fakeEngine) GetResponse(id uint, maxCandidates int) (rime.Response, error) {
	sess, ok := e.sessions[id]
	if !ok || sess.pinyin == "" {
		return rime.Response{}, nil
	}
	return rime.Response{
		IsIncomplete: true,
		Candidates: []rime.Candidate{
			{Text: "你好", Order: 1},
			{Text: "你耗", Order: 2},
		},
	}, nil
}

func (e *fakeEngine) SyncUserData() { e.synced = true }

type fakeClient struct {
	shown []string
	logs  []string
}

func (c *fakeClient) ShowMessage(typ MessageType, message string) { c.shown = append(c.shown, message) }
func (c *fakeClient) LogMessage(typ MessageType, message string)  { c.logs = append(c.logs, message) }

type fakeProgress struct {
	begun, ended []string
}

func (p *fakeProgress) CreateWorkDoneProgress(token protocol.NumberOrString) error { return nil }
func (p *fakeProgress) Begin(token protocol.NumberOrString, title string)         { p.begun = append(p.begun, title) }
func (p *fakeProgress) End(token protocol.NumberOrString, message string)         { p.ended = append(p.ended, message) }

func newTestServer(t *testing.T) (*Server, *fakeEngine, *fakeClient) {
	t.Helper()
	engine := newFakeEngine()
	client := &fakeClient{}
	factory := func(shared, user, log string) (Engine, error) { return engine, nil }
	s := NewServer(client, factory, "test")
	if _, rpcErr := s.Initialize(nil); rpcErr != nil {
		t.Fatalf("Initialize failed: %v", rpcErr)
	}
	return s, engine, client
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func TestServer_InitializeDefaultsConfig(t *testing.T) {
	s, _, client := newTestServer(t)
	if len(client.logs) == 0 {
		t.Fatal("expected at least one log message on initialize")
	}
	if !s.cfg.Snapshot().Enabled {
		t.Error("expected default config to be enabled")
	}
}

func TestServer_DidOpenThenCompletion(t *testing.T) {
	s, _, _ := newTestServer(t)

	uri := protocol.DocumentURI("file:///a.txt")
	if err := s.DidOpen(mustJSON(t, didOpenParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "nihao"},
	})); err != nil {
		t.Fatalf("DidOpen: %v", err)
	}

	result, rpcErr := s.Completion(mustJSON(t, completionParams{
		protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 0, Character: 5},
		},
	}))
	if rpcErr != nil {
		t.Fatalf("Completion: %v", rpcErr)
	}
	list, ok := result.(*protocol.CompletionList)
	if !ok || list == nil {
		t.Fatalf("expected a non-nil CompletionList, got %#v", result)
	}
	if len(list.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(list.Items))
	}
	if list.Items[0].Label != "1. 你好" {
		t.Errorf("label = %q", list.Items[0].Label)
	}
}

func TestServer_CompletionDisabledReturnsNil(t *testing.T) {
	s, _, _ := newTestServer(t)
	s.cfg.ToggleEnabled()

	uri := protocol.DocumentURI("file:///a.txt")
	_ = s.DidOpen(mustJSON(t, didOpenParams{TextDocument: protocol.TextDocumentItem{URI: uri, Text: "nihao"}}))

	result, rpcErr := s.Completion(mustJSON(t, completionParams{
		protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 0, Character: 5},
		},
	}))
	if rpcErr != nil {
		t.Fatalf("Completion: %v", rpcErr)
	}
	if result != nil {
		t.Errorf("expected nil result while disabled, got %#v", result)
	}
}

func TestServer_DidCloseClearsState(t *testing.T) {
	s, _, _ := newTestServer(t)
	uri := protocol.DocumentURI("file:///a.txt")
	_ = s.DidOpen(mustJSON(t, didOpenParams{TextDocument: protocol.TextDocumentItem{URI: uri, Text: "nihao"}}))

	if doc := s.documents.Get(uri); doc == nil {
		t.Fatal("expected document to be open")
	}

	_ = s.DidClose(mustJSON(t, didCloseParams{TextDocument: protocol.TextDocumentIdentifier{URI: uri}}))
	if doc := s.documents.Get(uri); doc != nil {
		t.Error("expected document to be closed")
	}
}

func TestServer_ExecuteCommandToggleRime(t *testing.T) {
	s, _, _ := newTestServer(t)
	progress := &fakeProgress{}

	result, rpcErr := s.ExecuteCommand(mustJSON(t, executeCommandParams{Command: commandToggleRime}), progress)
	if rpcErr != nil {
		t.Fatalf("ExecuteCommand: %v", rpcErr)
	}
	if enabled, ok := result.(bool); !ok || enabled {
		t.Errorf("expected toggled-off (false), got %#v", result)
	}
	if len(progress.begun) != 1 || len(progress.ended) != 1 {
		t.Errorf("expected one begin/end pair, got %d/%d", len(progress.begun), len(progress.ended))
	}
}

func TestServer_ExecuteCommandSyncUserData(t *testing.T) {
	s, engine, _ := newTestServer(t)
	progress := &fakeProgress{}

	_, rpcErr := s.ExecuteCommand(mustJSON(t, executeCommandParams{Command: commandSyncUserData}), progress)
	if rpcErr != nil {
		t.Fatalf("ExecuteCommand: %v", rpcErr)
	}
	if !engine.synced {
		t.Error("expected engine.SyncUserData to have been called")
	}
}

func TestServer_ExecuteCommandUnknown(t *testing.T) {
	s, _, client := newTestServer(t)
	progress := &fakeProgress{}

	_, rpcErr := s.ExecuteCommand(mustJSON(t, executeCommandParams{Command: "rime-ls.no-such-command"}), progress)
	if rpcErr != nil {
		t.Fatalf("ExecuteCommand: %v", rpcErr)
	}
	if len(client.shown) == 0 {
		t.Error("expected a warning message for an unknown command")
	}
}

func TestServer_DidChangeConfigurationRecompilesTrigger(t *testing.T) {
	s, _, _ := newTestServer(t)

	err := s.DidChangeConfiguration(mustJSON(t, didChangeConfigurationParams{
		Settings: mustJSON(t, map[string]any{"trigger_characters": []string{"v"}}),
	}))
	if err != nil {
		t.Fatalf("DidChangeConfiguration: %v", err)
	}
	if s.regex.Current() == nil {
		t.Error("expected trigger regex to be compiled")
	}
	if got := s.cfg.Snapshot().TriggerCharacters; len(got) != 1 || got[0] != "v" {
		t.Errorf("trigger_characters = %v", got)
	}
}
