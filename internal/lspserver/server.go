package lspserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/rime-ls/rime-ls/internal/completion"
	"github.com/rime-ls/rime-ls/internal/config"
	"github.com/rime-ls/rime-ls/internal/inputparser"
	"github.com/rime-ls/rime-ls/internal/inputstate"
	"github.com/rime-ls/rime-ls/internal/protocol"
	"github.com/rime-ls/rime-ls/internal/rime"
)

const (
	commandToggleRime   = "rime-ls.toggle-rime"
	commandSyncUserData = "rime-ls.sync-user-data"
)

// Server is the LSP Facade (spec §4.6): it owns the open-document set,
// per-document input state, live configuration, and the compiled trigger
// regex, and translates textDocument/* and workspace/* traffic into calls
// on the Input State Machine and the Engine Adapter. Grounded on the
// Backend struct in the source's lsp.rs, restated in Go idiom.
type Server struct {
	client        Client
	engineFactory EngineFactory
	version       string

	documents *DocumentStore
	states    *inputstate.Store
	cfg       *config.Store
	regex     *RegexState
	encoding  protocol.PositionEncodingKind

	mu      sync.RWMutex
	engine  Engine
	machine *inputstate.Machine
}

// NewServer creates a Server. client receives outbound notifications;
// engineFactory builds the native engine once initialize's configuration
// is known; version is reported as serverInfo.version.
func NewServer(client Client, engineFactory EngineFactory, version string) *Server {
	return &Server{
		client:        client,
		engineFactory: engineFactory,
		version:       version,
		documents:     NewDocumentStore(),
		states:        inputstate.NewStore(),
		cfg:           config.NewStore(config.Default()),
		regex:         &RegexState{},
		encoding:      protocol.UTF16,
	}
}

// Initialize handles the initialize request: applies
// initializationOptions (or the built-in default), negotiates the
// position encoding, compiles the trigger regex, starts the native
// engine, and reports server capabilities.
func (s *Server) Initialize(raw json.RawMessage) (any, *RPCError) {
	var params initializeParams
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &params); err != nil {
			return nil, &RPCError{Code: CodeInvalidParams, Message: err.Error()}
		}
	}

	if len(params.InitializationOptions) > 0 {
		s.cfg.Replace(config.ApplyInitializationOptions(params.InitializationOptions))
	} else {
		s.client.LogMessage(MessageInfo, "Use default config")
	}

	s.encoding = protocol.UTF16
	for _, enc := range params.Capabilities.General.PositionEncodings {
		if enc == protocol.UTF8 || enc == protocol.UTF32 {
			s.encoding = enc
			break
		}
	}

	cfg := s.cfg.Snapshot()
	if err := s.regex.Recompile(cfg.TriggerCharacters); err != nil {
		return nil, &RPCError{Code: CodeInternalError, Message: err.Error()}
	}

	if err := s.startEngine(cfg); err != nil {
		s.client.LogMessage(MessageError, err.Error())
		return nil, internalError(err)
	}
	s.client.LogMessage(MessageInfo, "Rime-ls Language Server initialized")

	triggers := append([]string{}, cfg.PagingCharacters...)
	triggers = append(triggers, cfg.TriggerCharacters...)

	return initializeResult{
		ServerInfo: serverInfo{Name: "rime-ls", Version: s.version},
		Capabilities: serverCapabilities{
			PositionEncoding:     s.encoding,
			TextDocumentSyncKind: 2, // Incremental
			CompletionProvider: completionOptions{
				ResolveProvider:   false,
				TriggerCharacters: triggers,
			},
			ExecuteCommandProvider: executeCommandOptions{
				Commands: []string{commandToggleRime, commandSyncUserData},
			},
			Workspace: workspaceServerCapabilities{
				WorkspaceFolders: workspaceFoldersServerCapabilities{
					Supported:           true,
					ChangeNotifications: true,
				},
			},
		},
	}, nil
}

// startEngine expands configured directories and brings up the native
// engine, tolerating ErrAlreadyInitialized (spec, supplemented features:
// "reuse an already-running instance").
func (s *Server) startEngine(cfg config.Config) error {
	sharedDataDir := config.ExpandTilde(cfg.SharedDataDir)
	userDataDir := config.ExpandTilde(cfg.UserDataDir)
	logDir := config.ExpandTilde(cfg.LogDir)

	engine, err := s.engineFactory(sharedDataDir, userDataDir, logDir)
	if err != nil {
		if errors.Is(err, rime.ErrAlreadyInitialized) {
			s.client.LogMessage(MessageInfo, "Use an initialized rime instance.")
		} else {
			return err
		}
	}

	s.mu.Lock()
	s.engine = engine
	if engine != nil {
		s.machine = inputstate.NewMachine(engine)
	}
	s.mu.Unlock()
	return nil
}

// Shutdown handles the shutdown request. The engine is torn down by the
// process exiting (spec: engine lifetime is process-wide), matching the
// source's no-op shutdown.
func (s *Server) Shutdown() {}

// DidOpen handles textDocument/didOpen.
func (s *Server) DidOpen(raw json.RawMessage) error {
	var params didOpenParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return err
	}
	s.documents.Open(params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

// DidChange handles textDocument/didChange, applying each content-change
// event to the stored document in order.
func (s *Server) DidChange(raw json.RawMessage) error {
	var params didChangeParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return err
	}
	doc := s.documents.Get(params.TextDocument.URI)
	for _, change := range params.ContentChanges {
		if change.Range == nil {
			s.documents.Open(params.TextDocument.URI, change.Text)
			doc = s.documents.Get(params.TextDocument.URI)
			continue
		}
		if doc == nil {
			continue
		}
		doc.ApplyChange(change, s.encoding)
	}
	return nil
}

// DidClose handles textDocument/didClose.
func (s *Server) DidClose(raw json.RawMessage) error {
	var params didCloseParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return err
	}
	s.documents.Close(params.TextDocument.URI)
	s.states.Delete(string(params.TextDocument.URI))
	return nil
}

// DidChangeConfiguration handles workspace/didChangeConfiguration,
// patching only the fields present in the payload (spec §9: "duck-typed
// settings").
func (s *Server) DidChangeConfiguration(raw json.RawMessage) error {
	var params didChangeConfigurationParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return err
	}
	s.client.LogMessage(MessageInfo, "settings changed")

	if err := s.cfg.ApplyPartial(params.Settings); err != nil {
		s.client.ShowMessage(MessageError, err.Error())
		return nil
	}
	if summary, err := s.cfg.Summary(); err == nil {
		s.client.LogMessage(MessageInfo, summary)
	}
	if v := gjson.GetBytes(params.Settings, "trigger_characters"); v.Exists() {
		chars := make([]string, 0)
		for _, e := range v.Array() {
			chars = append(chars, e.String())
		}
		if err := s.regex.Recompile(chars); err != nil {
			s.client.ShowMessage(MessageError, err.Error())
		}
	}
	return nil
}

// Completion handles textDocument/completion (spec §4.5, §4.6).
func (s *Server) Completion(raw json.RawMessage) (any, *RPCError) {
	var params completionParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, &RPCError{Code: CodeInvalidParams, Message: err.Error()}
	}

	cfg := s.cfg.Snapshot()
	if !cfg.Enabled {
		return nil, nil
	}

	list := s.getCompletions(cfg, params.TextDocument.URI, params.Position)
	if list == nil {
		return nil, nil
	}
	return list, nil
}

func (s *Server) getCompletions(cfg config.Config, uri protocol.DocumentURI, position protocol.Position) *protocol.CompletionList {
	doc := s.documents.Get(uri)
	if doc == nil {
		return nil
	}

	currChar, ok := doc.PositionToOffset(position, s.encoding)
	if !ok {
		return nil
	}
	lineStartRune, ok := doc.PositionToOffset(protocol.Position{Line: position.Line, Character: 0}, s.encoding)
	if !ok {
		return nil
	}
	lineTail, _, ok := doc.LinePrefix(position.Line, currChar-lineStartRune)
	if !ok {
		return nil
	}

	hasTrigger := len(cfg.TriggerCharacters) > 0
	var in inputparser.Input
	var matched bool
	if inputparser.NeedsTrigger(hasTrigger, lineTail) {
		if re := s.regex.Current(); re != nil {
			in, matched = inputparser.ParseTrigger(re, lineTail, cfg.SchemaTriggerCharacter)
		}
	} else {
		in, matched = inputparser.ParseNoTrigger(lineTail, cfg.SchemaTriggerCharacter)
	}
	if !matched {
		return nil
	}

	newOffset := currChar - len([]rune(in.RawText()))

	s.mu.RLock()
	machine, engine := s.machine, s.engine
	s.mu.RUnlock()
	if machine == nil || engine == nil {
		return nil
	}

	st := s.states.Get(string(uri))
	result := machine.Apply(st, in, newOffset, cfg.SchemaTriggerCharacter, cfg.MaxTokens)

	resp, err := engine.GetResponse(result.SessionID, cfg.MaxCandidates)
	if err != nil {
		s.client.LogMessage(MessageError, err.Error())
		return nil
	}

	realOffset := newOffset + result.ExtraOffset
	rng := protocol.Range{
		Start: doc.OffsetToPosition(realOffset, s.encoding),
		End:   position,
	}

	candidates := make([]completion.Candidate, len(resp.Candidates))
	for i, c := range resp.Candidates {
		candidates[i] = completion.Candidate{Text: c.Text, Comment: c.Comment, Order: c.Order}
	}

	list := completion.Assemble(completion.Options{
		MaxCandidates:         cfg.MaxCandidates,
		PreselectFirst:        cfg.PreselectFirst,
		LongFilterText:        cfg.LongFilterText,
		ShowFilterTextInLabel: cfg.ShowFilterTextInLabel,
		ShowOrderInLabel:      cfg.ShowOrderInLabel,
		AlwaysIncomplete:      cfg.AlwaysIncomplete,
	}, in, completion.Response{
		IsIncomplete: resp.IsIncomplete,
		Submitted:    resp.Submitted,
		Candidates:   candidates,
	}, rng, "")

	return &list
}

// ExecuteCommand handles workspace/executeCommand for the two commands
// this server advertises: toggling whether completions are produced, and
// flushing user data to disk.
func (s *Server) ExecuteCommand(raw json.RawMessage, progress ProgressReporter) (any, *RPCError) {
	var params executeCommandParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, &RPCError{Code: CodeInvalidParams, Message: err.Error()}
	}

	token := params.WorkDoneToken
	if token == nil {
		t := protocol.NumberOrString{Str: params.Command, IsStr: true}
		if err := progress.CreateWorkDoneProgress(t); err != nil {
			s.client.ShowMessage(MessageWarning, err.Error())
			return nil, &RPCError{Code: CodeInternalError, Message: err.Error()}
		}
		token = &t
	}

	switch params.Command {
	case commandToggleRime:
		progress.Begin(*token, params.Command)
		enabled := s.cfg.ToggleEnabled()
		status := "Rime is OFF"
		if enabled {
			status = "Rime is ON"
		}
		progress.End(*token, status)
		return enabled, nil

	case commandSyncUserData:
		progress.Begin(*token, params.Command)
		s.mu.RLock()
		engine := s.engine
		s.mu.RUnlock()
		if engine != nil {
			engine.SyncUserData()
		}
		progress.End(*token, "Rime is Ready.")
		return nil, nil

	default:
		s.client.ShowMessage(MessageWarning, fmt.Sprintf("No such rime-ls command: %s", params.Command))
		return nil, nil
	}
}

// ProgressReporter issues $/progress begin/end notifications around a
// long-running executeCommand, after (if needed) registering the token
// with the client via window/workDoneProgress/create.
type ProgressReporter interface {
	CreateWorkDoneProgress(token protocol.NumberOrString) error
	Begin(token protocol.NumberOrString, title string)
	End(token protocol.NumberOrString, message string)
}

