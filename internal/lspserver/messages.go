package lspserver

import (
	"encoding/json"

	"github.com/rime-ls/rime-ls/internal/protocol"
)

// The types in this file are the JSON-RPC request/response payload shapes
// for the handful of LSP methods this server answers (spec §6). They live
// here, separate from internal/protocol, because that package is scoped to
// the document/completion model the rope and assembler share — these are
// pure wire envelopes with no behavior.

type initializeParams struct {
	InitializationOptions json.RawMessage `json:"initializationOptions"`
	Capabilities           struct {
		General struct {
			PositionEncodings []protocol.PositionEncodingKind `json:"positionEncodings"`
		} `json:"general"`
	} `json:"capabilities"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type completionOptions struct {
	ResolveProvider   bool     `json:"resolveProvider"`
	TriggerCharacters []string `json:"triggerCharacters,omitempty"`
}

type executeCommandOptions struct {
	Commands []string `json:"commands"`
}

type workspaceFoldersServerCapabilities struct {
	Supported           bool `json:"supported"`
	ChangeNotifications bool `json:"changeNotifications"`
}

type workspaceServerCapabilities struct {
	WorkspaceFolders workspaceFoldersServerCapabilities `json:"workspaceFolders"`
}

type serverCapabilities struct {
	PositionEncoding       protocol.PositionEncodingKind `json:"positionEncoding"`
	TextDocumentSyncKind   int                           `json:"textDocumentSync"`
	CompletionProvider     completionOptions             `json:"completionProvider"`
	ExecuteCommandProvider executeCommandOptions         `json:"executeCommandProvider"`
	Workspace              workspaceServerCapabilities   `json:"workspace"`
}

type initializeResult struct {
	ServerInfo   serverInfo         `json:"serverInfo"`
	Capabilities serverCapabilities `json:"capabilities"`
}

type didOpenParams struct {
	TextDocument protocol.TextDocumentItem `json:"textDocument"`
}

type didChangeParams struct {
	TextDocument struct {
		URI protocol.DocumentURI `json:"uri"`
	} `json:"textDocument"`
	ContentChanges []protocol.TextDocumentContentChangeEvent `json:"contentChanges"`
}

type didCloseParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
}

type didChangeConfigurationParams struct {
	Settings json.RawMessage `json:"settings"`
}

type completionParams struct {
	protocol.TextDocumentPositionParams
}

type executeCommandParams struct {
	Command             string            `json:"command"`
	Arguments            []json.RawMessage `json:"arguments,omitempty"`
	WorkDoneToken        *protocol.NumberOrString `json:"workDoneToken,omitempty"`
}

type workDoneProgressCreateParams struct {
	Token protocol.NumberOrString `json:"token"`
}

type progressParams struct {
	Token protocol.NumberOrString `json:"token"`
	Value any                     `json:"value"`
}

type workDoneProgressBegin struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
}

type workDoneProgressEnd struct {
	Kind    string `json:"kind"`
	Message string `json:"message,omitempty"`
}
