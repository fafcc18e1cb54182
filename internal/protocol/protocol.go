// Package protocol defines the wire types shared by the rope, the
// completion assembler, and the LSP Facade: the handful of
// textDocument/completion-adjacent structures this server actually uses.
// The JSON-RPC envelope itself lives in internal/lspserver.
// It intentionally carries only what spec §6 names — this is not a
// general-purpose LSP type library.
package protocol

import "encoding/json"

// DocumentURI identifies a text document, typically a file:// URI.
type DocumentURI string

// Position is zero-based line/character, with Character measured in the
// negotiated encoding (§3: UTF-8 bytes, UTF-16 code units, or UTF-32 code
// points).
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a start/end pair of Positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// TextEdit replaces the text within Range with NewText.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// TextDocumentIdentifier identifies a document by URI.
type TextDocumentIdentifier struct {
	URI DocumentURI `json:"uri"`
}

// TextDocumentItem transfers a full document from client to server.
type TextDocumentItem struct {
	URI        DocumentURI `json:"uri"`
	LanguageID string      `json:"languageId"`
	Version    int         `json:"version"`
	Text       string      `json:"text"`
}

// TextDocumentContentChangeEvent describes one content change. Range is nil
// for a full-content replacement.
type TextDocumentContentChangeEvent struct {
	Range       *Range `json:"range,omitempty"`
	RangeLength int    `json:"rangeLength,omitempty"`
	Text        string `json:"text"`
}

// TextDocumentPositionParams pairs a document with a position inside it.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// PositionEncodingKind negotiates how Position.Character is measured.
type PositionEncodingKind string

const (
	UTF8  PositionEncodingKind = "utf-8"
	UTF16 PositionEncodingKind = "utf-16"
	UTF32 PositionEncodingKind = "utf-32"
)

// CompletionItemLabelDetails supplies extra, dimmed label text.
type CompletionItemLabelDetails struct {
	Detail      string `json:"detail,omitempty"`
	Description string `json:"description,omitempty"`
}

// CompletionTextEdit is the subset of InsertReplaceEdit/TextEdit this server
// emits: a plain replacing edit.
type CompletionTextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// CompletionItem is one entry in a completion list (§4.5).
type CompletionItem struct {
	Label        string                      `json:"label"`
	LabelDetails *CompletionItemLabelDetails `json:"labelDetails,omitempty"`
	Kind         int                         `json:"kind,omitempty"`
	Detail       string                      `json:"detail,omitempty"`
	FilterText   string                      `json:"filterText,omitempty"`
	SortText     string                      `json:"sortText,omitempty"`
	Preselect    bool                        `json:"preselect,omitempty"`
	TextEdit     *CompletionTextEdit         `json:"textEdit,omitempty"`
}

// CompletionItemKindText is the only completion item kind this server uses.
const CompletionItemKindText = 1

// CompletionList is the response to textDocument/completion.
type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

// Command references an executable client/server command.
type Command struct {
	Title     string `json:"title"`
	Command   string `json:"command"`
	Arguments []any  `json:"arguments,omitempty"`
}

// NumberOrString is a work-done-progress token, which the LSP spec allows to
// be either a number or a string.
type NumberOrString struct {
	Number int
	Str    string
	IsStr  bool
}

// MarshalJSON implements json.Marshaler.
func (n NumberOrString) MarshalJSON() ([]byte, error) {
	if n.IsStr {
		return json.Marshal(n.Str)
	}
	return json.Marshal(n.Number)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NumberOrString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		n.Str, n.IsStr = s, true
		return nil
	}
	return json.Unmarshal(data, &n.Number)
}
