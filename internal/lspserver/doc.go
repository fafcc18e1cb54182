// Package lspserver is the LSP Facade (spec §4.6): JSON-RPC transport,
// per-document state, and the handlers that turn textDocument/* and
// workspace/* traffic into calls on the Input State Machine and the
// Engine Adapter. Grounded on the source's lsp.rs Backend and restated
// against Keystorm's client-side transport/document/errors idiom.
package lspserver
