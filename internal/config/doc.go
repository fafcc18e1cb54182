// Package config holds rime-ls's runtime configuration: the frozen set of
// recognized options (§6 of the spec), their defaults, and the machinery for
// applying partial updates sent by the client during initialize and
// workspace/didChangeConfiguration.
//
// # Layering
//
// Configuration has exactly two sources, applied in order:
//
//	1. Built-in defaults (Default)
//	2. Client-supplied JSON (initializationOptions, then each
//	   didChangeConfiguration payload), applied field-by-field so a
//	   partial update never clobbers fields the client didn't mention
//
// Unlike Keystorm's layered TOML/keymap/plugin configuration, rime-ls has
// one consumer (the LSP client) and one wire format (JSON), so there is no
// layer-merge machinery here — just a struct behind a reader-writer lock.
//
// # Concurrency
//
// Config is read far more often (every completion request) than written
// (occasional didChangeConfiguration). Store holds the current value behind
// a sync.RWMutex and hands out snapshots by value, so completion handlers
// never hold the lock across an engine call (see §5, §9).
package config
