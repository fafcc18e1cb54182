package rime

import "github.com/rime-ls/rime-ls/internal/keycode"

// Re-exported for callers that only import this package. See
// internal/keycode for why these live in their own cgo-free package.
const (
	KeyBackspace = keycode.Backspace
	KeyEscape    = keycode.Escape
	KeyF4        = keycode.F4
	KeyPageUp    = keycode.PageUp
	KeyPageDown  = keycode.PageDown
)
