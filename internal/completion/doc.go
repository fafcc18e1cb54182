// Package completion turns an Engine Adapter Response into the LSP
// CompletionItem list the editor renders (spec §4.5): sort-text ordering
// that places every candidate below natural-language items, filter text,
// range anchoring via the Input State Machine's extra_offset, preselect,
// and the numeric-pick shortcut.
package completion
