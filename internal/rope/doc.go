// Package rope implements the per-document text buffer described in spec
// §3/§4.1 (Rope & Encoding): an editable buffer supporting insert/delete by
// character offset and bidirectional conversion between LSP Position
// (line/column in a negotiated encoding) and character offsets.
//
// The canonical internal offset unit is the Unicode code point (rune)
// count — the same unit as the UTF-32 encoding — because that is the unit
// the Input State Machine reasons in (anchor_offset, cursor_offset). The
// other two negotiated encodings, UTF-8 byte count and UTF-16 code-unit
// count, only matter at the LSP Position boundary.
//
// Unlike Keystorm's engine/rope package (a persistent, immutable B-tree of
// chunks sized for very large files edited by a full-screen TUI), Document
// here keeps a single string plus a flat per-line index rebuilt on every
// edit. A pinyin run lives on one line near the cursor, so edits are small
// and local; the O(n) rebuild is dominated by the cost of the JSON
// marshaling around it. See DESIGN.md for the tradeoff this simplifies
// away.
package rope
