package rope

import (
	"sort"

	"github.com/rime-ls/rime-ls/internal/protocol"
)

// lineInfo mirrors the per-line index Keystorm's PositionConverter builds
// (internal/lsp/position.go), extended with a rune offset so offsets can be
// expressed canonically in code points rather than only bytes.
type lineInfo struct {
	byteOffset int
	byteLen    int
	runeOffset int
	runeLen    int
	utf16Len   int
}

// Document is a mutable, per-URI text buffer (spec §3).
type Document struct {
	content string
	lines   []lineInfo
}

// NewDocument creates a Document from the initial full text of a file, as
// received on textDocument/didOpen.
func NewDocument(content string) *Document {
	d := &Document{content: content}
	d.reindex()
	return d
}

// Content returns the full current text.
func (d *Document) Content() string {
	return d.content
}

// Len returns the total length in runes (code points).
func (d *Document) Len() int {
	if len(d.lines) == 0 {
		return 0
	}
	last := d.lines[len(d.lines)-1]
	return last.runeOffset + last.runeLen
}

// LineCount returns the number of lines (a trailing, unterminated line after
// the last newline still counts as one line, matching LSP semantics).
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Replace replaces the entire document content, used for a
// textDocument/didChange notification with no Range (full-content sync).
func (d *Document) Replace(content string) {
	d.content = content
	d.reindex()
}

// InsertAt inserts text at the given rune offset.
func (d *Document) InsertAt(runeOffset int, text string) {
	b := d.runeOffsetToByteOffset(runeOffset)
	d.content = d.content[:b] + text + d.content[b:]
	d.reindex()
}

// DeleteRange deletes the runes in [startRune, endRune).
func (d *Document) DeleteRange(startRune, endRune int) {
	bs := d.runeOffsetToByteOffset(startRune)
	be := d.runeOffsetToByteOffset(endRune)
	d.content = d.content[:bs] + d.content[be:]
	d.reindex()
}

// ApplyChange applies a single textDocument/didChange content-change event.
// A nil range means full-content replacement; otherwise the range (in the
// negotiated encoding) is replaced with event.Text.
func (d *Document) ApplyChange(event protocol.TextDocumentContentChangeEvent, enc protocol.PositionEncodingKind) bool {
	if event.Range == nil {
		d.Replace(event.Text)
		return true
	}
	start, ok1 := d.PositionToOffset(event.Range.Start, enc)
	end, ok2 := d.PositionToOffset(event.Range.End, enc)
	if !ok1 || !ok2 {
		return false
	}
	d.DeleteRange(start, end)
	d.InsertAt(start, event.Text)
	return true
}

// LinePrefix returns the text of the given line from its start up to
// (but not including) runeCol, plus the rune offset at which that line
// begins. This is the slice the Input Parser regexes run against (spec
// §4.2: "the trailing segment of the current line").
func (d *Document) LinePrefix(line, runeCol int) (text string, lineStartOffset int, ok bool) {
	if line < 0 || line >= len(d.lines) {
		return "", 0, false
	}
	li := d.lines[line]
	if runeCol < 0 || runeCol > li.runeLen {
		return "", 0, false
	}
	lineContent := d.content[li.byteOffset : li.byteOffset+li.byteLen]
	byteCol := runeOffsetToByteOffsetInString(lineContent, runeCol)
	return lineContent[:byteCol], li.runeOffset, true
}

// PositionToOffset converts an LSP Position to a rune offset, per the
// negotiated encoding. Returns ok=false if the position is out of range
// (spec §7 BadLSP).
func (d *Document) PositionToOffset(pos protocol.Position, enc protocol.PositionEncodingKind) (int, bool) {
	if pos.Line < 0 || pos.Character < 0 {
		return 0, false
	}
	if pos.Line >= len(d.lines) {
		if pos.Line == len(d.lines) && pos.Character == 0 {
			return d.Len(), true
		}
		return 0, false
	}
	li := d.lines[pos.Line]
	lineContent := d.content[li.byteOffset : li.byteOffset+li.byteLen]

	var runeInLine int
	switch enc {
	case protocol.UTF8:
		if pos.Character > li.byteLen {
			return 0, false
		}
		runeInLine = byteOffsetToRuneOffset(lineContent, pos.Character)
	case protocol.UTF32:
		if pos.Character > li.runeLen {
			return 0, false
		}
		runeInLine = pos.Character
	default: // UTF16
		if pos.Character > li.utf16Len {
			return 0, false
		}
		runeInLine = utf16OffsetToRuneOffset(lineContent, pos.Character)
	}
	return li.runeOffset + runeInLine, true
}

// OffsetToPosition converts a rune offset to an LSP Position under enc.
func (d *Document) OffsetToPosition(runeOffset int, enc protocol.PositionEncodingKind) protocol.Position {
	if runeOffset < 0 {
		runeOffset = 0
	}
	if len(d.lines) == 0 {
		return protocol.Position{}
	}
	idx := d.lineIndexForRune(runeOffset)
	li := d.lines[idx]
	runeInLine := runeOffset - li.runeOffset
	if runeInLine > li.runeLen {
		runeInLine = li.runeLen
	}
	lineContent := d.content[li.byteOffset : li.byteOffset+li.byteLen]

	var character int
	switch enc {
	case protocol.UTF8:
		character = runeOffsetToByteOffsetInString(lineContent, runeInLine)
	case protocol.UTF32:
		character = runeInLine
	default: // UTF16
		character = runeOffsetToUTF16Offset(lineContent, runeInLine)
	}
	return protocol.Position{Line: idx, Character: character}
}

// lineIndexForRune returns the index of the line containing the global rune
// offset: the greatest i with lines[i].runeOffset <= runeOffset. An offset
// that lands exactly on the newline separating two lines resolves to the
// earlier line, at its end.
func (d *Document) lineIndexForRune(runeOffset int) int {
	idx := sort.Search(len(d.lines), func(i int) bool {
		return d.lines[i].runeOffset > runeOffset
	})
	idx--
	if idx < 0 {
		idx = 0
	}
	if idx >= len(d.lines) {
		idx = len(d.lines) - 1
	}
	return idx
}

func (d *Document) runeOffsetToByteOffset(runeOffset int) int {
	if len(d.lines) == 0 {
		return 0
	}
	idx := d.lineIndexForRune(runeOffset)
	li := d.lines[idx]
	runeInLine := runeOffset - li.runeOffset
	if runeInLine < 0 {
		runeInLine = 0
	}
	lineContent := d.content[li.byteOffset : li.byteOffset+li.byteLen]
	return li.byteOffset + runeOffsetToByteOffsetInString(lineContent, runeInLine)
}

// reindex rebuilds the per-line index, following the structure of
// Keystorm's PositionConverter.buildLineIndex but tracking rune offsets
// alongside byte and UTF-16 offsets.
func (d *Document) reindex() {
	d.lines = d.lines[:0]

	runeOffset := 0
	lineStart := 0
	runeLineStart := 0

	for i, r := range d.content {
		if r == '\n' {
			d.lines = append(d.lines, lineInfo{
				byteOffset: lineStart,
				byteLen:    i - lineStart,
				runeOffset: runeLineStart,
				runeLen:    runeOffset - runeLineStart,
				utf16Len:   utf16Len(d.content[lineStart:i]),
			})
			lineStart = i + 1
			runeLineStart = runeOffset + 1
		}
		runeOffset++
	}

	d.lines = append(d.lines, lineInfo{
		byteOffset: lineStart,
		byteLen:    len(d.content) - lineStart,
		runeOffset: runeLineStart,
		runeLen:    runeOffset - runeLineStart,
		utf16Len:   utf16Len(d.content[lineStart:]),
	})
}
