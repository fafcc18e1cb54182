package completion

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rime-ls/rime-ls/internal/inputparser"
	"github.com/rime-ls/rime-ls/internal/protocol"
)

// Candidate mirrors internal/rime.Response's candidate shape. Kept as an
// independent type so this package carries no dependency on the cgo-linked
// Engine Adapter — the LSP Facade converts rime.Candidate values into these
// when it calls Assemble.
type Candidate struct {
	Text    string
	Comment string
	Order   int
}

// Response mirrors internal/rime.Response, same rationale as Candidate.
type Response struct {
	IsIncomplete bool
	Submitted    string
	Candidates   []Candidate
}

// Options are the configuration fields the assembler consults (spec §6).
type Options struct {
	MaxCandidates         int
	PreselectFirst        bool
	LongFilterText        bool
	ShowFilterTextInLabel bool
	ShowOrderInLabel      bool
	AlwaysIncomplete      bool
}

// Assemble builds the CompletionList for one request (spec §4.5).
//
// rng is the already-computed [real_offset, cursor] range (real_offset
// accounts for the Input State Machine's extra_offset); surroundingWord is
// the word-chars-and-underscore run immediately preceding the match, used
// only when LongFilterText is set.
func Assemble(opts Options, in inputparser.Input, resp Response, rng protocol.Range, surroundingWord string) protocol.CompletionList {
	filterText := in.RawText()
	if opts.LongFilterText && surroundingWord != "" {
		filterText = surroundingWord + filterText
	}

	isSelecting := in.IsSelecting()

	if isSelecting {
		if picked, ok := numericPick(in.Select(), resp.Candidates); ok {
			item := buildItem(opts, picked, 0, resp.Submitted, isSelecting, filterText, rng)
			return protocol.CompletionList{
				IsIncomplete: opts.AlwaysIncomplete || resp.IsIncomplete,
				Items:        []protocol.CompletionItem{item},
			}
		}
	}

	items := make([]protocol.CompletionItem, 0, len(resp.Candidates))
	for i, c := range resp.Candidates {
		items = append(items, buildItem(opts, c, i, resp.Submitted, isSelecting, filterText, rng))
	}

	return protocol.CompletionList{
		IsIncomplete: opts.AlwaysIncomplete || resp.IsIncomplete,
		Items:        items,
	}
}

// numericPick implements the numeric-selection shortcut (spec §4.5): if
// select is a plain digit string naming an existing candidate's order,
// that candidate alone is returned.
func numericPick(sel string, candidates []Candidate) (Candidate, bool) {
	k, err := strconv.Atoi(sel)
	if err != nil {
		return Candidate{}, false
	}
	for _, c := range candidates {
		if c.Order == k {
			return c, true
		}
	}
	return Candidate{}, false
}

func buildItem(opts Options, c Candidate, index int, submitted string, isSelecting bool, filterText string, rng protocol.Range) protocol.CompletionItem {
	text := c.Text
	if isSelecting {
		text = submitted + c.Text
	}

	label := text
	if opts.ShowOrderInLabel && c.Order != 0 {
		label = fmt.Sprintf("%d. %s", c.Order, text)
	}
	if opts.ShowFilterTextInLabel {
		label = fmt.Sprintf("%s (%s)", label, filterText)
	}

	item := protocol.CompletionItem{
		Label:      label,
		Kind:       protocol.CompletionItemKindText,
		FilterText: filterText,
		SortText:   sortText(c.Order, opts.MaxCandidates),
		TextEdit: &protocol.CompletionTextEdit{
			Range:   rng,
			NewText: text,
		},
	}
	if c.Comment != "" {
		item.Detail = c.Comment
		item.LabelDetails = &protocol.CompletionItemLabelDetails{Detail: c.Comment}
	}
	if opts.PreselectFirst && index == 0 {
		item.Preselect = true
	}
	return item
}

// sortText guarantees lexicographic order reflects candidate order and
// places every candidate below natural-language completion items: a "z"
// prefix followed by the order, zero-padded to the width of maxCandidates
// (spec §4.5).
func sortText(order, maxCandidates int) string {
	width := len(strconv.Itoa(maxCandidates))
	if width < 1 {
		width = 1
	}
	orderDigits := strconv.Itoa(order)
	padding := max(0, width-len(orderDigits))
	return "z" + strings.Repeat("0", padding) + orderDigits
}
