package completion

import (
	"testing"

	"github.com/rime-ls/rime-ls/internal/inputparser"
	"github.com/rime-ls/rime-ls/internal/protocol"
)

func parse(t *testing.T, tail string) inputparser.Input {
	t.Helper()
	in, ok := inputparser.ParseNoTrigger(tail, "")
	if !ok {
		t.Fatalf("ParseNoTrigger(%q) did not match", tail)
	}
	return in
}

func TestAssemble_BasicOrdering(t *testing.T) {
	in := parse(t, "nihao")
	resp := Response{
		IsIncomplete: true,
		Candidates: []Candidate{
			{Text: "你好", Order: 1},
			{Text: "你耗", Order: 2},
		},
	}
	rng := protocol.Range{Start: protocol.Position{Character: 0}, End: protocol.Position{Character: 5}}

	list := Assemble(Options{MaxCandidates: 10, ShowOrderInLabel: true}, in, resp, rng, "")

	if len(list.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(list.Items))
	}
	if list.Items[0].Label != "1. 你好" {
		t.Errorf("label[0] = %q, want %q", list.Items[0].Label, "1. 你好")
	}
	if list.Items[0].SortText >= list.Items[1].SortText {
		t.Errorf("sort_text not strictly increasing: %q >= %q", list.Items[0].SortText, list.Items[1].SortText)
	}
}

func TestAssemble_Preselect(t *testing.T) {
	in := parse(t, "ni")
	resp := Response{Candidates: []Candidate{{Text: "你", Order: 1}, {Text: "尼", Order: 2}}}
	rng := protocol.Range{}

	list := Assemble(Options{MaxCandidates: 10, PreselectFirst: true}, in, resp, rng, "")
	if !list.Items[0].Preselect {
		t.Error("expected the first item to be preselected")
	}
	if list.Items[1].Preselect {
		t.Error("expected only the first item preselected")
	}
}

func TestAssemble_NumericPick(t *testing.T) {
	in := parse(t, "nihao2")
	if !in.IsSelecting() {
		t.Fatal("expected IsSelecting true")
	}
	resp := Response{
		Candidates: []Candidate{
			{Text: "你好", Order: 1},
			{Text: "你豪", Order: 2},
		},
	}
	rng := protocol.Range{}

	list := Assemble(Options{MaxCandidates: 10}, in, resp, rng, "")
	if len(list.Items) != 1 {
		t.Fatalf("got %d items, want 1 (numeric pick)", len(list.Items))
	}
	if list.Items[0].TextEdit.NewText != "你豪" {
		t.Errorf("picked text = %q, want %q", list.Items[0].TextEdit.NewText, "你豪")
	}
}

func TestAssemble_SelectingPrependsSubmitted(t *testing.T) {
	in := parse(t, "nihao2")
	resp := Response{
		Submitted:  "，",
		Candidates: []Candidate{{Text: "你好", Order: 2}},
	}
	rng := protocol.Range{}

	list := Assemble(Options{MaxCandidates: 10}, in, resp, rng, "")
	if got := list.Items[0].TextEdit.NewText; got != "，你好" {
		t.Errorf("text_edit.new_text = %q, want %q", got, "，你好")
	}
}

func TestAssemble_AlwaysIncomplete(t *testing.T) {
	in := parse(t, "ni")
	resp := Response{IsIncomplete: false, Candidates: []Candidate{{Text: "你", Order: 1}}}
	rng := protocol.Range{}

	list := Assemble(Options{MaxCandidates: 10, AlwaysIncomplete: true}, in, resp, rng, "")
	if !list.IsIncomplete {
		t.Error("expected is_incomplete forced true")
	}
}

func TestSortText_WidthFromMaxCandidates(t *testing.T) {
	if got := sortText(1, 100); got != "z001" {
		t.Errorf("sortText(1, 100) = %q, want %q", got, "z001")
	}
	if got := sortText(0, 10); got != "z00" {
		t.Errorf("sortText(0, 10) = %q, want %q", got, "z00")
	}
}
