package diff

import "testing"

func TestDiff(t *testing.T) {
	tests := []struct {
		old, new string
		kind     Kind
		suffix   string
	}{
		{"nihao", "nihao", Same, ""},
		{"", "", Same, ""},
		{"ni", "nihao", Add, "hao"},
		{"nihao", "ni", Delete, "hao"},
		{"", "ni", Add, "ni"},
		{"ni", "", Delete, "ni"},
		{"nihao", "nige", New, ""},
		{"abc", "xyz", New, ""},
	}
	for _, tt := range tests {
		got := Diff(tt.old, tt.new)
		if got.Kind != tt.kind || got.Suffix != tt.suffix {
			t.Errorf("Diff(%q, %q) = {%v, %q}, want {%v, %q}",
				tt.old, tt.new, got.Kind, got.Suffix, tt.kind, tt.suffix)
		}
	}
}

func TestDiff_Invariants(t *testing.T) {
	cases := [][2]string{
		{"a", "ab"}, {"abc", "a"}, {"", "z"}, {"z", ""}, {"foo", "foo"},
	}
	for _, c := range cases {
		old, new := c[0], c[1]
		r := Diff(old, new)
		switch r.Kind {
		case Add:
			if old+r.Suffix != new {
				t.Errorf("Add invariant violated for (%q,%q): old+suffix=%q", old, new, old+r.Suffix)
			}
		case Delete:
			if new+r.Suffix != old {
				t.Errorf("Delete invariant violated for (%q,%q): new+suffix=%q", old, new, new+r.Suffix)
			}
		}
	}
}
