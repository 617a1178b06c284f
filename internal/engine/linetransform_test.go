package engine

import (
	"reflect"
	"testing"

	"github.com/tokf/tokf/internal/filterdef"
)

func TestApplyReplace(t *testing.T) {
	entries := []filterdef.ReplaceEntry{
		{Pattern: `(\d+)`, Output: "N={1}"},
	}
	scope := NewScope("", 0, nil)
	got := ApplyReplace(entries, []string{"count 42", "no digits"}, scope, &Diagnostics{})
	want := []string{"N=42", "no digits"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestApplySkipKeep_Complement(t *testing.T) {
	// Keep/skip complement (§8): keep=[p] retains exactly the complement of
	// what skip=[p] drops, when the other is empty.
	lines := []string{"alpha", "beta", "gamma"}
	skipped := ApplySkipKeep([]string{"^a"}, nil, lines, &Diagnostics{})
	kept := ApplySkipKeep(nil, []string{"^a"}, lines, &Diagnostics{})

	all := make(map[string]bool)
	for _, l := range lines {
		all[l] = true
	}
	for _, l := range skipped {
		delete(all, l)
	}
	remaining := make([]string, 0)
	for l := range all {
		remaining = append(remaining, l)
	}
	if len(remaining) != len(kept) {
		t.Fatalf("skip complement mismatch: skipped-complement=%v kept=%v", remaining, kept)
	}
}

func TestApplyDedup(t *testing.T) {
	tests := []struct {
		name   string
		dedup  bool
		window int
		in     []string
		want   []string
	}{
		{"none", false, 0, []string{"a", "a", "b"}, []string{"a", "a", "b"}},
		{"consecutive", true, 0, []string{"a", "a", "b", "a"}, []string{"a", "b", "a"}},
		{"window2", false, 2, []string{"spin", "spin", "spin", "spin"}, []string{"spin"}},
		{"window subsumes dedup flag", true, 5, []string{"x", "y", "x"}, []string{"x", "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyDedup(tt.dedup, tt.window, tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDedup_Monotonicity(t *testing.T) {
	in := []string{"a", "a", "b", "b", "b", "c"}
	once := ApplyDedup(true, 0, in)
	twice := ApplyDedup(true, 0, once)
	if len(once) > len(in) {
		t.Fatalf("dedup must not grow input")
	}
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("dedup(dedup(x)) != dedup(x): %v vs %v", once, twice)
	}
}

func TestLinesUnlines_RoundTrip(t *testing.T) {
	raw := "a\nb\nc"
	if got := Unlines(Lines(raw)); got != raw {
		t.Fatalf("got %q, want %q", got, raw)
	}
	if lines := Lines("a\nb\n"); len(lines) != 2 {
		t.Fatalf("trailing newline should not produce an empty element, got %v", lines)
	}
}
