package engine

import (
	"testing"

	"github.com/tokf/tokf/internal/filterdef"
)

func TestCollectSections_EnterExitInclusion(t *testing.T) {
	// Section inclusion (§8): the enter line is present in the collected
	// text and the exit line is not (Invariant 5).
	lines := []string{"before", "START", "inside1", "inside2", "END", "after"}
	specs := []filterdef.SectionSpec{
		{Name: "block", CollectAs: "block", Enter: "^START$", Exit: "^END$"},
	}
	scope := NewScope("", 0, nil)
	CollectSections(specs, lines, scope, &Diagnostics{})

	v, ok := scope.Lookup("block")
	if !ok {
		t.Fatal("block not bound")
	}
	text := v.String()
	want := "START\ninside1\ninside2"
	if text != want {
		t.Fatalf("got %q, want %q", text, want)
	}
}

func TestCollectSections_SplitOnProducesBlocks(t *testing.T) {
	lines := []string{"START", "a1", "---", "a2", "---", "a3", "END"}
	specs := []filterdef.SectionSpec{
		{Name: "blk", CollectAs: "blk", Enter: "^START$", Exit: "^END$", SplitOn: "^---$"},
	}
	scope := NewScope("", 0, nil)
	CollectSections(specs, lines, scope, &Diagnostics{})

	v, _ := scope.Lookup("blk")
	rec, ok := v.AsRec()
	if !ok {
		t.Fatal("expected Rec")
	}
	countV, _ := rec.Get("count")
	count, _ := countV.AsInt()
	if count != 3 {
		t.Fatalf("expected 3 blocks, got %d", count)
	}
}

func TestCollectSections_MatchFormCollectsEveryMatchingLine(t *testing.T) {
	lines := []string{"test result: ok. 3 passed", "noise", "test result: ok. 4 passed"}
	specs := []filterdef.SectionSpec{
		{Name: "summary", CollectAs: "summary_lines", Match: "^test result:"},
	}
	scope := NewScope("", 0, nil)
	CollectSections(specs, lines, scope, &Diagnostics{})

	v, _ := scope.Lookup("summary_lines")
	rec, _ := v.AsRec()
	linesV, _ := rec.Get("lines")
	elems, _ := linesV.AsColl()
	if len(elems) != 2 {
		t.Fatalf("expected 2 matched lines, got %d", len(elems))
	}
}

func TestCollectSections_BroadcastIndependently(t *testing.T) {
	// A single line can belong to multiple sections (§4.4): each section's
	// state machine runs independently over the same stream.
	lines := []string{"A and B", "only A"}
	specs := []filterdef.SectionSpec{
		{Name: "a", CollectAs: "a", Match: "A"},
		{Name: "b", CollectAs: "b", Match: "B"},
	}
	scope := NewScope("", 0, nil)
	CollectSections(specs, lines, scope, &Diagnostics{})

	av, _ := scope.Lookup("a")
	bv, _ := scope.Lookup("b")
	if av.String() != "A and B\nonly A" {
		t.Fatalf("section a got %q", av.String())
	}
	if bv.String() != "A and B" {
		t.Fatalf("section b got %q", bv.String())
	}
}
