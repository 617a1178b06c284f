package engine

import (
	"testing"

	"github.com/tokf/tokf/internal/filterdef"
)

func TestApply_PassThrough(t *testing.T) {
	// Pass-through (§8): an empty FilterDefinition returns raw's lines
	// unchanged; the Lines/Unlines round trip drops the terminating LF.
	def := &filterdef.FilterDefinition{}
	raw := "whatever\nthe\noutput\n"
	got, diags := Apply(def, raw, 0, nil)
	want := "whatever\nthe\noutput"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if !diags.Empty() {
		t.Fatalf("expected no diagnostics, got %v", diags.Entries())
	}
}

func TestApply_GitPushSuccess(t *testing.T) {
	raw := "Enumerating objects: 5\nCounting objects: 5\nWriting objects: 5\n" +
		"To github.com:u/r.git\n   abc1234..def5678  main -> main\n"
	def := &filterdef.FilterDefinition{
		OnSuccess: &filterdef.BranchSpec{
			Skip: []string{"^Enumerating objects", "^Counting objects", "^Writing objects", "^To "},
			Extract: &filterdef.ExtractSpec{
				Pattern: `(\S+)\s*->\s*(\S+)`,
				Output:  "ok ✓ {2}",
			},
		},
	}
	got, _ := Apply(def, raw, 0, nil)
	if got != "ok ✓ main" {
		t.Fatalf("got %q", got)
	}
}

func TestApply_GitPushUpToDate(t *testing.T) {
	raw := "Everything up-to-date\n"
	def := &filterdef.FilterDefinition{
		MatchOutput: []filterdef.MatchOutputEntry{
			{Contains: "Everything up-to-date", Output: "ok (up-to-date)"},
		},
		OnSuccess: &filterdef.BranchSpec{Output: "should not run"},
	}
	got, _ := Apply(def, raw, 0, nil)
	if got != "ok (up-to-date)" {
		t.Fatalf("got %q", got)
	}
}

func TestApply_DedupWindow(t *testing.T) {
	raw := "spin\nspin\nspin\nspin\n"
	def := &filterdef.FilterDefinition{DedupWindow: 2}
	got, _ := Apply(def, raw, 0, nil)
	if got != "spin" {
		t.Fatalf("got %q", got)
	}
}

func TestApply_MatchOutputShortCircuitsEverythingElse(t *testing.T) {
	// Match short-circuit (§8): if match_output fires, no later stage runs.
	raw := "trigger here\nand more stuff\n"
	def := &filterdef.FilterDefinition{
		MatchOutput: []filterdef.MatchOutputEntry{
			{Contains: "trigger", Output: "short: {line_containing}"},
		},
		Replace:   []filterdef.ReplaceEntry{{Pattern: ".*", Output: "SHOULD NOT APPEAR"}},
		OnSuccess: &filterdef.BranchSpec{Output: "SHOULD NOT APPEAR EITHER"},
	}
	got, _ := Apply(def, raw, 0, nil)
	if got != "short: trigger here" {
		t.Fatalf("got %q", got)
	}
}

func TestApply_OrderStability(t *testing.T) {
	// Order stability (§8): line order is preserved across replace/skip/
	// keep/dedup.
	raw := "1\n2\n3\n4\n5\n"
	def := &filterdef.FilterDefinition{
		Replace: []filterdef.ReplaceEntry{{Pattern: `^(\d)$`, Output: "n{1}"}},
	}
	got, _ := Apply(def, raw, 0, nil)
	want := "n1\nn2\nn3\nn4\nn5"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestApply_ScriptTerminatesPipeline(t *testing.T) {
	def := &filterdef.FilterDefinition{
		LuaScript: &filterdef.LuaScript{Lang: "luau", Source: `return "scripted: " .. output`},
		OnSuccess: &filterdef.BranchSpec{Output: "SHOULD NOT APPEAR"},
	}
	got, _ := Apply(def, "payload", 0, nil)
	if got != "scripted: payload" {
		t.Fatalf("got %q", got)
	}
}

func TestApply_FallbackOnlyWhenBranchEmpty(t *testing.T) {
	def := &filterdef.FilterDefinition{
		OnSuccess: &filterdef.BranchSpec{
			Skip: []string{".*"}, // drops every line, leaving the branch output empty
		},
		Fallback: &filterdef.FallbackSpec{Tail: 1},
	}
	got, _ := Apply(def, "a\nb\nc", 0, nil)
	if got != "c" {
		t.Fatalf("got %q", got)
	}
}
