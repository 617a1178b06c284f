package engine

import (
	"github.com/tokf/tokf/internal/filterdef"
)

// Apply runs the full filter pipeline (§4.8) over one command invocation's
// captured output and returns the compressed result plus any diagnostics
// recorded along the way. Apply never panics on a malformed definition or
// unexpected input; degraded output is always preferred to no output (§7).
func Apply(def *filterdef.FilterDefinition, raw string, exitCode int64, args []string) (string, *Diagnostics) {
	diag := &Diagnostics{}
	scope := NewScope(raw, exitCode, args)

	// Step 2: match_output short-circuits the entire pipeline (Invariant 1:
	// raw is untouched until this point).
	if result, matched := MatchOutput(def.MatchOutput, raw, scope); matched {
		return result, diag
	}

	// Step 3-4: line transforms, in the fixed order replace -> skip/keep ->
	// dedup (Invariant 2: dedup follows skip/keep). Note this round-trips raw
	// through Lines/Unlines even for an empty FilterDefinition, so a
	// trailing LF on raw is not preserved byte-exactly; every other
	// transformation is a no-op in that case.
	lines := Lines(raw)
	lines = ApplyReplace(def.Replace, lines, scope, diag)
	lines = ApplySkipKeep(def.Skip, def.Keep, lines, diag)
	lines = ApplyDedup(def.Dedup, def.DedupWindow, lines)
	scope.SetOutput(Unlines(lines))

	// Step 5: script evaluator may terminate the pipeline outright.
	if def.LuaScript != nil {
		if result, terminated := RunScript(def.LuaScript, scope, diag); terminated {
			return result, diag
		}
	}

	// Step 6: exactly one of sections/parse populates scope (Invariant 4).
	// Section collection sees the post-transform sequence (Invariant 3).
	if len(def.Sections) > 0 {
		CollectSections(def.Sections, lines, scope, diag)
	} else if def.Parse != nil {
		RunParse(def.Parse, def.Output, lines, scope, diag)
	}

	// Step 7: branch selector.
	result := runBranchSelector(def, lines, scope, diag)

	// Step 8: fallback when no branch applies or the chosen branch produced
	// empty output.
	if def.Fallback != nil && (result == "" || SelectBranch(def, exitCode) == nil) {
		result = ApplyFallback(def.Fallback, lines)
	}
	return result, diag
}

// runBranchSelector implements §4.7 steps 1-3: choose on_success/on_failure
// by exit code. When neither applies, it emits scope's current `output`
// binding as-is (§4.7 step 4) — for a `parse`-based definition this is
// already the rendered output.format/output.empty result; for a
// `sections`-based one it is still the post-transform joined lines.
// Fallback, if any, is left to the caller per §4.8 step 8.
func runBranchSelector(def *filterdef.FilterDefinition, lines []string, scope *Scope, diag *Diagnostics) string {
	branch := SelectBranch(def, mustExitCode(scope))
	if branch != nil {
		return ApplyBranch(branch, lines, scope, diag)
	}
	v, _ := scope.Lookup("output")
	return v.String()
}

func mustExitCode(scope *Scope) int64 {
	v, ok := scope.Lookup("exit_code")
	if !ok {
		return 0
	}
	n, _ := v.AsInt()
	return n
}
