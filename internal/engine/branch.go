package engine

import (
	"github.com/tokf/tokf/internal/filterdef"
)

// SelectBranch picks on_success / on_failure by exit code (§4.7 steps 1-2).
// It does not consider fallback; the caller applies fallback separately
// when the chosen branch's result is empty or no branch applies (§4.7 step
// 3, §4.8 step 8).
func SelectBranch(def *filterdef.FilterDefinition, exitCode int64) *filterdef.BranchSpec {
	if exitCode == 0 {
		return def.OnSuccess
	}
	return def.OnFailure
}

// ApplyBranch runs one branch's sub-pipeline over lines in the fixed order
// head → tail → skip → extract → aggregate → output (§4.7).
func ApplyBranch(spec *filterdef.BranchSpec, lines []string, scope *Scope, diag *Diagnostics) string {
	lines = applyHead(spec.Head, lines)
	lines = applyTail(spec.Tail, lines)
	lines = ApplySkipKeep(spec.Skip, nil, lines, diag)

	if spec.Extract != nil {
		if rendered, ok := applyExtract(spec.Extract, lines, scope); ok {
			return rendered
		}
	}

	for _, agg := range spec.Aggregate {
		applyAggregate(agg, scope)
	}

	scope.SetOutput(Unlines(lines))
	if spec.Output != "" {
		return Render(spec.Output, scope)
	}
	return Unlines(lines)
}

// ApplyFallback runs the terminal fallback stage (§4.7, §4.8 step 8): just
// a tail truncation, joined back into a string.
func ApplyFallback(spec *filterdef.FallbackSpec, lines []string) string {
	return Unlines(applyTail(spec.Tail, lines))
}

func applyHead(n int, lines []string) []string {
	if n <= 0 || n >= len(lines) {
		return lines
	}
	return lines[:n]
}

func applyTail(n int, lines []string) []string {
	if n <= 0 || n >= len(lines) {
		return lines
	}
	return lines[len(lines)-n:]
}

// applyExtract finds the first line matching Pattern and renders Output
// with its captures, replacing the branch's line-based output entirely
// (§4.7 step 4).
func applyExtract(spec *filterdef.ExtractSpec, lines []string, scope *Scope) (string, bool) {
	re, ok := defaultCache.Compile(spec.Pattern)
	if !ok {
		return "", false
	}
	for _, line := range lines {
		loc := re.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		child := scope.Child()
		bindCaptures(child, re, line, loc)
		return Render(spec.Output, child), true
	}
	return "", false
}

// applyAggregate reads the Rec bound to From, scans its `lines` field with
// Pattern, and for every line matching with a single integer capture,
// accumulates a running sum and count, bound into scope as Sum/CountAs
// (§4.7 step 5).
func applyAggregate(spec filterdef.AggregateSpec, scope *Scope) {
	v, ok := scope.Lookup(spec.From)
	if !ok {
		return
	}
	rec, ok := v.AsRec()
	if !ok {
		return
	}
	linesVal, ok := rec.Get("lines")
	if !ok {
		return
	}
	elems, ok := linesVal.AsColl()
	if !ok {
		return
	}
	re, ok := defaultCache.Compile(spec.Pattern)
	if !ok {
		return
	}

	var sum int64
	var count int64
	for _, e := range elems {
		line, ok := stringOf(e)
		if !ok {
			continue
		}
		m := re.FindStringSubmatch(line)
		if len(m) != 2 {
			continue
		}
		n, ok := parseInt(m[1])
		if !ok {
			continue
		}
		sum += n
		count++
	}

	if spec.Sum != "" {
		scope.Set(spec.Sum, Int(sum))
	}
	if spec.CountAs != "" {
		scope.Set(spec.CountAs, Int(count))
	}
}

// parseInt parses a (possibly negative) base-10 integer. It exists
// alongside parseNonNegInt in pipes.go because aggregate captures may be
// signed (e.g. a coverage delta).
func parseInt(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	neg := false
	i := 0
	if s[0] == '-' {
		neg = true
		i = 1
	}
	if i == len(s) {
		return 0, false
	}
	var n int64
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}
