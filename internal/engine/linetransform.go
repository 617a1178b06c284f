package engine

import (
	"regexp"
	"strings"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/tokf/tokf/internal/filterdef"
)

// compiledPattern wraps a cached regexp so skip/keep filtering doesn't need
// to re-run the cache lookup's ok-check at every call site.
type compiledPattern struct {
	re *regexp.Regexp
}

// dedupWindowThreshold is the point past which tracking a ring of recent
// line hashes is cheaper than keeping the full recent-lines strings around
// (§5 "large dedup_window values should not retain full line copies").
const dedupWindowThreshold = 16

// ApplyReplace rewrites each line by running every replace entry over it in
// definition order (§4.3). A line that no pattern matches passes through
// unchanged. An invalid pattern is a no-op for that entry, recorded to diag
// (§7 kind 4).
func ApplyReplace(entries []filterdef.ReplaceEntry, lines []string, scope *Scope, diag *Diagnostics) []string {
	if len(entries) == 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = applyReplaceToLine(entries, line, scope, diag)
	}
	return out
}

func applyReplaceToLine(entries []filterdef.ReplaceEntry, line string, scope *Scope, diag *Diagnostics) string {
	for _, e := range entries {
		re, ok := defaultCache.Compile(e.Pattern)
		if !ok {
			diag.add(DiagRegexCompileError, "replace", "invalid pattern: "+e.Pattern)
			continue
		}
		loc := re.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		child := scope.Child()
		bindCaptures(child, re, line, loc)
		line = Render(e.Output, child)
	}
	return line
}

// bindCaptures binds the full match ("0") and each capture group ("1", "2",
// ...) in scope, from a FindStringSubmatchIndex result.
func bindCaptures(scope *Scope, re *regexp.Regexp, line string, loc []int) {
	scope.Set("0", Str(line[loc[0]:loc[1]]))
	n := re.NumSubexp()
	for g := 1; g <= n; g++ {
		lo, hi := loc[2*g], loc[2*g+1]
		if lo < 0 || hi < 0 {
			scope.Set(formatInt(int64(g)), Str(""))
			continue
		}
		scope.Set(formatInt(int64(g)), Str(line[lo:hi]))
	}
}

// ApplySkipKeep drops lines matched by any skip pattern, then (if keep is
// non-empty) drops any surviving line matched by none of the keep patterns
// (§4.3). Invalid patterns are treated as never-matching and recorded to
// diag (§7 kind 4).
func ApplySkipKeep(skip, keep []string, lines []string, diag *Diagnostics) []string {
	skipRes := compileAll(skip, "skip", diag)
	keepRes := compileAll(keep, "keep", diag)

	out := lines[:0:0]
	for _, line := range lines {
		if matchesAny(skipRes, line) {
			continue
		}
		if len(keepRes) > 0 && !matchesAny(keepRes, line) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func compileAll(patterns []string, stage string, diag *Diagnostics) []*compiledPattern {
	var out []*compiledPattern
	for _, p := range patterns {
		re, ok := defaultCache.Compile(p)
		if !ok {
			diag.add(DiagRegexCompileError, stage, "invalid pattern: "+p)
			continue
		}
		out = append(out, &compiledPattern{re: re})
	}
	return out
}

func matchesAny(patterns []*compiledPattern, line string) bool {
	for _, p := range patterns {
		if p.re.MatchString(line) {
			return true
		}
	}
	return false
}

// ApplyDedup removes duplicate lines per §4.3's dedup rules (Open Question
// resolution, DESIGN.md): dedup_window, when > 0, subsumes the plain
// consecutive-only dedup flag; dedup_window=1 behaves exactly like
// dedup=true. A window of 0 with dedup=true means "consecutive only".
func ApplyDedup(dedup bool, window int, lines []string) []string {
	if window > 0 {
		return dedupWindow(lines, window)
	}
	if dedup {
		return dedupConsecutive(lines)
	}
	return lines
}

func dedupConsecutive(lines []string) []string {
	out := lines[:0:0]
	var prev string
	havePrev := false
	for _, line := range lines {
		if havePrev && line == prev {
			continue
		}
		out = append(out, line)
		prev = line
		havePrev = true
	}
	return out
}

// dedupWindow drops a line that duplicates any of the last `window` emitted
// lines. Past dedupWindowThreshold it tracks a ring of hashes (via
// hashstructure) instead of the literal strings, trading an astronomically
// small false-dedup probability for bounded memory on huge windows.
func dedupWindow(lines []string, window int) []string {
	if window <= dedupWindowThreshold {
		return dedupWindowExact(lines, window)
	}
	return dedupWindowHashed(lines, window)
}

func dedupWindowExact(lines []string, window int) []string {
	out := lines[:0:0]
	recent := make([]string, 0, window)
	for _, line := range lines {
		dup := false
		for _, r := range recent {
			if r == line {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		out = append(out, line)
		recent = append(recent, line)
		if len(recent) > window {
			recent = recent[1:]
		}
	}
	return out
}

func dedupWindowHashed(lines []string, window int) []string {
	out := lines[:0:0]
	ring := make([]uint64, 0, window)
	for _, line := range lines {
		h, err := hashstructure.Hash(line, hashstructure.FormatV2, nil)
		if err != nil {
			// Hashing a string cannot fail in practice; fall back to emitting
			// the line unconditionally rather than aborting the pipeline.
			out = append(out, line)
			continue
		}
		dup := false
		for _, r := range ring {
			if r == h {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		out = append(out, line)
		ring = append(ring, h)
		if len(ring) > window {
			ring = ring[1:]
		}
	}
	return out
}

// Lines splits text on LF without emitting a trailing empty element for a
// terminating newline, mirroring pipeLines.
func Lines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Unlines re-joins lines with LF, the inverse of Lines.
func Unlines(lines []string) string {
	return strings.Join(lines, "\n")
}
