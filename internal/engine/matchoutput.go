package engine

import (
	"strings"

	"github.com/tokf/tokf/internal/filterdef"
)

// MatchOutput runs the match_output short-circuit stage (§4.3). Entries are
// tried in definition order; the first whose Contains substring is found
// anywhere in raw wins and terminates the whole pipeline. A miss on every
// entry falls through to the rest of the pipeline unchanged.
//
// matched reports whether a rule fired; when it did, result is the fully
// rendered replacement output.
func MatchOutput(entries []filterdef.MatchOutputEntry, raw string, scope *Scope) (result string, matched bool) {
	for _, e := range entries {
		if !strings.Contains(raw, e.Contains) {
			continue
		}
		child := scope.Child()
		child.Set("line_containing", Str(firstLineContaining(raw, e.Contains)))
		return Render(e.Output, child), true
	}
	return "", false
}

// firstLineContaining returns the first line of raw (split on LF) that
// contains needle. raw is guaranteed to contain needle by the caller, so a
// match always exists.
func firstLineContaining(raw, needle string) string {
	for _, line := range strings.Split(raw, "\n") {
		if strings.Contains(line, needle) {
			return line
		}
	}
	return ""
}
