package engine

import (
	"regexp"
	"strings"

	"github.com/tokf/tokf/internal/filterdef"
)

// defaultGroupCountsFormat is used when output.group_counts_format is unset
// (§4.5).
const defaultGroupCountsFormat = "{label}: {count}"

// RunParse executes the declarative `parse` operation (§4.5) over the
// post-transform line sequence, populating scope with `branch`,
// `tracking_info`, and `group_counts`, then renders the overall `output`
// template (or `output.empty` when the group produced no entries) and
// writes the result back into scope's `output` binding (§4.8 step 6).
func RunParse(spec *filterdef.ParseSpec, out *filterdef.OutputSpec, lines []string, scope *Scope, diag *Diagnostics) {
	consumed := make([]bool, len(lines))

	if spec.Branch != nil {
		runParseBranch(spec.Branch, lines, consumed, scope, diag)
	} else {
		scope.Set("branch", Str(""))
		scope.Set("tracking_info", Str(""))
	}

	groupCountsFormat := defaultGroupCountsFormat
	if out != nil && out.GroupCountsFormat != "" {
		groupCountsFormat = out.GroupCountsFormat
	}

	groupEntries := 0
	if spec.Group != nil {
		groupEntries = runParseGroup(spec.Group, lines, consumed, scope, groupCountsFormat, diag)
	} else {
		scope.Set("group_counts", Str(""))
	}

	if out == nil {
		return
	}
	if groupEntries == 0 && spec.Group != nil {
		scope.SetOutput(Render(out.Empty, scope))
		return
	}
	scope.SetOutput(Render(out.Format, scope))
}

// runParseBranch implements the `branch` sub-operation: take the line at
// 1-based index Line, match Pattern, render Output with its captures, bind
// `branch`. `tracking_info` is derived from secondary capture groups (Open
// Question resolution, DESIGN.md): rendered as " [" + joined non-empty
// secondary captures + "]" when any is non-empty, else "".
func runParseBranch(spec *filterdef.BranchParseSpec, lines []string, consumed []bool, scope *Scope, diag *Diagnostics) {
	scope.Set("branch", Str(""))
	scope.Set("tracking_info", Str(""))

	idx := spec.Line - 1
	if idx < 0 || idx >= len(lines) {
		return
	}
	re, ok := defaultCache.Compile(spec.Pattern)
	if !ok {
		diag.add(DiagRegexCompileError, "parse.branch", "invalid pattern: "+spec.Pattern)
		return
	}
	line := lines[idx]
	loc := re.FindStringSubmatchIndex(line)
	if loc == nil {
		return
	}
	consumed[idx] = true

	child := scope.Child()
	bindCaptures(child, re, line, loc)
	scope.Set("branch", Str(Render(spec.Output, child)))
	scope.Set("tracking_info", Str(trackingInfoFromCaptures(re, line, loc)))
}

// trackingInfoFromCaptures joins every non-empty secondary capture (group 2
// onward) with ", " and wraps the result in " [...]"; an empty set of
// secondary captures yields "".
func trackingInfoFromCaptures(re *regexp.Regexp, line string, loc []int) string {
	n := re.NumSubexp()
	var parts []string
	for g := 2; g <= n; g++ {
		lo, hi := loc[2*g], loc[2*g+1]
		if lo < 0 || hi < 0 {
			continue
		}
		if s := line[lo:hi]; s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

// runParseGroup implements the `group` sub-operation over every
// not-yet-consumed line, counting occurrences per display label in
// first-occurrence order, and renders `group_counts`. It returns the number
// of distinct labels produced.
func runParseGroup(spec *filterdef.GroupParseSpec, lines []string, consumed []bool, scope *Scope, format string, diag *Diagnostics) int {
	re, ok := defaultCache.Compile(spec.Key.Pattern)
	if !ok {
		diag.add(DiagRegexCompileError, "parse.group", "invalid pattern: "+spec.Key.Pattern)
		scope.Set("group_counts", Str(""))
		return 0
	}

	var order []string
	counts := make(map[string]int)
	for i, line := range lines {
		if consumed[i] {
			continue
		}
		loc := re.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		child := scope.Child()
		bindCaptures(child, re, line, loc)
		rawKey := Render(spec.Key.Output, child)

		label := rawKey
		if spec.Labels != nil {
			if mapped, ok := spec.Labels[rawKey]; ok {
				label = mapped
			}
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	var rendered []string
	for _, label := range order {
		child := scope.Child()
		child.Set("label", Str(label))
		child.Set("count", Int(int64(counts[label])))
		rendered = append(rendered, Render(format, child))
	}
	scope.Set("group_counts", Str(strings.Join(rendered, "\n")))
	return len(order)
}
