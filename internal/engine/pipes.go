package engine

import "strings"

// applyPipe dispatches call against in using the fixed pipe registry (§4.1).
// A pipe whose input Kind does not match what it expects returns the input
// unchanged — pipes never fail (§4.1 "Type mismatches do not abort
// rendering").
func applyPipe(call pipeCall, in Value, scope *Scope) Value {
	fn, ok := pipeRegistry[call.name]
	if !ok {
		// Unknown pipe name: pass the value through unchanged (§8 "unknown
		// pipes yield their input").
		return in
	}
	return fn(call, in, scope)
}

type pipeFunc func(call pipeCall, in Value, scope *Scope) Value

// pipeRegistry is the fixed, extensible-without-touching-Render set of named
// pipes (DESIGN NOTES §9: "Dynamic dispatch over pipes: use a fixed registry
// keyed by pipe name").
var pipeRegistry = map[string]pipeFunc{
	"lines":    pipeLines,
	"join":     pipeJoin,
	"each":     pipeEach,
	"keep":     pipeKeepWhere,
	"where":    pipeKeepWhere,
	"truncate": pipeTruncate,
}

// pipeLines splits a Str on LF into a Coll<Str>. It does not emit a trailing
// empty element for a terminating newline (§4.1).
func pipeLines(_ pipeCall, in Value, _ *Scope) Value {
	s, ok := stringOf(in)
	if !ok {
		return in
	}
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return Coll(nil)
	}
	parts := strings.Split(s, "\n")
	vals := make([]Value, len(parts))
	for i, p := range parts {
		vals[i] = Str(p)
	}
	return Coll(vals)
}

// pipeJoin concatenates a Coll with separator arg. Non-Str elements coerce
// via their default stringification (§4.1).
func pipeJoin(call pipeCall, in Value, _ *Scope) Value {
	elems, ok := in.AsColl()
	if !ok {
		return in
	}
	sep := ""
	if call.hasArg {
		sep = call.arg
	}
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	return Str(strings.Join(parts, sep))
}

// pipeEach evaluates the sub-template given as arg once per element, in a
// child scope binding `value` to the element and `index` to its 1-based
// position (§4.1).
func pipeEach(call pipeCall, in Value, scope *Scope) Value {
	elems, ok := in.AsColl()
	if !ok {
		return in
	}
	if !call.hasArg {
		return in
	}
	out := make([]Value, len(elems))
	for i, e := range elems {
		child := scope.Child()
		child.Set("value", e)
		child.Set("index", Int(int64(i+1)))
		out[i] = Str(Render(call.arg, child))
	}
	return Coll(out)
}

// pipeKeepWhere retains Coll<Str> elements matching arg (partial match).
// An invalid regex is identity, not an error (§4.1, §4.2).
func pipeKeepWhere(call pipeCall, in Value, _ *Scope) Value {
	elems, ok := in.AsColl()
	if !ok {
		return in
	}
	if !call.hasArg {
		return in
	}
	re, ok := defaultCache.Compile(call.arg)
	if !ok {
		return in
	}
	var out []Value
	for _, e := range elems {
		s, ok := stringOf(e)
		if !ok {
			continue
		}
		if re.MatchString(s) {
			out = append(out, e)
		}
	}
	return Coll(out)
}

// pipeTruncate keeps the first n runes of a Str longer than n runes and
// appends an ellipsis; a Str of n runes or fewer is returned unchanged.
func pipeTruncate(call pipeCall, in Value, _ *Scope) Value {
	s, ok := stringOf(in)
	if !ok {
		return in
	}
	if !call.hasArg {
		return in
	}
	n := parseNonNegInt(call.arg)
	if n < 0 {
		return in
	}
	runes := []rune(s)
	if len(runes) <= n {
		return in
	}
	return Str(string(runes[:n]) + "…")
}

// stringOf returns the underlying string for a Str-kinded Value.
func stringOf(v Value) (string, bool) {
	if v.Kind() != KindStr {
		return "", false
	}
	return v.String(), true
}

// parseNonNegInt parses s as a non-negative integer, returning -1 on
// failure (the caller treats -1 as "identity").
func parseNonNegInt(s string) int {
	if s == "" {
		return -1
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return -1
		}
		n = n*10 + int(c-'0')
	}
	return n
}
