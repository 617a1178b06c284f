package engine

import (
	"strconv"
	"strings"
)

// expr is one parsed `{name[.field](|pipe[:arg])*}` template expression.
type expr struct {
	name  string
	field string // "" when absent
	pipes []pipeCall
}

type pipeCall struct {
	name   string
	arg    string
	hasArg bool
}

// Render evaluates every `{...}` expression embedded in host against scope
// and returns the fully substituted string. Rendering is total (§8,
// Invariant 7): a malformed or unresolvable expression never aborts
// rendering — it is either passed through literally (unmatched braces) or
// resolves to the empty string (unknown variable).
func Render(host string, scope *Scope) string {
	var out strings.Builder
	i := 0
	for i < len(host) {
		if host[i] != '{' {
			out.WriteByte(host[i])
			i++
			continue
		}
		end, ok := findExprEnd(host, i+1)
		if !ok {
			// No matching unquoted '}': treat '{' as a literal character.
			out.WriteByte(host[i])
			i++
			continue
		}
		content := host[i+1 : end]
		e, ok := parseExpr(content)
		if !ok {
			// Malformed expression body: pass the braces through literally
			// rather than aborting (totality).
			out.WriteString(host[i : end+1])
			i = end + 1
			continue
		}
		out.WriteString(evalExpr(e, scope))
		i = end + 1
	}
	return out.String()
}

// findExprEnd returns the index of the first unquoted '}' at or after start,
// honoring double-quoted pipe-arg strings (with backslash escapes) so a
// literal '}' inside a quoted arg does not terminate the expression early.
func findExprEnd(s string, start int) (int, bool) {
	inQuote := false
	for i := start; i < len(s); i++ {
		switch {
		case inQuote && s[i] == '\\' && i+1 < len(s):
			i++ // skip escaped char
		case s[i] == '"':
			inQuote = !inQuote
		case !inQuote && s[i] == '}':
			return i, true
		case !inQuote && s[i] == '{':
			// No nesting in this grammar; an unescaped nested '{' means the
			// first '{' was not a real expression opener.
			return 0, false
		}
	}
	return 0, false
}

// parseExpr parses the content between `{` and `}`:
// name ( '.' field )? ( '|' pipe ( ':' arg )? )*
// Whitespace is allowed (and ignored) around '.', '|', and ':' so authors
// can write either `{x|f:"a"}` or `{x | f: "a"}` — the library filters and
// the spec's own worked examples use the spaced form (§8 scenario 6).
func parseExpr(s string) (expr, bool) {
	p := &tplParser{s: s}
	name, ok := p.ident()
	if !ok || name == "" {
		return expr{}, false
	}
	e := expr{name: name}

	p.skipSpace()
	if p.peekByte('.') {
		p.pos++
		p.skipSpace()
		field, ok := p.ident()
		if !ok {
			return expr{}, false
		}
		e.field = field
		p.skipSpace()
	}

	for p.peekByte('|') {
		p.pos++
		p.skipSpace()
		pname, ok := p.ident()
		if !ok || pname == "" {
			return expr{}, false
		}
		call := pipeCall{name: pname}
		p.skipSpace()
		if p.peekByte(':') {
			p.pos++
			p.skipSpace()
			arg, hasArg, ok := p.arg()
			if !ok {
				return expr{}, false
			}
			call.arg = arg
			call.hasArg = hasArg
		}
		e.pipes = append(e.pipes, call)
		p.skipSpace()
	}

	return e, p.pos == len(p.s)
}

type tplParser struct {
	s   string
	pos int
}

func (p *tplParser) peekByte(b byte) bool {
	return p.pos < len(p.s) && p.s[p.pos] == b
}

// skipSpace advances past any run of plain ASCII spaces (the grammar has
// no other whitespace-significant construct, so tabs/newlines inside a
// `{...}` expression are not expected and are left alone).
func (p *tplParser) skipSpace() {
	for p.pos < len(p.s) && p.s[p.pos] == ' ' {
		p.pos++
	}
}

// ident consumes a run of letters, digits, underscores, and hyphens.
func (p *tplParser) ident() (string, bool) {
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if isIdentByte(c) {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return "", false
	}
	return p.s[start:p.pos], true
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-'
}

// arg parses a pipe argument: a double-quoted string (with \" \\ \n \t
// escapes) or a bare integer.
func (p *tplParser) arg() (string, bool, bool) {
	if p.pos >= len(p.s) {
		return "", false, false
	}
	if p.s[p.pos] == '"' {
		p.pos++
		var b strings.Builder
		for p.pos < len(p.s) {
			c := p.s[p.pos]
			if c == '"' {
				p.pos++
				return b.String(), true, true
			}
			if c == '\\' && p.pos+1 < len(p.s) {
				switch p.s[p.pos+1] {
				case '"':
					b.WriteByte('"')
				case '\\':
					b.WriteByte('\\')
				case 'n':
					b.WriteByte('\n')
				case 't':
					b.WriteByte('\t')
				default:
					b.WriteByte(p.s[p.pos+1])
				}
				p.pos += 2
				continue
			}
			b.WriteByte(c)
			p.pos++
		}
		return "", false, false // unterminated quote
	}
	start := p.pos
	for p.pos < len(p.s) && (p.s[p.pos] == '-' || (p.s[p.pos] >= '0' && p.s[p.pos] <= '9')) {
		p.pos++
	}
	if p.pos == start {
		return "", false, false
	}
	return p.s[start:p.pos], true, true
}

// evalExpr resolves a parsed expression against scope: looks up the base
// value, applies `.field` if present, then threads the result through each
// pipe in order. Any failure along the way degrades to an empty string or
// an unchanged value rather than aborting (§4.1, §8).
func evalExpr(e expr, scope *Scope) string {
	v, ok := resolveBase(e.name, scope)
	if !ok {
		v = Str("")
	}
	if e.field != "" {
		v = resolveField(v, e.field)
	}
	for _, call := range e.pipes {
		v = applyPipe(call, v, scope)
	}
	return v.String()
}

// resolveBase looks up a name: first as a positional capture / scope key.
func resolveBase(name string, scope *Scope) (Value, bool) {
	return scope.Lookup(name)
}

// resolveField resolves `{name.field}` for a Rec-valued name. A `.field`
// reference on anything else renders empty (§4.1 "for a non-Rec value...
// otherwise empty").
func resolveField(v Value, field string) Value {
	rec, ok := v.AsRec()
	if !ok {
		return Str("")
	}
	if fv, ok := rec.Get(field); ok {
		return fv
	}
	return Str("")
}

// formatInt is a small helper kept here (rather than importing strconv in
// every caller) since several stages render integer results back into
// templates via positional scope bindings.
func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
