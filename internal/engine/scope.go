package engine

// Scope is the execution-scoped variable environment consumed by templates.
// Write-once is not enforced: Set replaces any existing binding of the same
// name at that level. The pipeline's stages never reassign a section
// result once bound.
type Scope struct {
	parent *Scope
	vars   map[string]Value
}

// NewScope returns a root scope seeded with the pipeline's initial bindings:
// output, exit_code, args.
func NewScope(output string, exitCode int64, args []string) *Scope {
	argVals := make([]Value, len(args))
	for i, a := range args {
		argVals[i] = Str(a)
	}
	s := &Scope{vars: make(map[string]Value)}
	s.Set("output", Str(output))
	s.Set("exit_code", Int(exitCode))
	s.Set("args", Coll(argVals))
	return s
}

// Child returns a new scope nested under s, used by `each` to bind `value`
// and `index` without mutating the parent.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, vars: make(map[string]Value)}
}

// Set binds name to v in the current scope level.
func (s *Scope) Set(name string, v Value) {
	s.vars[name] = v
}

// SetOutput updates the `output` binding in place — the one documented
// exception to write-once, since every line-transform stage re-derives
// `output` from the current line sequence (§4.8 step 4).
func (s *Scope) SetOutput(text string) {
	s.Set("output", Str(text))
}

// Lookup resolves name by walking from s up through parent scopes.
// A missing name is not an error: the caller (the template renderer) treats
// it as an empty string per the totality invariant (§8).
func (s *Scope) Lookup(name string) (Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}
