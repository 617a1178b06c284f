package engine

// DiagnosticKind classifies a recorded diagnostic per the first four error
// kinds in §7 (the fifth, a command with no filter, never reaches the
// engine).
type DiagnosticKind int

const (
	// DiagDefinitionError: bad regex, mutually exclusive stages both
	// present, missing required field — caught at validation time.
	DiagDefinitionError DiagnosticKind = iota
	// DiagTemplateError: unknown variable, type mismatch, bad pipe arg.
	DiagTemplateError
	// DiagScriptError: a lua_script runtime error.
	DiagScriptError
	// DiagRegexCompileError: an otherwise-valid-looking pattern failed to
	// compile at the point a stage tried to use it.
	DiagRegexCompileError
)

// Diagnostic is one recorded, non-fatal event during a pipeline execution
// (§7 "every silent fallback is accompanied by a recorded diagnostic that
// --verbose surfaces").
type Diagnostic struct {
	Kind    DiagnosticKind
	Stage   string
	Message string
}

// Diagnostics accumulates Diagnostic values over one pipeline execution.
type Diagnostics struct {
	entries []Diagnostic
}

func (d *Diagnostics) add(kind DiagnosticKind, stage, message string) {
	d.entries = append(d.entries, Diagnostic{Kind: kind, Stage: stage, Message: message})
}

// Entries returns every diagnostic recorded so far, in recording order.
func (d *Diagnostics) Entries() []Diagnostic {
	return d.entries
}

// Empty reports whether no diagnostics were recorded.
func (d *Diagnostics) Empty() bool {
	return len(d.entries) == 0
}
