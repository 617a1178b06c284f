// Package diag wires the project's structured logging, an ambient concern
// carried regardless of which observability features are in scope.
package diag

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/tokf/tokf/internal/engine"
	"github.com/tokf/tokf/internal/filterdef"
)

// New returns a logger writing to stderr: a pretty console writer when
// stderr is a terminal, structured JSON otherwise (so piped/CI output
// stays machine-parseable).
func New(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	var w io.Writer = os.Stderr
	if isatty.IsTerminal(os.Stderr.Fd()) {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// LogDiagnostics reports every engine.Diagnostic at debug level, tagged
// with the command that produced them. --verbose surfaces these (§7
// "every silent fallback is accompanied by a recorded diagnostic that
// --verbose surfaces").
func LogDiagnostics(log zerolog.Logger, command string, diags *engine.Diagnostics) {
	for _, d := range diags.Entries() {
		log.Debug().
			Str("command", command).
			Str("stage", d.Stage).
			Int("kind", int(d.Kind)).
			Msg(d.Message)
	}
}

// LogValidationErrors reports every filterdef.Validate finding for a
// loaded filter at debug level (§7 kind 1 "definition errors... offending
// stage/entry is disabled, diagnostic recorded"). Validate never mutates
// the definition, so the offending entry is simply a no-op at the point
// the engine tries to use it (e.g. the regex cache independently rejects
// an invalid pattern) — this call exists purely to surface the problem to
// --verbose at load time instead of leaving the author to infer it from a
// silently degraded pipeline.
func LogValidationErrors(log zerolog.Logger, filterPath string, def *filterdef.FilterDefinition) {
	for _, e := range filterdef.Validate(def) {
		log.Debug().
			Str("filter", filterPath).
			Str("field", e.Field).
			Msg(e.Message)
	}
}
