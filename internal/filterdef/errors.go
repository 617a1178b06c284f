package filterdef

import "fmt"

// ValidationError is one problem found by Validate. Field names the
// offending part of the definition using a dotted path (e.g.
// "sections[2].enter", "on_success.head").
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func errf(field, format string, args ...any) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
