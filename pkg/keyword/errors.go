package keyword

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every input validation failure reported by
// this package. Callers should test with errors.Is.
var ErrInvalidInput = errors.New("invalid keyword input")

// InputError describes a dataset that cannot be scored.
type InputError struct {
	Source string
	Column string
	Reason string
}

func (e *InputError) Error() string {
	switch {
	case e.Column != "":
		return fmt.Sprintf("%s: %s: %s %q", ErrInvalidInput, e.Source, e.Reason, e.Column)
	case e.Source != "":
		return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Source, e.Reason)
	default:
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func missingColumn(source, column string) *InputError {
	return &InputError{Source: source, Column: column, Reason: "missing required column"}
}
