package document

import "fmt"

// ValidationError rejects an upload before it is stored.
type ValidationError struct {
	Name   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid document %q: %s", e.Name, e.Reason)
}
