package llm

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when the service answers without any choice.
var ErrEmptyResponse = errors.New("generation service returned no choices")

// StatusError is a non-200 answer from the generation service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("generation service returned status %d: %s", e.Code, body)
}

// Retryable reports whether the request may succeed if sent again.
func (e *StatusError) Retryable() bool {
	return e.Code == 429 || e.Code >= 500
}
