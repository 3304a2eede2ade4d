package habit

import (
	"errors"
	"strings"
)

var (
	ErrNotFound        = errors.New("habit not found")
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalidID       = errors.New("invalid habit id")
)

// ForbiddenError is returned when a recognized actor lacks rights for the
// targeted habit. Reason is safe to surface to the client.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}

// ValidationError aggregates every violated rule so a client can fix a form in
// one round trip.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
