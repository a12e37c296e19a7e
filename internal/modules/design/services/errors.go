package services

import "fmt"

// ValidationError marks failures detected before any external call: the
// operation had no side effects and maps to a 4xx at the boundary.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalidf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrMaxGenerations rejects the attempt after the budget is spent.
var ErrMaxGenerations = &ValidationError{Message: "maximum generations reached (5)"}

// ErrAlreadyLocked rejects any mutation of a locked design, re-lock included.
var ErrAlreadyLocked = &ValidationError{Message: "design is already locked"}
