package services

import "fmt"

// ValidationError marks request-shape failures that map to a 4xx at the
// boundary. The operation had no side effects when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalidf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrOrderAlreadyDecided rejects a second accept/decline on a conversation.
var ErrOrderAlreadyDecided = &ValidationError{Message: "order has already been decided"}

// ErrNoPossibleVerdict gates order decisions on a prior admin review that
// judged the request possible.
var ErrNoPossibleVerdict = &ValidationError{Message: "order requires an admin review with verdict 'possible'"}
