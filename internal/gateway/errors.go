package gateway

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	// ErrConnection indicates a transport or network failure.
	ErrConnection = errors.New("connection error")
	// ErrQuery indicates a malformed query or a server-side rejection.
	ErrQuery = errors.New("query error")
	// ErrValidation indicates a constraint violation on insert or update.
	ErrValidation = errors.New("validation error")
	// ErrNotFound indicates the operation targeted a nonexistent identifier.
	ErrNotFound = errors.New("not found")
)

// Error is returned by every Gateway operation.
type Error struct {
	Kind    error
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func connectionError(op string, err error) error {
	return &Error{Kind: ErrConnection, Op: op, Err: err}
}

func queryError(op, message string) error {
	return &Error{Kind: ErrQuery, Op: op, Message: message}
}

func validationError(op, message string) error {
	return &Error{Kind: ErrValidation, Op: op, Message: message}
}

func notFoundError(op, id string) error {
	return &Error{Kind: ErrNotFound, Op: op, Message: fmt.Sprintf("book %q does not exist", id)}
}
