// Package xerr defines the error kinds shared across the stage-2 engine.
package xerr

import "fmt"

// Kind identifies a stage-2 failure category.
type Kind int

const (
	OOM Kind = iota
	IO
	UnsupportedLength
	InvalidParams
)

func (k Kind) String() string {
	switch k {
	case OOM:
		return "OOM"
	case IO:
		return "IO"
	case UnsupportedLength:
		return "UnsupportedLength"
	case InvalidParams:
		return "InvalidParams"
	default:
		return "Unknown"
	}
}

// Error is a typed stage-2 error carrying a Kind and a message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error of the given kind, wrapping a lower-level cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}
