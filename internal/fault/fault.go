// Package fault defines the error kinds surfaced by the lock pipeline.
//
// Every component returns a *Error carrying one Kind. Callers recover the kind with
// KindOf regardless of how many times the error has been wrapped since.
package fault

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is the category of a pipeline failure.
type Kind string

const (
	// Remote is a network or API failure.
	Remote Kind = "RemoteError"
	// IO is a filesystem read or write failure.
	IO Kind = "IoError"
	// ExternalTool is a required external binary that could not be launched or failed.
	ExternalTool Kind = "ExternalToolError"
	// Parse is malformed output from a backend or remote payload.
	Parse Kind = "ParseError"
	// UnsupportedSession is a session-type signal that is present but not recognized.
	UnsupportedSession Kind = "UnsupportedSessionError"
	// Configuration means no locker backend could be resolved from the inputs.
	Configuration Kind = "ConfigurationError"

	// Unknown is reported by KindOf for errors that carry no kind.
	Unknown Kind = "UnknownError"
)

// Error is a failure of a given Kind with a context message.
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

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause satisfies the pkg/errors causer interface.
func (e *Error) Cause() error {
	return e.Err
}

// New returns an error of the given kind without an underlying cause.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Newf is New with a format string.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a kind and message. It returns nil if err is nil.
func Wrap(kind Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Err: errors.WithStack(err)}
}

// Wrapf is Wrap with a format string.
func Wrapf(kind Kind, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: errors.WithStack(err)}
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
