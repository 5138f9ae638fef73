// Package apperror defines the error kinds surfaced by the API and the HTTP
// status each one maps to.
package apperror

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies an application error.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindCreation   Kind = "creation"
	KindAuth       Kind = "auth"
	KindNotFound   Kind = "not_found"
)

// statusByKind keeps duplicate-email conflicts on 400 for compatibility with
// existing clients.
var statusByKind = map[Kind]int{
	KindValidation: http.StatusBadRequest,
	KindConflict:   http.StatusBadRequest,
	KindCreation:   http.StatusBadRequest,
	KindAuth:       http.StatusUnauthorized,
	KindNotFound:   http.StatusNotFound,
}

// Error is an error with a client-facing message and status code.
// The cause is kept for logs and development stack traces and is never
// part of Message.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int

	cause error
}

// New creates an Error of the given kind, recording the caller's stack.
func New(kind Kind, message string) *Error {
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &Error{
		Kind:       kind,
		Message:    message,
		StatusCode: status,
		cause:      errors.New(message),
	}
}

func Validation(message string) *Error { return New(KindValidation, message) }
func Conflict(message string) *Error   { return New(KindConflict, message) }
func Creation(message string) *Error   { return New(KindCreation, message) }
func Auth(message string) *Error       { return New(KindAuth, message) }
func NotFound(message string) *Error   { return New(KindNotFound, message) }

// WithCause returns a copy of e wrapping err. The message is unchanged.
func (e *Error) WithCause(err error) *Error {
	if err == nil {
		return e
	}
	return &Error{
		Kind:       e.Kind,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		cause:      errors.WithStack(err),
	}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Format renders the message, and with %+v the cause together with its stack.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			io.WriteString(s, e.Message)
			if e.cause != nil && e.cause.Error() != e.Message {
				fmt.Fprintf(s, ": %s", e.cause.Error())
			}
			fmt.Fprintf(s, "%+v", stackOf(e.cause))
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, e.Message)
	case 'q':
		fmt.Fprintf(s, "%q", e.Message)
	}
}

// As reports whether err is, or wraps, an *Error.
func As(err error) (*Error, bool) {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

// Stack returns the stack trace recorded for err, or "" when none was recorded.
func Stack(err error) string {
	if st := stackOf(err); st != nil {
		return fmt.Sprintf("%+v", st)
	}
	return ""
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackOf returns the outermost stack trace in err's chain.
func stackOf(err error) errors.StackTrace {
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		err = stderrors.Unwrap(err)
	}
	return nil
}
