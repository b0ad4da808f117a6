// Package errors carries coded errors between the service layers and the API
package errors

// Import this package as perr everywhere (platform/errors)

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode classifies an error for wire responses and retry decisions.
// Values are stable once shipped; append, never renumber
type ErrorCode uint16

const (
	// ErrorCodeUnknown covers anything not classified below
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodePanic marks a recovered panic
	ErrorCodePanic

	// ErrorCodeUnavailable marks a transient failure worth retrying
	ErrorCodeUnavailable

	// ErrorCodeTooManyRequests marks rate limiting (ours or GitHub's)
	ErrorCodeTooManyRequests

	// ErrorCodeConflict marks concurrent-edit conflicts other than duplicate key
	ErrorCodeConflict

	// ErrorCodeUnauthorized marks missing or bad credentials
	ErrorCodeUnauthorized

	// ErrorCodeForbidden marks an access-control denial
	ErrorCodeForbidden

	// ErrorCodeInvalidArgument marks a bad request parameter
	ErrorCodeInvalidArgument

	// ErrorCodeValidation marks request-body validation failures
	ErrorCodeValidation

	// ErrorCodeJSON marks malformed JSON in a request body
	ErrorCodeJSON

	// ErrorCodeNotFound marks a missing resource
	ErrorCodeNotFound

	// ErrorCodeDuplicateKey marks unique-constraint violations
	ErrorCodeDuplicateKey

	// ErrorCodeDB marks database failures with no finer classification
	ErrorCodeDB
)

// HTTPStatusCode maps a code to the status the API should answer with
func HTTPStatusCode(c ErrorCode) int {
	switch c {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeInvalidArgument:
		return http.StatusUnprocessableEntity
	case ErrorCodeDuplicateKey, ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeJSON:
		return http.StatusBadRequest
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeForbidden:
		return http.StatusForbidden
	case ErrorCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeDB, ErrorCodePanic, ErrorCodeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrNotFound is a shared sentinel for the common case
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is the coded error the whole repo passes around.
// msg reads well in logs and responses, code drives status mapping,
// field points at the offending input when there is one, op tags the
// operation, orig keeps the wrapped cause, retryAfter is a rate-limit hint
type Error struct {
	orig       error
	msg        string
	code       ErrorCode
	field      string
	op         string
	retryAfter time.Duration
}

// Wire is what an Error looks like inside a JSON response
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`

	// RetryAfterMinutes is set for rate limited responses, rounded up
	RetryAfterMinutes int `json:"retry_after_minutes,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap exposes the cause to errors.Is / errors.As
func (e *Error) Unwrap() error { return e.orig }

// Code reports the classification
func (e *Error) Code() ErrorCode { return e.code }

// Field reports the offending input field, empty when unset
func (e *Error) Field() string { return e.field }

// Op reports the operation tag, empty when unset
func (e *Error) Op() string { return e.op }

// ToWire renders the error for a JSON response
func (e *Error) ToWire() Wire {
	w := Wire{Code: e.code, Message: e.msg, Field: e.field}
	if e.retryAfter > 0 {
		w.RetryAfterMinutes = int((e.retryAfter + time.Minute - 1) / time.Minute)
	}
	return w
}

// WireFrom renders any error; foreign errors come out as Unknown.
// nil yields the zero Wire
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// Root walks the chain to the innermost cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf pulls the code out of any error, Unknown for foreign ones
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode tests for a specific classification
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus maps any error straight to a response status
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// As is errors.As specialized for our type
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Mutators below copy before writing so shared errors stay immutable

// WithField attaches a field name; foreign errors pass through untouched
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// WithOp attaches an operation tag; foreign errors pass through untouched
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// WithRetryAfter attaches a rate-limit backoff hint; foreign errors pass through untouched
func WithRetryAfter(err error, d time.Duration) error {
	if e, ok := As(err); ok {
		c := *e
		c.retryAfter = d
		return &c
	}
	return err
}

// RetryAfterOf finds the first backoff hint anywhere in the chain
func RetryAfterOf(err error) (time.Duration, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok && e.retryAfter > 0 {
			return e.retryAfter, true
		}
		err = stderrs.Unwrap(err)
	}
	return 0, false
}

// WithFieldChain is WithField that also adopts foreign errors,
// wrapping them as Unknown so the field is never lost
func WithFieldChain(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return &Error{code: ErrorCodeUnknown, msg: err.Error(), field: field, orig: err}
}

// Constructors

// New builds an *Error from a code and a fixed message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with Sprintf formatting
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap builds an *Error around a cause
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf is Wrap with Sprintf formatting
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// WrapIf wraps only a non-nil err, so it can sit on a bare return line
func WrapIf(err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, msg)
}

// One-line constructors for the common codes

func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

func DuplicateKeyf(format string, a ...any) error { return Newf(ErrorCodeDuplicateKey, format, a...) }

func DBf(format string, a ...any) error { return Newf(ErrorCodeDB, format, a...) }

func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }

func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }

func Forbiddenf(format string, a ...any) error { return Newf(ErrorCodeForbidden, format, a...) }

func Conflictf(format string, a ...any) error { return Newf(ErrorCodeConflict, format, a...) }

func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }

func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }

// HTTP gives handlers the status and wire body in one call
func HTTP(err error) (int, Wire) {
	if err == nil {
		return http.StatusOK, Wire{}
	}
	return HTTPStatus(err), WireFrom(err)
}

// Retryable reports whether a retry could plausibly succeed.
// The Postgres rules live in pg.go (IsRetryable)
func Retryable(err error) bool { return IsRetryable(err) }
