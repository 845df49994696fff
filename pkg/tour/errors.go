package tour

import (
	"errors"
	"fmt"
)

// ErrorKind discriminates route-planning failures so callers can react to
// each case without string matching.
type ErrorKind string

const (
	// KindBaseUnresolved means the starting place could not be geocoded.
	KindBaseUnresolved ErrorKind = "base_unresolved"

	// KindNoValidStops means no requested stop resolved to a coordinate,
	// or the stop list was empty to begin with.
	KindNoValidStops ErrorKind = "no_valid_stops"

	// KindTooManyStops means the resolved stop count exceeds the exact
	// search bound. Such requests are rejected rather than answered with
	// an unlabeled approximation.
	KindTooManyStops ErrorKind = "too_many_stops"

	// KindProvider means the geocoding provider was unreachable or
	// returned malformed data while resolving the base.
	KindProvider ErrorKind = "provider_error"
)

// Error is a discriminated route-planning error.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf returns the kind of a route-planning error, or the empty string
// if err is not a *tour.Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
