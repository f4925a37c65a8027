// Package apperr defines the error taxonomy shared by the service layers.
// Handlers map kinds to HTTP status codes; everything below them wraps causes
// into one of these kinds instead of leaking driver or upstream detail.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers.
type Kind int

const (
	// Validation marks user-correctable input problems.
	Validation Kind = iota + 1
	// NotFound marks an absent record or upstream resource.
	NotFound
	// Conflict marks a duplicate where the operation is not upsert-semantic.
	Conflict
	// InvalidItemType marks a violation of the closed item-type enumeration.
	InvalidItemType
	// UpstreamUnavailable marks a catalog API failure.
	UpstreamUnavailable
	// Persistence marks a store-level failure.
	Persistence
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "VALIDATION_ERROR"
	case NotFound:
		return "NOT_FOUND"
	case Conflict:
		return "CONFLICT"
	case InvalidItemType:
		return "INVALID_ITEM_TYPE"
	case UpstreamUnavailable:
		return "UPSTREAM_UNAVAILABLE"
	case Persistence:
		return "PERSISTENCE_ERROR"
	}
	return "UNKNOWN"
}

// Error carries a kind, a caller-safe message, and optional context.
type Error struct {
	Kind    Kind
	Message string
	// Field names the offending input field for Validation errors.
	Field string
	// UpstreamStatus holds the upstream HTTP status for UpstreamUnavailable.
	UpstreamStatus int
	cause          error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches against another *Error by kind, so sentinel comparisons like
// errors.Is(err, &Error{Kind: NotFound}) work across wrap layers.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// New builds an error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause that is preserved for logs but not for responses.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// ValidationField builds a Validation error naming the bad field.
func ValidationField(field, format string, args ...interface{}) *Error {
	return &Error{Kind: Validation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Upstream builds an UpstreamUnavailable error recording the upstream status.
func Upstream(status int, format string, args ...interface{}) *Error {
	return &Error{Kind: UpstreamUnavailable, UpstreamStatus: status, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
