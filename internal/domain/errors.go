package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error so callers can render differentiated
// messaging instead of a single generic failure.
type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindForbidden        Kind = "forbidden"
	KindInvalidState     Kind = "invalid_state"
	KindAlreadyRated     Kind = "already_rated"
	KindInvalidReference Kind = "invalid_reference"
	KindValidation       Kind = "validation_error"
	KindConflict         Kind = "conflict"
	KindStorage          Kind = "storage_error"
)

// Error is a kind-tagged domain error.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// NewNotFoundError indicates a referenced entity does not exist.
func NewNotFoundError(entity, id string) *Error {
	return &Error{kind: KindNotFound, msg: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewForbiddenError indicates the actor does not own the targeted entity.
func NewForbiddenError(msg string) *Error {
	return &Error{kind: KindForbidden, msg: msg}
}

// NewInvalidStateError indicates a transition attempted from a status that
// does not permit it.
func NewInvalidStateError(from, to string) *Error {
	return &Error{kind: KindInvalidState, msg: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// NewAlreadyRatedError indicates a second rating attempt on the same booking.
func NewAlreadyRatedError() *Error {
	return &Error{kind: KindAlreadyRated, msg: "booking has already been rated"}
}

// NewInvalidReferenceError indicates a mismatched entity pair at creation.
func NewInvalidReferenceError(msg string) *Error {
	return &Error{kind: KindInvalidReference, msg: msg}
}

// NewValidationError indicates malformed or missing required input.
func NewValidationError(msg string) *Error {
	return &Error{kind: KindValidation, msg: msg}
}

// NewConflictError indicates a lost optimistic-concurrency race.
func NewConflictError(msg string) *Error {
	return &Error{kind: KindConflict, msg: msg}
}

// NewStorageError wraps a storage-layer failure.
func NewStorageError(msg string, cause error) *Error {
	return &Error{kind: KindStorage, msg: msg, cause: cause}
}

// KindOf extracts the Kind from err, or KindStorage if err is not a
// domain error (unclassified failures are treated as storage faults).
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.kind
	}
	return KindStorage
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var de *Error
	return errors.As(err, &de) && de.kind == kind
}
