package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain errors so the transport layer can translate
// them into response codes without string matching.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindForbidden
	KindConflict
	KindInvalidArgument
	KindUnsupportedState
)

// Error is the domain error carried across all use cases. Every validation
// or authorization failure inside the engine is one of these; anything else
// is an infrastructure error.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewNotFoundError reports a missing entity of the given type.
func NewNotFoundError(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s with ID=%s not found", entity, id)}
}

// NewForbiddenError reports an operation the caller is not allowed to perform.
func NewForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NewConflictError reports an operation that clashes with current state.
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewValidationError reports invalid input to an operation.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: message}
}

// NewUnsupportedStateError reports an unrecognized listing state string.
// The raw value is echoed back so clients can see what was rejected.
func NewUnsupportedStateError(raw string) *Error {
	return &Error{Kind: KindUnsupportedState, Message: fmt.Sprintf("Unknown state: %s", raw)}
}

// KindOf extracts the error kind, reporting false for non-domain errors.
func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

func isKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsNotFound reports whether err is a missing-entity domain error.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsForbidden reports whether err is an authorization domain error.
func IsForbidden(err error) bool { return isKind(err, KindForbidden) }

// IsConflict reports whether err is a state-conflict domain error.
func IsConflict(err error) bool { return isKind(err, KindConflict) }

// IsValidation reports whether err is an invalid-argument domain error.
func IsValidation(err error) bool { return isKind(err, KindInvalidArgument) }

// IsUnsupportedState reports whether err is an unknown-state domain error.
func IsUnsupportedState(err error) bool { return isKind(err, KindUnsupportedState) }
