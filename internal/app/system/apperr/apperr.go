// internal/app/system/apperr/apperr.go

// Package apperr defines the error kinds shared by the relationship engine,
// the lifecycle manager, and the HTTP layer. Domain failures (not found,
// already exists, self action, already in state) are raised directly with an
// operation-specific message and are never wrapped again; unexpected storage
// failures are wrapped exactly once at the operation boundary with a
// description of the attempted action, preserving the cause for logging.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Callers classify with errors.Is.
var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrSelfAction     = errors.New("self action")
	ErrAlreadyInState = errors.New("already in state")
	ErrStorage        = errors.New("storage failure")
	ErrValidation     = errors.New("validation failure")
)

// Error carries a kind, a user-facing message, and (for storage failures)
// the underlying cause.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Is matches against the sentinel kind so errors.Is(err, apperr.ErrNotFound)
// works through wrapping.
func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Cause }

// NotFound reports an absent user, connection, or visibility request.
func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

// AlreadyExists reports a duplicate connection/request or an
// already-granted visibility.
func AlreadyExists(msg string) error {
	return &Error{Kind: ErrAlreadyExists, Message: msg}
}

// SelfAction reports an operation where actor and target are the same user.
func SelfAction(msg string) error {
	return &Error{Kind: ErrSelfAction, Message: msg}
}

// AlreadyInState reports a lock/unlock no-op.
func AlreadyInState(msg string) error {
	return &Error{Kind: ErrAlreadyInState, Message: msg}
}

// Validation reports a malformed identifier or field, rejected before the
// core is reached.
func Validation(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

// Storage wraps an unexpected entity-store failure with a description of the
// attempted action. If err is already a domain error it is returned
// unchanged, so precondition failures surfacing through helper calls keep
// their kind.
func Storage(action string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomain(err) {
		return err
	}
	return &Error{
		Kind:    ErrStorage,
		Message: fmt.Sprintf("error occurred while %s", action),
		Cause:   err,
	}
}

// IsDomain reports whether err is one of the domain kinds (anything except
// a storage failure), which must propagate unwrapped.
func IsDomain(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrSelfAction) ||
		errors.Is(err, ErrAlreadyInState) ||
		errors.Is(err, ErrValidation)
}
