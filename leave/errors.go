/*
errors.go - Error taxonomy for the leave engine

PURPOSE:
  All error types in one place. Callers distinguish categories with
  errors.As/errors.Is; messages are written to be shown to the end user
  verbatim.

ERROR CATEGORIES:
  1. ValidationError - caller-supplied data violates a precondition
  2. ConflictError   - the request was already resolved
  3. ForbiddenError  - the session's role may not perform the operation
  4. TransportError / HTTPStatusError - persistence collaborator failures

None of these are retried automatically: validation and conflict errors are
surfaced for correction, transport failures keep at-most-once semantics.
*/
package leave

import (
	"errors"
	"fmt"
)

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError reports a field-level precondition failure at submission
// or transition time. Recoverable: the caller corrects the input and retries.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// =============================================================================
// CONFLICT
// =============================================================================

// ConflictError is returned when transitioning a request that already left
// Pending. Whichever transition reaches the store first wins; the loser
// observes the resolved status here and must not overwrite it.
type ConflictError struct {
	RequestID int
	Status    Status
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("request %d already resolved (%s)", e.RequestID, e.Status)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// =============================================================================
// AUTHORIZATION
// =============================================================================

// ForbiddenError is returned when the session's role may not review requests.
type ForbiddenError struct {
	Role Role
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("role %s may not approve or reject requests", e.Role)
}

// IsForbidden reports whether err is a ForbiddenError.
func IsForbidden(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}

// =============================================================================
// COLLABORATOR FAILURES
// =============================================================================

// TransportError wraps a network-level failure talking to the persistence
// collaborator. The underlying error is preserved for errors.Is/As.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPStatusError carries a non-2xx status from the persistence collaborator.
// The engine does not interpret codes beyond passing them through; a 401
// means the caller must re-authenticate.
type HTTPStatusError struct {
	StatusCode int
	Message    string
}

func (e *HTTPStatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http status %d", e.StatusCode)
	}
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Message)
}

// ErrNotFound is returned by stores when a referenced request or user does
// not exist.
var ErrNotFound = errors.New("not found")
