package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. Entity-specific variants below wrap it so callers can match
	// either the generic or the specific error.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate of
	// a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed is returned when an update affects no rows, for example
	// because the entity does not exist or a status guard rejected the write.
	ErrUpdateFailed = errors.New("update failed")

	// ErrTransactionFailed is returned when a database transaction fails to
	// commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrOperationNotFound indicates that the requested operation does not exist.
	ErrOperationNotFound = fmt.Errorf("%w: operation", ErrNotFound)

	// ErrSessionNotFound indicates that the requested interview session does not exist.
	ErrSessionNotFound = fmt.Errorf("%w: interview session", ErrNotFound)

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrResumeNotFound indicates that the user has no stored resume.
	ErrResumeNotFound = fmt.Errorf("%w: resume", ErrNotFound)

	// ErrJobPostingNotFound indicates that the referenced job posting does not exist.
	ErrJobPostingNotFound = fmt.Errorf("%w: job posting", ErrNotFound)

	// ErrFeedbackNotFound indicates that the session has no stored feedback.
	ErrFeedbackNotFound = fmt.Errorf("%w: interview feedback", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrFeedbackExists indicates that feedback was already generated for the
	// session. The interview_feedback table enforces one row per session.
	ErrFeedbackExists = fmt.Errorf("%w: interview feedback", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError carries entity and operation context alongside the wrapped
// database error.
type StoreError struct {
	Entity    string // The entity type (e.g., "operation", "session")
	Operation string // The store operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation,
// message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
