package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OperationStatus represents the lifecycle state of an Operation.
type OperationStatus string

// Possible operation status values.
const (
	OperationStatusPending    OperationStatus = "pending"
	OperationStatusProcessing OperationStatus = "processing"
	OperationStatusCompleted  OperationStatus = "completed"
	OperationStatusFailed     OperationStatus = "failed"
)

// OperationType identifies which generation an Operation tracks. The type
// only selects the user-facing message wording; it never branches business
// logic elsewhere.
type OperationType string

// Possible operation type values.
const (
	OperationTypeQuestionGeneration OperationType = "question_generation"
	OperationTypeFeedbackAnalysis   OperationType = "feedback_analysis"
)

// Common validation errors for Operation.
var (
	ErrEmptyOperationID       = errors.New("operation ID cannot be empty")
	ErrInvalidOperationType   = errors.New("invalid operation type")
	ErrInvalidOperationStatus = errors.New("invalid operation status")
	ErrEmptyOperationResult   = errors.New("operation result cannot be empty")
	ErrEmptyOperationError    = errors.New("operation error message cannot be empty")

	// ErrOperationFinalized is returned on any attempt to transition an
	// operation out of a terminal state. Terminal outcomes are written
	// exactly once; a late writer must never clobber what a poller may
	// already have observed.
	ErrOperationFinalized = errors.New("operation already finalized")

	// ErrOperationBackward is returned when a transition would move the
	// status to an earlier lifecycle state.
	ErrOperationBackward = errors.New("operation status cannot move backward")

	// ErrOperationNotRetryable is returned when a manual retry targets an
	// operation that is not in the failed state.
	ErrOperationNotRetryable = errors.New("only failed operations can be retried")
)

// statusRank orders statuses for the monotonic-forward invariant.
// Both terminal states share a rank: neither is "after" the other.
var statusRank = map[OperationStatus]int{
	OperationStatusPending:    0,
	OperationStatusProcessing: 1,
	OperationStatusCompleted:  2,
	OperationStatusFailed:     2,
}

// Operation tracks a single asynchronous generation attempt and its outcome.
//
// Invariants:
//   - Status only moves forward: pending -> processing -> completed|failed.
//   - Result is non-nil if and only if Status is completed.
//   - ErrorMessage is non-empty if and only if Status is failed.
//   - RetryCount is 0 for original attempts and parent.RetryCount+1 for
//     operations created by a manual retry.
type Operation struct {
	ID                uuid.UUID       `json:"id"`
	Type              OperationType   `json:"operation_type"`
	Status            OperationStatus `json:"status"`
	Result            json.RawMessage `json:"result,omitempty"`
	ErrorMessage      string          `json:"error_message,omitempty"`
	ParentOperationID *uuid.UUID      `json:"parent_operation_id,omitempty"`
	RetryCount        int             `json:"retry_count"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewOperation creates a pending Operation of the given type.
func NewOperation(opType OperationType) (*Operation, error) {
	now := time.Now().UTC()
	op := &Operation{
		ID:        uuid.New(),
		Type:      opType,
		Status:    OperationStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := op.Validate(); err != nil {
		return nil, err
	}

	return op, nil
}

// NewRetryOperation creates a pending follow-up Operation linked to a failed
// parent. The new operation carries the same type, references the parent and
// increments the retry counter. It does not copy the parent's inputs: the
// original request parameters are not retained on the operation row, so the
// retry is a bookkeeping record until the client triggers a new generation.
func NewRetryOperation(parent *Operation) (*Operation, error) {
	if parent == nil {
		return nil, ErrEmptyOperationID
	}
	if parent.Status != OperationStatusFailed {
		return nil, ErrOperationNotRetryable
	}

	op, err := NewOperation(parent.Type)
	if err != nil {
		return nil, err
	}

	parentID := parent.ID
	op.ParentOperationID = &parentID
	op.RetryCount = parent.RetryCount + 1
	return op, nil
}

// Validate checks the Operation's structural invariants.
func (o *Operation) Validate() error {
	if o.ID == uuid.Nil {
		return ErrEmptyOperationID
	}
	if !isValidOperationType(o.Type) {
		return fmt.Errorf("%w: %q", ErrInvalidOperationType, o.Type)
	}
	if _, ok := statusRank[o.Status]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidOperationStatus, o.Status)
	}
	if o.RetryCount < 0 {
		return fmt.Errorf("%w: negative retry count", ErrValidation)
	}

	// Terminal-state payload invariants.
	switch o.Status {
	case OperationStatusCompleted:
		if len(o.Result) == 0 {
			return ErrEmptyOperationResult
		}
		if o.ErrorMessage != "" {
			return fmt.Errorf("%w: completed operation carries an error message", ErrValidation)
		}
	case OperationStatusFailed:
		if o.ErrorMessage == "" {
			return ErrEmptyOperationError
		}
		if len(o.Result) != 0 {
			return fmt.Errorf("%w: failed operation carries a result", ErrValidation)
		}
	default:
		if len(o.Result) != 0 || o.ErrorMessage != "" {
			return fmt.Errorf("%w: non-terminal operation carries a payload", ErrValidation)
		}
	}

	return nil
}

// IsTerminal reports whether the operation has reached a final state.
func (o *Operation) IsTerminal() bool {
	return o.Status == OperationStatusCompleted || o.Status == OperationStatusFailed
}

// TransitionTo moves the operation to the given status, enforcing the
// monotonic-forward invariant. Terminal states are write-once.
func (o *Operation) TransitionTo(status OperationStatus) error {
	newRank, ok := statusRank[status]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidOperationStatus, status)
	}

	if o.IsTerminal() {
		return fmt.Errorf("%w: %s -> %s", ErrOperationFinalized, o.Status, status)
	}
	if newRank <= statusRank[o.Status] {
		return fmt.Errorf("%w: %s -> %s", ErrOperationBackward, o.Status, status)
	}

	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete finalizes the operation with the given result payload.
func (o *Operation) Complete(result json.RawMessage) error {
	if len(result) == 0 {
		return ErrEmptyOperationResult
	}
	if err := o.TransitionTo(OperationStatusCompleted); err != nil {
		return err
	}
	o.Result = result
	return nil
}

// Fail finalizes the operation with a sanitized, user-facing error message.
// Callers are responsible for rendering and masking the message first.
func (o *Operation) Fail(message string) error {
	if message == "" {
		return ErrEmptyOperationError
	}
	if err := o.TransitionTo(OperationStatusFailed); err != nil {
		return err
	}
	o.ErrorMessage = message
	return nil
}

// isValidOperationType checks if the given type is a known OperationType.
func isValidOperationType(t OperationType) bool {
	switch t {
	case OperationTypeQuestionGeneration, OperationTypeFeedbackAnalysis:
		return true
	default:
		return false
	}
}
