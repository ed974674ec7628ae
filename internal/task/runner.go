package task

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nickunderhill/ai-interviewer/internal/domain"
	"github.com/nickunderhill/ai-interviewer/internal/errmsg"
	"github.com/nickunderhill/ai-interviewer/internal/redact"
	"github.com/nickunderhill/ai-interviewer/internal/store"
)

// MetricsRecorder receives terminal operation outcomes for monitoring.
type MetricsRecorder interface {
	RecordOperation(operationType, status string)
	RecordTaskPanic()
}

// NopMetrics discards all recordings.
type NopMetrics struct{}

func (NopMetrics) RecordOperation(string, string) {}
func (NopMetrics) RecordTaskPanic()               {}

// Runner executes tasks in fire-and-forget goroutines and drives the
// operation lifecycle around each execution. Every spawned task ends with
// exactly one terminal write: completed with a result, or failed with a
// rendered user-facing message. Panics are recovered and finalized the same
// way, so an operation never hangs in processing because its goroutine died.
type Runner struct {
	coordinator OperationCoordinator
	metrics     MetricsRecorder
	logger      *slog.Logger
	wg          sync.WaitGroup
}

// NewRunner creates a Runner.
func NewRunner(coordinator OperationCoordinator, metrics MetricsRecorder, logger *slog.Logger) *Runner {
	if coordinator == nil {
		panic("coordinator cannot be nil")
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		coordinator: coordinator,
		metrics:     metrics,
		logger:      logger.With("component", "task_runner"),
	}
}

// Spawn starts the task in a new goroutine and returns immediately. The
// goroutine detaches from the caller's cancellation so an HTTP request
// finishing does not abort the work it triggered; context values (request
// logger, trace ID) are preserved.
func (r *Runner) Spawn(ctx context.Context, t Task) {
	detached := context.WithoutCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(detached, t)
	}()
}

// Wait blocks until all spawned tasks have finished or the timeout elapses.
// Used during shutdown; returns false if tasks were still running.
func (r *Runner) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// run drives one task through the operation lifecycle.
func (r *Runner) run(ctx context.Context, t Task) {
	opID := t.OperationID()
	opType := t.OperationType()
	log := r.logger.With(
		slog.String("operation_id", opID.String()),
		slog.String("operation_type", string(opType)),
	)

	// The terminal write must happen even if the task itself panics.
	defer func() {
		if p := recover(); p != nil {
			r.metrics.RecordTaskPanic()
			log.Error("task panicked", slog.Any("panic", p))
			r.fail(ctx, log, opID, opType, CodeUnexpectedError)
		}
	}()

	if err := r.coordinator.MarkProcessing(ctx, opID); err != nil {
		switch {
		case errors.Is(err, store.ErrOperationNotFound):
			log.Error("operation not found, dropping task")
		case errors.Is(err, store.ErrUpdateFailed):
			log.Warn("operation no longer pending, dropping task",
				slog.String("error", err.Error()))
		default:
			log.Error("failed to mark operation processing",
				slog.String("error", redact.Error(err)))
		}
		return
	}

	log.Info("task started")

	outcome, err := t.Execute(ctx)
	if err != nil {
		code := errorCodeOf(err)
		log.Error("task execution failed",
			slog.String("error_code", code),
			slog.String("error", redact.Error(err)))
		r.fail(ctx, log, opID, opType, code)
		return
	}

	if err := r.coordinator.Complete(ctx, opID, outcome.Result, outcome.Apply); err != nil {
		code := CodeDBWriteFailed
		if errors.Is(err, store.ErrFeedbackExists) {
			code = CodeFeedbackAlreadyExists
		}
		log.Error("failed to commit task outcome",
			slog.String("error_code", code),
			slog.String("error", redact.Error(err)))
		r.fail(ctx, log, opID, opType, code)
		return
	}

	r.metrics.RecordOperation(string(opType), string(domain.OperationStatusCompleted))
	log.Info("task completed")
}

// fail writes the terminal failed state with a rendered user-facing message.
// A failure here is logged and counted; there is nothing left to roll back.
func (r *Runner) fail(ctx context.Context, log *slog.Logger, opID uuid.UUID, opType domain.OperationType, code string) {
	message := errmsg.Render(code, errmsg.Context{OperationType: opType})

	if err := r.coordinator.Fail(ctx, opID, message); err != nil {
		if errors.Is(err, store.ErrUpdateFailed) {
			log.Warn("operation already finalized, skipping failure write")
		} else {
			log.Error("failed to record operation failure",
				slog.String("error", redact.Error(err)))
		}
		return
	}

	r.metrics.RecordOperation(string(opType), string(domain.OperationStatusFailed))
}

// errorCodeOf extracts the stable code from a classified error, falling back
// to the generic unexpected code.
func errorCodeOf(err error) string {
	var coder interface{ ErrorCode() string }
	if errors.As(err, &coder) {
		if code := coder.ErrorCode(); code != "" {
			return code
		}
	}
	return CodeUnexpectedError
}
