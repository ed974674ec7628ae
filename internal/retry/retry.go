// Package retry implements an exponential-backoff retry policy for
// transient upstream failures. It wraps individual upstream calls, not
// whole workflows: by the time an error escapes a Policy, it is final
// for the operation that triggered it.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

// Default policy parameters.
const (
	DefaultMaxRetries  = 3
	DefaultBackoffBase = time.Second
	DefaultJitterRatio = 0.1
)

// Construction errors. Configuration is validated eagerly so a bad policy
// fails at wiring time, not in the middle of a background task.
var (
	ErrInvalidMaxRetries  = errors.New("max retries must be >= 0")
	ErrInvalidBackoffBase = errors.New("backoff base must be > 0")
	ErrInvalidJitterRatio = errors.New("jitter ratio must be >= 0")
)

// Policy retries a function on transient errors with exponential backoff
// and uniform jitter. The delay before the k-th retry (0-indexed) is
// base*2^k plus a uniform random jitter in [0, jitterRatio*base*2^k].
type Policy struct {
	maxRetries  int
	backoffBase time.Duration
	jitterRatio float64
	logger      *slog.Logger
	sleep       func(ctx context.Context, d time.Duration) error
	rng         *rand.Rand
}

// Option customizes a Policy.
type Option func(*Policy)

// WithLogger sets the logger used for retry warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Policy) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithSleep replaces the sleep function. Tests use this to observe the
// backoff schedule without waiting for it.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Policy) {
		if sleep != nil {
			p.sleep = sleep
		}
	}
}

// WithRand sets the random source used for jitter.
func WithRand(rng *rand.Rand) Option {
	return func(p *Policy) {
		if rng != nil {
			p.rng = rng
		}
	}
}

// NewPolicy creates a Policy, rejecting invalid parameters immediately.
func NewPolicy(maxRetries int, backoffBase time.Duration, jitterRatio float64, opts ...Option) (*Policy, error) {
	if maxRetries < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxRetries, maxRetries)
	}
	if backoffBase <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidBackoffBase, backoffBase)
	}
	if jitterRatio < 0 {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidJitterRatio, jitterRatio)
	}

	p := &Policy{
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
		jitterRatio: jitterRatio,
		logger:      slog.Default(),
		sleep:       sleepWithContext,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// NewDefaultPolicy creates a Policy with the default parameters.
func NewDefaultPolicy(opts ...Option) *Policy {
	p, err := NewPolicy(DefaultMaxRetries, DefaultBackoffBase, DefaultJitterRatio, opts...)
	if err != nil {
		// Defaults are statically valid.
		panic(err)
	}
	return p
}

// Do invokes fn, retrying up to maxRetries times while retriable reports the
// returned error as transient. Non-transient errors return immediately. When
// attempts are exhausted the last error propagates unchanged, so callers can
// still classify it.
func (p *Policy) Do(ctx context.Context, retriable func(error) bool, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !retriable(err) {
			return err
		}
		if attempt >= p.maxRetries {
			break
		}

		delay := p.delayFor(attempt)
		p.logger.WarnContext(ctx, "retrying transient error",
			"attempt", attempt+1,
			"max_retries", p.maxRetries,
			"delay", delay,
			"error", err)

		if sleepErr := p.sleep(ctx, delay); sleepErr != nil {
			p.logger.WarnContext(ctx, "retry interrupted by context",
				"attempt", attempt+1,
				"ctx_err", sleepErr)
			return lastErr
		}
	}

	p.logger.ErrorContext(ctx, "retries exhausted",
		"max_retries", p.maxRetries,
		"error", lastErr)
	return lastErr
}

// delayFor returns the backoff delay before the k-th retry (0-indexed).
func (p *Policy) delayFor(attempt int) time.Duration {
	base := float64(p.backoffBase) * math.Pow(2, float64(attempt))
	jitter := p.rng.Float64() * p.jitterRatio * base
	return time.Duration(base + jitter)
}

// sleepWithContext waits for the duration or until the context is done.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
