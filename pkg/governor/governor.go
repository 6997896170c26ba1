package governor

import (
	"context"
	"fmt"

	"igstats/pkg/clock"
	errs "igstats/pkg/errors"
	"igstats/pkg/logger"
	"igstats/pkg/ratelimit"
)

// Operation is a remote call wrapped by the governor. The governor does not
// inspect responses; it only classifies the returned error as transient or
// fatal via the errors package.
type Operation func(ctx context.Context) error

// OperationWithResult is a remote call that returns a result
type OperationWithResult[T any] func(ctx context.Context) (T, error)

// Config holds governor configuration
type Config struct {
	// MaxAttempts is the total number of execution attempts; limiter
	// denials do not consume attempts
	MaxAttempts int
	// Backoff computes the delay between transient failures
	Backoff BackoffStrategy
	// Clock supplies the current time for admission decisions
	Clock clock.Clock
	// Logger for attempt lifecycle events
	Logger logger.Logger
}

// Governor wraps remote calls behind a rate limiter and a retry loop with
// exponential backoff. One Governor (with its own Limiter) serves one target
// profile; state is never shared across profiles.
type Governor struct {
	limiter     ratelimit.Limiter
	backoff     BackoffStrategy
	maxAttempts int
	clk         clock.Clock
	logger      logger.Logger
}

// New creates a Governor gated by the given limiter
func New(limiter ratelimit.Limiter, cfg Config) *Governor {
	if cfg.Backoff == nil {
		cfg.Backoff = DefaultExponentialBackoff()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	return &Governor{
		limiter:     limiter,
		backoff:     cfg.Backoff,
		maxAttempts: cfg.MaxAttempts,
		clk:         cfg.Clock,
		logger:      cfg.Logger,
	}
}

// Do executes an operation under the limiter with bounded retries.
//
// Each attempt first waits for limiter admission (denials are re-checked
// after the returned wait and never consume attempts); the admitting check
// records the attempt timestamp in the same limiter critical section, then
// the operation is invoked. Transient failures are retried after a backoff
// delay; fatal failures propagate immediately. When all attempts fail
// transiently, a retries_exhausted error wrapping the last failure is
// returned. Cancellation at either suspension point unwinds without
// recording an attempt.
func (g *Governor) Do(ctx context.Context, op Operation) error {
	var lastErr error

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := g.waitForAdmission(ctx); err != nil {
			return err
		}

		err := op(ctx)
		if err == nil {
			if attempt > 1 {
				g.logger.DebugWithFields("operation succeeded after retry", map[string]interface{}{
					"attempt": attempt,
				})
			}
			return nil
		}

		if !errs.IsRetryableErr(err) {
			g.logger.DebugWithFields("operation failed with non-retryable error", map[string]interface{}{
				"attempt":    attempt,
				"error_type": string(errs.TypeOf(err)),
				"error":      err.Error(),
			})
			return err
		}

		lastErr = err

		if attempt == g.maxAttempts {
			break
		}

		delay := g.backoff.DelayForAttempt(attempt)
		g.logger.WarnWithFields("retrying operation", map[string]interface{}{
			"attempt":      attempt,
			"max_attempts": g.maxAttempts,
			"delay_ms":     delay.Milliseconds(),
			"error":        err.Error(),
		})

		if err := Wait(ctx, delay); err != nil {
			return fmt.Errorf("retry cancelled: %w", err)
		}
	}

	g.logger.ErrorWithFields("max attempts exhausted", map[string]interface{}{
		"attempts":   g.maxAttempts,
		"last_error": lastErr.Error(),
	})

	return &errs.Error{
		Type:    errs.ErrorTypeRetriesExhausted,
		Message: fmt.Sprintf("gave up after %d attempts", g.maxAttempts),
		Err:     lastErr,
	}
}

// waitForAdmission blocks until the limiter admits a call or the context is
// cancelled. Admission records the attempt atomically, so two concurrent
// callers sharing the limiter cannot both slip past the quota; denials and
// cancellations leave limiter state untouched.
func (g *Governor) waitForAdmission(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		decision := g.limiter.Admit(g.clk.Now())
		if decision.Admitted {
			return nil
		}

		g.logger.DebugWithFields("admission denied, waiting", map[string]interface{}{
			"retry_after_ms": decision.RetryAfter.Milliseconds(),
			"remaining":      decision.Remaining,
		})

		if err := Wait(ctx, decision.RetryAfter); err != nil {
			return err
		}
	}
}

// Execute runs an operation with a result under the governor
func Execute[T any](ctx context.Context, g *Governor, op OperationWithResult[T]) (T, error) {
	var result T

	err := g.Do(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	})

	return result, err
}

// Stats reports the underlying limiter's utilization
func (g *Governor) Stats() ratelimit.Stats {
	return g.limiter.Stats(g.clk.Now())
}

// MaxAttempts returns the configured attempt ceiling
func (g *Governor) MaxAttempts() int {
	return g.maxAttempts
}
