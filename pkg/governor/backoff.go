package governor

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy computes the retry delay for a failed attempt
type BackoffStrategy interface {
	// DelayForAttempt returns the delay before retrying after the given
	// attempt number (1 for the first retry)
	DelayForAttempt(attempt int) time.Duration
}

// ExponentialBackoff implements exponential backoff with symmetric jitter.
//
// The pre-jitter delay grows as BaseDelay * Multiplier^(attempt-1), capped at
// MaxDelay. Jitter is drawn fresh on each call from ±JitterRatio so that
// concurrent retries do not synchronize.
type ExponentialBackoff struct {
	// BaseDelay is the delay for the first retry
	BaseDelay time.Duration
	// MaxDelay is the delay ceiling, applied before jitter
	MaxDelay time.Duration
	// Multiplier is the factor by which delay increases per attempt
	Multiplier float64
	// JitterRatio bounds the symmetric jitter range (0.0 to 1.0)
	JitterRatio float64
	// Rand is an optional seedable source for deterministic tests;
	// the global source is used when nil
	Rand *rand.Rand
}

// DefaultExponentialBackoff returns a backoff with the defaults used for
// Instagram API calls: 5s, 10s, 20s... capped at 5 minutes, ±30% jitter.
func DefaultExponentialBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		BaseDelay:   5 * time.Second,
		MaxDelay:    5 * time.Minute,
		Multiplier:  2.0,
		JitterRatio: 0.3,
	}
}

// DelayForAttempt calculates the jittered delay for the given attempt number
func (eb *ExponentialBackoff) DelayForAttempt(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delay := float64(eb.BaseDelay) * math.Pow(eb.Multiplier, float64(attempt-1))

	if delay > float64(eb.MaxDelay) {
		delay = float64(eb.MaxDelay)
	}

	if eb.JitterRatio > 0 {
		// Random factor in [1-JitterRatio, 1+JitterRatio)
		delay *= 1 + (eb.random()*2-1)*eb.JitterRatio
	}

	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

func (eb *ExponentialBackoff) random() float64 {
	if eb.Rand != nil {
		return eb.Rand.Float64()
	}
	return rand.Float64()
}

// ConstantBackoff returns the same delay for every attempt
type ConstantBackoff struct {
	Delay time.Duration
}

// DelayForAttempt returns the constant delay
func (cb *ConstantBackoff) DelayForAttempt(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return cb.Delay
}

// Wait waits for the specified duration or until the context is cancelled
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
