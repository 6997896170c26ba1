package ratelimit

import (
	"sync"
	"time"
)

// Decision is the outcome of an admission check
type Decision struct {
	// Admitted reports whether the caller may issue a request now
	Admitted bool
	// Remaining is the number of admissions left in the current window
	Remaining int
	// RetryAfter is how long to wait before re-checking when denied
	RetryAfter time.Duration
}

// Stats is a snapshot of limiter utilization for reporting
type Stats struct {
	TotalAttempts int     `json:"total_attempts"`
	InWindow      int     `json:"in_window"`
	MaxRequests   int     `json:"max_requests"`
	Utilization   float64 `json:"utilization_pct"`
	CoolingDown   bool    `json:"cooling_down"`
}

// Limiter defines the admission interface for rate limiting.
//
// Admit is the path for callers that proceed immediately on admission: the
// check and the record happen in one critical section, so concurrent
// callers sharing a limiter cannot overshoot the quota. TryAdmit and
// RecordAttempt remain for callers that need to observe a decision without
// committing to a call; denials never record either way.
type Limiter interface {
	// Admit checks admission and, when admitted, records the attempt
	// atomically
	Admit(now time.Time) Decision
	// TryAdmit checks if a request may be issued at the given instant,
	// without recording
	TryAdmit(now time.Time) Decision
	// RecordAttempt records that a request was actually issued
	RecordAttempt(now time.Time)
	// Stats returns a snapshot of limiter utilization
	Stats(now time.Time) Stats
}

// Config holds the thresholds for a sliding window limiter
type Config struct {
	// WindowDuration is the length of the rolling window
	WindowDuration time.Duration
	// MaxRequests is the admission ceiling within any trailing window
	MaxRequests int
	// MinInterCallDelay is a delay floor between consecutive calls,
	// applied even when window capacity is available
	MinInterCallDelay time.Duration
	// BurstThreshold is the number of calls within BurstInterval that
	// triggers a cooldown
	BurstThreshold int
	// BurstInterval is the short interval used for burst detection
	BurstInterval time.Duration
	// BurstCooldown is how long admissions are denied after a burst
	BurstCooldown time.Duration
}

// SlidingWindowLimiter tracks request timestamps in a rolling window and
// enforces a per-window quota, a minimum inter-call delay, and burst
// protection with a cooldown.
//
// The burst counter is fully reset once the cooldown elapses.
type SlidingWindowLimiter struct {
	cfg Config

	mu            sync.Mutex
	requests      []time.Time
	totalAttempts int
	lastAttempt   time.Time
	burstStart    time.Time
	burstCount    int
	cooldownUntil time.Time
}

// NewSlidingWindowLimiter creates a new sliding window limiter
func NewSlidingWindowLimiter(cfg Config) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		cfg:      cfg,
		requests: make([]time.Time, 0, cfg.MaxRequests),
	}
}

// Admit checks whether a request may proceed at the given instant and, on
// admission, records the attempt before releasing the lock. Two concurrent
// callers can never both be admitted past the quota.
func (l *SlidingWindowLimiter) Admit(now time.Time) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	d := l.decide(now)
	if d.Admitted {
		l.record(now)
		if d.Remaining > 0 {
			d.Remaining--
		}
	}
	return d
}

// TryAdmit checks whether a request may proceed at the given instant.
// It never errors; on denial, RetryAfter is the longest of the window
// expiry wait, the burst cooldown remainder, and the inter-call delay
// remainder.
func (l *SlidingWindowLimiter) TryAdmit(now time.Time) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.decide(now)
}

// decide evaluates the admission gates without recording. Caller must hold
// the mutex.
func (l *SlidingWindowLimiter) decide(now time.Time) Decision {
	l.pruneExpired(now)

	var wait time.Duration

	if now.Before(l.cooldownUntil) {
		wait = l.cooldownUntil.Sub(now)
	} else if !l.cooldownUntil.IsZero() {
		// Cooldown elapsed: full reset of the burst state.
		l.cooldownUntil = time.Time{}
		l.burstStart = time.Time{}
		l.burstCount = 0
	}

	if len(l.requests) >= l.cfg.MaxRequests {
		windowWait := l.requests[0].Add(l.cfg.WindowDuration).Sub(now)
		wait = max(wait, windowWait)
	}

	if l.cfg.MinInterCallDelay > 0 && !l.lastAttempt.IsZero() {
		if since := now.Sub(l.lastAttempt); since < l.cfg.MinInterCallDelay {
			wait = max(wait, l.cfg.MinInterCallDelay-since)
		}
	}

	remaining := l.cfg.MaxRequests - len(l.requests)
	if remaining < 0 {
		remaining = 0
	}

	if wait > 0 {
		return Decision{Admitted: false, Remaining: remaining, RetryAfter: wait}
	}
	return Decision{Admitted: true, Remaining: remaining}
}

// RecordAttempt records that a request was issued at the given instant.
// Crossing the burst threshold arms the cooldown.
func (l *SlidingWindowLimiter) RecordAttempt(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneExpired(now)
	l.record(now)
}

// record appends an attempt and updates burst state. Caller must hold the
// mutex.
func (l *SlidingWindowLimiter) record(now time.Time) {
	l.requests = append(l.requests, now)
	l.lastAttempt = now
	l.totalAttempts++

	if l.burstStart.IsZero() || now.Sub(l.burstStart) > l.cfg.BurstInterval {
		l.burstStart = now
		l.burstCount = 1
		return
	}

	l.burstCount++
	if l.cfg.BurstThreshold > 0 && l.burstCount >= l.cfg.BurstThreshold {
		l.cooldownUntil = now.Add(l.cfg.BurstCooldown)
		l.burstStart = time.Time{}
		l.burstCount = 0
	}
}

// Stats returns a snapshot of limiter utilization at the given instant
func (l *SlidingWindowLimiter) Stats(now time.Time) Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneExpired(now)

	utilization := 0.0
	if l.cfg.MaxRequests > 0 {
		utilization = float64(len(l.requests)) / float64(l.cfg.MaxRequests) * 100
	}

	return Stats{
		TotalAttempts: l.totalAttempts,
		InWindow:      len(l.requests),
		MaxRequests:   l.cfg.MaxRequests,
		Utilization:   utilization,
		CoolingDown:   now.Before(l.cooldownUntil),
	}
}

// Reset clears all recorded state
func (l *SlidingWindowLimiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.requests = l.requests[:0]
	l.totalAttempts = 0
	l.lastAttempt = time.Time{}
	l.burstStart = time.Time{}
	l.burstCount = 0
	l.cooldownUntil = time.Time{}
}

// pruneExpired removes timestamps outside the rolling window.
// Caller must hold the mutex.
func (l *SlidingWindowLimiter) pruneExpired(now time.Time) {
	cutoff := now.Add(-l.cfg.WindowDuration)

	// Find the first timestamp still within the window
	i := 0
	for i < len(l.requests) && !l.requests[i].After(cutoff) {
		i++
	}

	// Keep only timestamps within the window
	if i > 0 {
		copy(l.requests, l.requests[i:])
		l.requests = l.requests[:len(l.requests)-i]
	}
}
