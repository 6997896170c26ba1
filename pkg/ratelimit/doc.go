// Package ratelimit provides request admission control for outbound calls
// to the Instagram API.
//
// The sliding window limiter tracks the timestamps of issued requests and
// combines three independent gates:
//
// Rolling window:
//   - At most MaxRequests timestamps may fall within any trailing
//     WindowDuration (configured conservatively below Instagram's published
//     ceiling, e.g. 180 of ~200 per hour)
//
// Burst protection:
//   - BurstThreshold calls within BurstInterval arm a BurstCooldown during
//     which all admissions are denied; the burst counter fully resets once
//     the cooldown elapses
//
// Minimum inter-call delay:
//   - A delay floor between consecutive calls, applied even when window
//     capacity is available
//
// Callers that proceed immediately on admission use Admit, which checks
// and records inside one critical section; a denied or cancelled caller
// never consumes quota:
//
//	d := limiter.Admit(time.Now())
//	if !d.Admitted {
//	    // wait d.RetryAfter, then re-check
//	}
//	// issue the request
//
// Because the check and the record share the lock, concurrent callers on
// one limiter cannot overshoot the quota. TryAdmit and RecordAttempt are
// the split variants for callers that only want to observe a decision;
// they make no atomicity promise across the pair.
package ratelimit
