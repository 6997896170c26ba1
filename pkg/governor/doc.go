// Package governor coordinates rate limiting and retries for outbound
// Instagram API calls.
//
// A Governor owns the full lifecycle of a remote call: it waits for limiter
// admission, records the attempt, invokes the operation, and on transient
// failure retries with exponential backoff up to a configured attempt
// ceiling. Limiter denials never consume retry attempts; only executed
// operations do. Fatal errors (auth, not found, parsing) propagate
// immediately without retry.
//
//	limiter := ratelimit.NewSlidingWindowLimiter(ratelimit.Config{...})
//	g := governor.New(limiter, governor.Config{MaxAttempts: 3})
//
//	profile, err := governor.Execute(ctx, g, func(ctx context.Context) (*instagram.Profile, error) {
//	    return client.FetchUserProfile(ctx, username)
//	})
//
// Both suspension points (admission wait and backoff wait) honor context
// cancellation and unwind without touching limiter state.
package governor
