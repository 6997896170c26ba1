package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		retryable bool
	}{
		{ErrorTypeNetwork, true},
		{ErrorTypeRateLimit, true},
		{ErrorTypeServerError, true},
		{ErrorTypeAuth, false},
		{ErrorTypeNotFound, false},
		{ErrorTypeParsing, false},
		{ErrorTypeRetriesExhausted, false},
		{ErrorTypeUnknown, false},
	}

	for _, test := range tests {
		if got := IsRetryable(test.errorType); got != test.retryable {
			t.Errorf("IsRetryable(%s) = %v, want %v", test.errorType, got, test.retryable)
		}
	}
}

func TestIsRetryableErr(t *testing.T) {
	if IsRetryableErr(nil) {
		t.Error("nil error should not be retryable")
	}

	if !IsRetryableErr(errors.New("plain error")) {
		t.Error("untyped errors should be treated as transient")
	}

	authErr := New(ErrorTypeAuth, "authentication required")
	if IsRetryableErr(authErr) {
		t.Error("auth errors should not be retryable")
	}

	// Typed errors remain classifiable through wrapping.
	wrapped := fmt.Errorf("fetching profile: %w", New(ErrorTypeRateLimit, "too many requests"))
	if !IsRetryableErr(wrapped) {
		t.Error("wrapped rate limit errors should be retryable")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrorTypeNetwork, "request failed", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
	if TypeOf(err) != ErrorTypeNetwork {
		t.Errorf("expected network type, got %s", TypeOf(err))
	}
}

func TestIsRetryableStatusCode(t *testing.T) {
	retryable := []int{0, 429, 500, 502, 503, 504, 599}
	for _, code := range retryable {
		if !IsRetryableStatusCode(code) {
			t.Errorf("expected status %d to be retryable", code)
		}
	}

	fatal := []int{401, 403, 404, 400}
	for _, code := range fatal {
		if IsRetryableStatusCode(code) {
			t.Errorf("expected status %d to not be retryable", code)
		}
	}
}
