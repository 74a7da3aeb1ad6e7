package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

// TestDo_SucceedsAfterRetries tests that transient failures are retried
func TestDo_SucceedsAfterRetries(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected success after retries, got: %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

// TestDo_ExhaustsRetries tests that the last error is wrapped and returned
func TestDo_ExhaustsRetries(t *testing.T) {
	sentinel := errors.New("persistent failure")
	attempts := 0
	err := Do(context.Background(), fastConfig(), func() error {
		attempts++
		return sentinel
	})
	if err == nil {
		t.Fatal("Expected error after exhausting retries")
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("Expected wrapped sentinel error, got: %v", err)
	}
	if attempts != 4 {
		t.Errorf("Expected 4 attempts (initial + 3 retries), got %d", attempts)
	}
}

// TestDo_ContextCancellation tests that cancellation stops retrying
func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, fastConfig(), func() error {
		return errors.New("should not matter")
	})
	if err == nil {
		t.Fatal("Expected error from cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("connection refused"), true},
		{errors.New("request timeout"), true},
		{errors.New("status 503 service unavailable"), true},
		{errors.New("invalid API key"), false},
	}
	for _, tc := range cases {
		if got := IsRetryable(tc.err); got != tc.want {
			t.Errorf("IsRetryable(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
