package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/vectorgov/vectorgov-go/internal/apierr"
)

func newTestExecutor(policy Policy, hooks Hooks) *Executor {
	return NewExecutor(policy, nil, hooks)
}

func TestExecuteRetriesTemporaryFailure(t *testing.T) {
	exec := newTestExecutor(Policy{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}, Hooks{})

	attempts := 0
	errTemp := errors.New("temporary")
	err := exec.Execute(context.Background(), "search", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errTemp
		}
		return nil
	}, func(err error) ErrorClassification {
		return ErrorClassification{
			Retryable:     errors.Is(err, errTemp),
			RecordFailure: true,
		}
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestExecuteDoesNotRetryPermanentFailure(t *testing.T) {
	exec := newTestExecutor(Policy{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}, Hooks{})

	attempts := 0
	errPermanent := errors.New("permanent")
	err := exec.Execute(context.Background(), "search", func(context.Context) error {
		attempts++
		return errPermanent
	}, func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: false}
	})
	if !errors.Is(err, errPermanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestExecuteOpensCircuitAfterFailures(t *testing.T) {
	exec := newTestExecutor(Policy{
		RetryMaxAttempts:        1,
		RetryInitialBackoff:     1 * time.Millisecond,
		RetryMaxBackoff:         1 * time.Millisecond,
		RetryMultiplier:         2,
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      50 * time.Millisecond,
		BreakerHalfOpenMaxCalls: 1,
	}, Hooks{})

	errTemp := errors.New("temporary")
	classifier := func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: true}
	}

	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "search", func(context.Context) error {
			return errTemp
		}, classifier)
		if !errors.Is(err, errTemp) {
			t.Fatalf("expected temporary error on iteration %d, got %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "search", func(context.Context) error {
		t.Fatalf("circuit should be open and must not call operation")
		return nil
	}, classifier)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open state error, got %v", err)
	}
	if !IsCircuitOpen(err) {
		t.Fatal("IsCircuitOpen must recognize the open breaker")
	}
}

func TestBreakersAreIsolatedPerOperation(t *testing.T) {
	exec := newTestExecutor(Policy{
		RetryMaxAttempts:        1,
		RetryInitialBackoff:     1 * time.Millisecond,
		RetryMaxBackoff:         1 * time.Millisecond,
		RetryMultiplier:         2,
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      time.Minute,
		BreakerHalfOpenMaxCalls: 1,
	}, Hooks{})

	errTemp := errors.New("temporary")
	classifier := func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: true}
	}

	for i := 0; i < 2; i++ {
		_ = exec.Execute(context.Background(), "hybrid", func(context.Context) error {
			return errTemp
		}, classifier)
	}

	// hybrid is open; search must still go through.
	err := exec.Execute(context.Background(), "search", func(context.Context) error {
		return nil
	}, classifier)
	if err != nil {
		t.Fatalf("unrelated operation must not share the breaker: %v", err)
	}
}

func TestRetryAfterOverridesBackoff(t *testing.T) {
	var waits []time.Duration
	exec := newTestExecutor(Policy{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}, Hooks{
		OnRetry: func(_ string, _ int, wait time.Duration, _ error) {
			waits = append(waits, wait)
		},
	})

	rateLimited := apierr.FromStatus(429, "slow down")
	rateLimited.RetryAfter = 1

	attempts := 0
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		// Cancel once the retry is sleeping on the server-suggested wait.
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := exec.Execute(ctx, "search", func(context.Context) error {
		attempts++
		return rateLimited
	}, func(error) ErrorClassification {
		return ErrorClassification{Retryable: true, RecordFailure: false}
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1 (still waiting out Retry-After)", attempts)
	}
	if len(waits) != 1 || waits[0] != time.Second {
		t.Fatalf("waits = %v, want the Retry-After second", waits)
	}
}

func TestExecuteHonorsContextCancellation(t *testing.T) {
	exec := newTestExecutor(Policy{BreakerEnabled: false}, Hooks{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := exec.Execute(ctx, "search", func(context.Context) error {
		t.Fatal("cancelled context must not reach the operation")
		return nil
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestNilCallbackFails(t *testing.T) {
	exec := newTestExecutor(Policy{}, Hooks{})
	if err := exec.Execute(context.Background(), "search", nil, nil); err == nil {
		t.Fatal("nil callback must fail")
	}
}
