package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func TestStaysClosedOnSuccess(t *testing.T) {
	cb := NewCircuitBreaker(DefaultConfig())

	for i := 0; i < 10; i++ {
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if cb.GetState() != StateClosed {
		t.Errorf("expected closed state, got %v", cb.GetState())
	}
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker(Config{
		FailureThreshold:    3,
		SuccessThreshold:    2,
		Timeout:             time.Minute,
		HalfOpenMaxRequests: 1,
	})

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errBoom })
	}

	err := cb.Execute(func() error { return nil })
	if !errors.Is(err, ErrCircuitBreakerOpen) {
		t.Errorf("expected ErrCircuitBreakerOpen, got %v", err)
	}
	if cb.GetState() != StateOpen {
		t.Errorf("expected open state, got %v", cb.GetState())
	}
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(Config{
		FailureThreshold:    3,
		SuccessThreshold:    2,
		Timeout:             time.Minute,
		HalfOpenMaxRequests: 1,
	})

	_ = cb.Execute(func() error { return errBoom })
	_ = cb.Execute(func() error { return errBoom })
	_ = cb.Execute(func() error { return nil })
	_ = cb.Execute(func() error { return errBoom })
	_ = cb.Execute(func() error { return errBoom })

	if cb.GetState() != StateClosed {
		t.Errorf("expected closed state after interleaved success, got %v", cb.GetState())
	}
}

func TestHalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker(Config{
		FailureThreshold:    1,
		SuccessThreshold:    2,
		Timeout:             10 * time.Millisecond,
		HalfOpenMaxRequests: 5,
	})

	_ = cb.Execute(func() error { return errBoom })
	if cb.GetState() != StateOpen {
		t.Fatalf("expected open state, got %v", cb.GetState())
	}

	time.Sleep(20 * time.Millisecond)

	// Two successful probes should close the breaker again.
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return nil })
	}

	if cb.GetState() != StateClosed {
		t.Errorf("expected closed state after recovery, got %v", cb.GetState())
	}
}

func TestReset(t *testing.T) {
	cb := NewCircuitBreaker(Config{
		FailureThreshold:    1,
		SuccessThreshold:    1,
		Timeout:             time.Minute,
		HalfOpenMaxRequests: 1,
	})

	_ = cb.Execute(func() error { return errBoom })
	if cb.GetState() != StateOpen {
		t.Fatalf("expected open state, got %v", cb.GetState())
	}

	cb.Reset()
	if cb.GetState() != StateClosed {
		t.Errorf("expected closed state after reset, got %v", cb.GetState())
	}
}
