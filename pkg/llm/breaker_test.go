package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Minute)
	now := time.Unix(1000, 0)
	cb.now = func() time.Time { return now }

	boom := errors.New("boom")
	calls := 0
	fail := func() error { calls++; return boom }

	for i := 0; i < 2; i++ {
		if err := cb.Execute(context.Background(), fail); !errors.Is(err, boom) {
			t.Fatalf("call %d: expected boom, got %v", i, err)
		}
	}
	if cb.State() != StateOpen {
		t.Fatalf("expected open, got %s", cb.State())
	}

	if err := cb.Execute(context.Background(), fail); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if calls != 2 {
		t.Errorf("open breaker must not call through, calls=%d", calls)
	}

	now = now.Add(2 * time.Minute)
	if err := cb.Execute(context.Background(), func() error { return nil }); err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("expected closed after successful probe, got %s", cb.State())
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Second)
	now := time.Unix(1000, 0)
	cb.now = func() time.Time { return now }

	_ = cb.Execute(context.Background(), func() error { return errors.New("down") })
	now = now.Add(2 * time.Second)
	_ = cb.Execute(context.Background(), func() error { return errors.New("still down") })

	if cb.State() != StateOpen {
		t.Errorf("expected open, got %s", cb.State())
	}
}

func TestCircuitBreakerIgnoresCancellation(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute)
	_ = cb.Execute(context.Background(), func() error { return context.Canceled })
	if cb.State() != StateClosed {
		t.Errorf("cancellation must not trip the breaker, got %s", cb.State())
	}
}

func TestNilCircuitBreakerPassesThrough(t *testing.T) {
	cb := NewCircuitBreaker(0, time.Minute)
	if cb != nil {
		t.Fatal("expected nil breaker when disabled")
	}
	called := false
	if err := cb.Execute(context.Background(), func() error { called = true; return nil }); err != nil || !called {
		t.Errorf("nil breaker should call through, err=%v called=%v", err, called)
	}
}
