package llm

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("generation circuit breaker is open")

type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// CircuitBreaker stops calling the provider after consecutive failures and
// lets a probe through once cooldown has passed.
type CircuitBreaker struct {
	maxFailures int
	cooldown    time.Duration
	probes      int

	mu        sync.Mutex
	state     CircuitState
	failures  int
	openedAt  time.Time
	successes int
	now       func() time.Time
}

// NewCircuitBreaker returns nil when maxFailures is not positive; a nil
// breaker passes every call through.
func NewCircuitBreaker(maxFailures int, cooldown time.Duration) *CircuitBreaker {
	if maxFailures <= 0 {
		return nil
	}
	return &CircuitBreaker{
		maxFailures: maxFailures,
		cooldown:    cooldown,
		probes:      1,
		now:         time.Now,
	}
}

func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if cb == nil {
		return fn()
	}
	if err := cb.allow(); err != nil {
		return err
	}

	err := fn()
	// the caller giving up says nothing about the provider
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		if cb.now().Sub(cb.openedAt) < cb.cooldown {
			return ErrCircuitOpen
		}
		cb.state = StateHalfOpen
		cb.successes = 0
	}
	return nil
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failures++
		if cb.state == StateHalfOpen || cb.failures >= cb.maxFailures {
			cb.state = StateOpen
			cb.openedAt = cb.now()
		}
		return
	}

	if cb.state == StateHalfOpen {
		cb.successes++
		if cb.successes < cb.probes {
			return
		}
		cb.state = StateClosed
	}
	cb.failures = 0
}

func (cb *CircuitBreaker) State() CircuitState {
	if cb == nil {
		return StateClosed
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
