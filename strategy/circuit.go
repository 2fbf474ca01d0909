package strategy

import (
	"time"

	"github.com/kbukum/retrykit/circuit"
)

// CircuitBreaker decorates an inner strategy with breaker semantics: it
// refuses attempts while the breaker is open, admits a single probe once the
// reset timeout elapses, and feeds attempt outcomes back into the breaker.
// It is the one strategy that reads shared mutable state.
type CircuitBreaker struct {
	// Inner supplies delays and the base continuation rule.
	Inner Strategy
	// Breaker holds the shared state machine, usually obtained from a
	// circuit.Registry so concurrent callers share one breaker per key.
	Breaker *circuit.Breaker
}

// NewCircuitBreaker wraps inner with the given breaker.
func NewCircuitBreaker(breaker *circuit.Breaker, inner Strategy) *CircuitBreaker {
	if inner == nil {
		inner = NewExponentialBackoff()
	}
	return &CircuitBreaker{Inner: inner, Breaker: breaker}
}

func (s *CircuitBreaker) Name() string { return "circuit-breaker" }

// Delay delegates to the inner strategy except while half-open, where the
// probe goes out immediately.
func (s *CircuitBreaker) Delay(attempt int, base time.Duration) time.Duration {
	if s.Breaker != nil && s.Breaker.State() == circuit.StateHalfOpen {
		return 0
	}
	return s.Inner.Delay(attempt, base)
}

func (s *CircuitBreaker) ShouldRetry(attempt, maxRetries int, elapsed time.Duration, lastErr error) bool {
	if !s.Inner.ShouldRetry(attempt, maxRetries, elapsed, lastErr) {
		return false
	}
	if s.Breaker != nil && s.Breaker.State() == circuit.StateOpen {
		return false
	}
	return true
}

// Allow implements Gate: the executor calls it before every attempt.
func (s *CircuitBreaker) Allow() error {
	if s.Breaker == nil || s.Breaker.Allow() {
		return nil
	}
	return ErrCircuitOpen
}

// RecordSuccess implements Recorder.
func (s *CircuitBreaker) RecordSuccess() {
	if s.Breaker != nil {
		s.Breaker.RecordSuccess()
	}
}

// RecordFailure implements Recorder.
func (s *CircuitBreaker) RecordFailure() {
	if s.Breaker != nil {
		s.Breaker.RecordFailure()
	}
}
