package strategy

import (
	"errors"
	"time"
)

// ErrCircuitOpen is returned by the circuit-breaker gate while the breaker
// refuses calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Strategy computes the delay before a retry and governs continuation.
type Strategy interface {
	// Name returns the strategy's stable kebab-case alias.
	Name() string

	// Delay returns the wait before retrying after the given zero-indexed
	// attempt. It is a pure function of its inputs and the strategy's
	// construction parameters, except where jitter is configured.
	// Implementations never return a negative duration.
	Delay(attempt int, base time.Duration) time.Duration

	// ShouldRetry reports whether another attempt may follow the given
	// zero-indexed attempt. elapsed is the time since the run started.
	ShouldRetry(attempt, maxRetries int, elapsed time.Duration, lastErr error) bool
}

// ErrorAware is implemented by strategies whose delay depends on the error
// that triggered the retry (e.g. a server-provided Retry-After hint). The
// executor prefers DelayFor over Delay when the interface is present.
type ErrorAware interface {
	DelayFor(err error, attempt int, base time.Duration) time.Duration
}

// Gate is implemented by strategies that can refuse an attempt before the
// operation is invoked. The executor consults the gate ahead of every
// attempt, including the first.
type Gate interface {
	Allow() error
}

// Recorder is implemented by strategies that track attempt outcomes. The
// executor reports every attempt result to the recorder.
type Recorder interface {
	RecordSuccess()
	RecordFailure()
}

// defaultShouldRetry is the continuation rule shared by strategies that do
// not override it.
func defaultShouldRetry(attempt, maxRetries int) bool {
	return attempt < maxRetries
}

// capDelay clamps d to max when max is positive.
func capDelay(d, max time.Duration) time.Duration {
	if max > 0 && d > max {
		return max
	}
	if d < 0 {
		return 0
	}
	return d
}
