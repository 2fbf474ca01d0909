package strategy

import (
	"math"
	"math/rand"
	"time"
)

// ExponentialBackoff doubles the delay with each attempt:
// delay = base * 2^attempt, capped at MaxDelay.
type ExponentialBackoff struct {
	// MaxDelay caps the computed delay. Zero means uncapped.
	MaxDelay time.Duration
	// Jitter selects the randomization mode. JitterNone keeps delays
	// deterministic for tests.
	Jitter JitterMode

	src *source
}

// NewExponentialBackoff creates an uncapped, jitter-free exponential backoff.
func NewExponentialBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{}
}

// WithRand sets a seeded random source for reproducible jitter and returns
// the receiver.
func (s *ExponentialBackoff) WithRand(rnd *rand.Rand) *ExponentialBackoff {
	s.src = newSource(rnd)
	return s
}

func (s *ExponentialBackoff) Name() string { return "exponential-backoff" }

func (s *ExponentialBackoff) Delay(attempt int, base time.Duration) time.Duration {
	if attempt < 0 || base <= 0 {
		return 0
	}
	d := float64(base) * math.Pow(2, float64(attempt))
	capped := capDelay(saturate(d), s.MaxDelay)
	return applyJitter(capped, s.Jitter, s.src)
}

func (s *ExponentialBackoff) ShouldRetry(attempt, maxRetries int, _ time.Duration, _ error) bool {
	return defaultShouldRetry(attempt, maxRetries)
}

// LinearBackoff grows the delay linearly: delay = base * (attempt + 1).
type LinearBackoff struct {
	// MaxDelay caps the computed delay. Zero means uncapped.
	MaxDelay time.Duration
}

// NewLinearBackoff creates an uncapped linear backoff.
func NewLinearBackoff() *LinearBackoff {
	return &LinearBackoff{}
}

func (s *LinearBackoff) Name() string { return "linear-backoff" }

func (s *LinearBackoff) Delay(attempt int, base time.Duration) time.Duration {
	if attempt < 0 || base <= 0 {
		return 0
	}
	d := float64(base) * float64(attempt+1)
	return capDelay(saturate(d), s.MaxDelay)
}

func (s *LinearBackoff) ShouldRetry(attempt, maxRetries int, _ time.Duration, _ error) bool {
	return defaultShouldRetry(attempt, maxRetries)
}

// FixedDelay waits the base delay between every attempt.
type FixedDelay struct{}

// NewFixedDelay creates a fixed-delay strategy.
func NewFixedDelay() *FixedDelay {
	return &FixedDelay{}
}

func (s *FixedDelay) Name() string { return "fixed-delay" }

func (s *FixedDelay) Delay(_ int, base time.Duration) time.Duration {
	if base < 0 {
		return 0
	}
	return base
}

func (s *FixedDelay) ShouldRetry(attempt, maxRetries int, _ time.Duration, _ error) bool {
	return defaultShouldRetry(attempt, maxRetries)
}

// FibonacciBackoff scales the base delay by the Fibonacci sequence:
// delay = base * fib(attempt+1). The sequence is computed iteratively and
// growth saturates instead of overflowing.
type FibonacciBackoff struct {
	// MaxDelay caps the computed delay. Zero means uncapped.
	MaxDelay time.Duration
}

// NewFibonacciBackoff creates an uncapped fibonacci backoff.
func NewFibonacciBackoff() *FibonacciBackoff {
	return &FibonacciBackoff{}
}

func (s *FibonacciBackoff) Name() string { return "fibonacci-backoff" }

func (s *FibonacciBackoff) Delay(attempt int, base time.Duration) time.Duration {
	if attempt < 0 || base <= 0 {
		return 0
	}
	f := fib(attempt + 1)
	if f > math.MaxInt64/int64(base) {
		return capDelay(time.Duration(math.MaxInt64), s.MaxDelay)
	}
	return capDelay(base*time.Duration(f), s.MaxDelay)
}

func (s *FibonacciBackoff) ShouldRetry(attempt, maxRetries int, _ time.Duration, _ error) bool {
	return defaultShouldRetry(attempt, maxRetries)
}

// saturate converts a float delay to time.Duration, pinning values at or
// beyond the int64 range to the maximum. float64(math.MaxInt64) rounds up to
// 2^63, so converting it back directly would overflow.
func saturate(d float64) time.Duration {
	if d >= float64(math.MaxInt64) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

// fib returns the n-th Fibonacci number (fib(1) = fib(2) = 1), saturating at
// the largest representable value.
func fib(n int) int64 {
	if n <= 0 {
		return 0
	}
	var a, b int64 = 0, 1
	for i := 1; i < n; i++ {
		next := a + b
		if next < b { // overflow
			return math.MaxInt64
		}
		a, b = b, next
	}
	return b
}
