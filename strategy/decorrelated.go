package strategy

import (
	"math/rand"
	"sync"
	"time"
)

// DecorrelatedJitter implements AWS-style decorrelated jitter: each delay is
// drawn uniformly from [base, prev*3], where prev is the previous delay of
// this run. It is the one backoff variant that is stateful by design; call
// Reset between runs when reusing an instance, or give each executor its own.
type DecorrelatedJitter struct {
	// MaxDelay caps the computed delay. Zero means uncapped.
	MaxDelay time.Duration

	mu   sync.Mutex
	prev time.Duration
	src  *source
}

// NewDecorrelatedJitter creates a decorrelated-jitter backoff capped at max.
func NewDecorrelatedJitter(max time.Duration) *DecorrelatedJitter {
	return &DecorrelatedJitter{MaxDelay: max}
}

// WithRand sets a seeded random source for reproducible draws and returns
// the receiver.
func (s *DecorrelatedJitter) WithRand(rnd *rand.Rand) *DecorrelatedJitter {
	s.src = newSource(rnd)
	return s
}

func (s *DecorrelatedJitter) Name() string { return "decorrelated-jitter" }

func (s *DecorrelatedJitter) Delay(_ int, base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.prev
	if prev < base {
		prev = base
	}
	upper := prev * 3
	if upper <= base {
		upper = base + 1
	}

	d := base + time.Duration(s.src.float64()*float64(upper-base))
	d = capDelay(d, s.MaxDelay)
	s.prev = d
	return d
}

func (s *DecorrelatedJitter) ShouldRetry(attempt, maxRetries int, _ time.Duration, _ error) bool {
	return defaultShouldRetry(attempt, maxRetries)
}

// Reset clears the previous-delay state carried between attempts.
func (s *DecorrelatedJitter) Reset() {
	s.mu.Lock()
	s.prev = 0
	s.mu.Unlock()
}
