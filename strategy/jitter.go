package strategy

import (
	"math/rand"
	"sync"
	"time"
)

// JitterMode selects how randomness is applied to a computed delay.
type JitterMode int

const (
	// JitterNone disables jitter; delays are fully deterministic.
	JitterNone JitterMode = iota
	// JitterFull replaces the delay with random(0, delay).
	JitterFull
	// JitterEqual keeps half the delay and randomizes the other half:
	// delay/2 + random(0, delay/2).
	JitterEqual
)

// source wraps a rand source behind a mutex so strategies stay safe for
// concurrent runs. A nil inner source falls back to the global generator.
type source struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func newSource(rnd *rand.Rand) *source {
	return &source{rnd: rnd}
}

func (s *source) float64() float64 {
	if s == nil || s.rnd == nil {
		return rand.Float64()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

// applyJitter applies mode to d using src for randomness.
func applyJitter(d time.Duration, mode JitterMode, src *source) time.Duration {
	if d <= 0 {
		return 0
	}
	switch mode {
	case JitterFull:
		return time.Duration(src.float64() * float64(d))
	case JitterEqual:
		half := float64(d) / 2
		return time.Duration(half + src.float64()*half)
	default:
		return d
	}
}
