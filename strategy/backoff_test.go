package strategy

import (
	"math/rand"
	"testing"
	"time"
)

func TestExponentialBackoff_Delay(t *testing.T) {
	s := NewExponentialBackoff()
	base := 100 * time.Millisecond

	if got := s.Delay(0, base); got != base {
		t.Errorf("attempt 0: expected %v, got %v", base, got)
	}
	if got := s.Delay(1, base); got != 200*time.Millisecond {
		t.Errorf("attempt 1: expected 200ms, got %v", got)
	}
	if got := s.Delay(3, base); got != 800*time.Millisecond {
		t.Errorf("attempt 3: expected 800ms, got %v", got)
	}
}

func TestExponentialBackoff_NonDecreasing(t *testing.T) {
	s := NewExponentialBackoff()
	base := 50 * time.Millisecond

	prev := time.Duration(-1)
	for attempt := 0; attempt < 40; attempt++ {
		d := s.Delay(attempt, base)
		if d < prev {
			t.Fatalf("delay decreased at attempt %d: %v < %v", attempt, d, prev)
		}
		if d < 0 {
			t.Fatalf("negative delay at attempt %d", attempt)
		}
		prev = d
	}
}

func TestExponentialBackoff_Cap(t *testing.T) {
	s := &ExponentialBackoff{MaxDelay: time.Second}
	if got := s.Delay(20, 100*time.Millisecond); got != time.Second {
		t.Errorf("expected cap at 1s, got %v", got)
	}
}

func TestExponentialBackoff_JitterBounds(t *testing.T) {
	base := 100 * time.Millisecond
	full := (&ExponentialBackoff{Jitter: JitterFull}).WithRand(rand.New(rand.NewSource(1)))
	equal := (&ExponentialBackoff{Jitter: JitterEqual}).WithRand(rand.New(rand.NewSource(1)))

	for attempt := 0; attempt < 8; attempt++ {
		raw := NewExponentialBackoff().Delay(attempt, base)

		d := full.Delay(attempt, base)
		if d < 0 || d > raw {
			t.Errorf("full jitter out of [0, %v]: %v", raw, d)
		}

		d = equal.Delay(attempt, base)
		if d < raw/2 || d > raw {
			t.Errorf("equal jitter out of [%v, %v]: %v", raw/2, raw, d)
		}
	}
}

func TestExponentialBackoff_SeededJitterReproducible(t *testing.T) {
	base := 100 * time.Millisecond
	a := (&ExponentialBackoff{Jitter: JitterFull}).WithRand(rand.New(rand.NewSource(42)))
	b := (&ExponentialBackoff{Jitter: JitterFull}).WithRand(rand.New(rand.NewSource(42)))

	for attempt := 0; attempt < 5; attempt++ {
		if da, db := a.Delay(attempt, base), b.Delay(attempt, base); da != db {
			t.Errorf("attempt %d: same seed diverged: %v vs %v", attempt, da, db)
		}
	}
}

func TestLinearBackoff_Delay(t *testing.T) {
	s := NewLinearBackoff()
	base := 100 * time.Millisecond

	for attempt, want := range []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		300 * time.Millisecond,
		400 * time.Millisecond,
	} {
		if got := s.Delay(attempt, base); got != want {
			t.Errorf("attempt %d: expected %v, got %v", attempt, want, got)
		}
	}
}

func TestFixedDelay_Constant(t *testing.T) {
	s := NewFixedDelay()
	base := 250 * time.Millisecond
	for attempt := 0; attempt < 10; attempt++ {
		if got := s.Delay(attempt, base); got != base {
			t.Errorf("attempt %d: expected %v, got %v", attempt, base, got)
		}
	}
}

func TestFibonacciBackoff_Delay(t *testing.T) {
	s := NewFibonacciBackoff()
	base := 10 * time.Millisecond

	// fib(attempt+1): 1, 1, 2, 3, 5, 8
	want := []time.Duration{10, 10, 20, 30, 50, 80}
	for attempt, w := range want {
		if got := s.Delay(attempt, base); got != w*time.Millisecond {
			t.Errorf("attempt %d: expected %v, got %v", attempt, w*time.Millisecond, got)
		}
	}
}

func TestFibonacciBackoff_NoOverflow(t *testing.T) {
	s := NewFibonacciBackoff()
	// Attempt counts far past where int64 fibonacci overflows.
	for _, attempt := range []int{90, 120, 500} {
		d := s.Delay(attempt, time.Second)
		if d < 0 {
			t.Errorf("attempt %d: negative delay %v", attempt, d)
		}
	}
}

func TestFib_Iterative(t *testing.T) {
	want := []int64{0, 1, 1, 2, 3, 5, 8, 13, 21}
	for n, w := range want {
		if got := fib(n); got != w {
			t.Errorf("fib(%d) = %d, want %d", n, got, w)
		}
	}
}

func TestShouldRetry_DefaultRule(t *testing.T) {
	s := NewExponentialBackoff()
	if !s.ShouldRetry(0, 3, 0, nil) {
		t.Error("expected retry at attempt 0 of 3")
	}
	if s.ShouldRetry(3, 3, 0, nil) {
		t.Error("expected no retry once attempts are exhausted")
	}
	if s.ShouldRetry(0, 0, 0, nil) {
		t.Error("expected no retry with zero max retries")
	}
}

func TestDecorrelatedJitter_Bounds(t *testing.T) {
	s := NewDecorrelatedJitter(0).WithRand(rand.New(rand.NewSource(7)))
	base := 100 * time.Millisecond

	prevUpper := base
	for i := 0; i < 20; i++ {
		d := s.Delay(i, base)
		if d < base {
			t.Fatalf("draw %d below base: %v", i, d)
		}
		if d > prevUpper*3 {
			t.Fatalf("draw %d above prev*3: %v > %v", i, d, prevUpper*3)
		}
		prevUpper = d
	}
}

func TestDecorrelatedJitter_CapAndReset(t *testing.T) {
	s := NewDecorrelatedJitter(150 * time.Millisecond).WithRand(rand.New(rand.NewSource(7)))
	base := 100 * time.Millisecond

	for i := 0; i < 10; i++ {
		if d := s.Delay(i, base); d > 150*time.Millisecond {
			t.Fatalf("draw %d above cap: %v", i, d)
		}
	}

	s.Reset()
	if d := s.Delay(0, base); d < base || d > 3*base {
		t.Errorf("post-reset draw outside [base, 3*base]: %v", d)
	}
}
