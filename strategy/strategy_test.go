package strategy

import (
	"errors"
	"testing"
	"time"

	"github.com/kbukum/retrykit/circuit"
	rkerrors "github.com/kbukum/retrykit/errors"
)

func TestTotalTimeout_CeilingStopsRetrying(t *testing.T) {
	s := NewTotalTimeout(5*time.Second, NewFixedDelay())

	if !s.ShouldRetry(0, 10, 4*time.Second, nil) {
		t.Error("expected retry below ceiling")
	}
	if s.ShouldRetry(0, 10, 5*time.Second, nil) {
		t.Error("expected refusal at ceiling despite remaining attempts")
	}
	if s.ShouldRetry(10, 10, time.Second, nil) {
		t.Error("expected inner attempt rule to still apply")
	}
}

func TestTotalTimeout_DelegatesDelay(t *testing.T) {
	s := NewTotalTimeout(time.Minute, NewLinearBackoff())
	if got := s.Delay(2, 100*time.Millisecond); got != 300*time.Millisecond {
		t.Errorf("expected inner delay 300ms, got %v", got)
	}
}

func TestResponseContent_RetryAfterHint(t *testing.T) {
	s := NewResponseContent(NewFixedDelay())
	err := rkerrors.RateLimited(2 * time.Second)

	if got := s.DelayFor(err, 0, 100*time.Millisecond); got != 2*time.Second {
		t.Errorf("expected Retry-After hint 2s, got %v", got)
	}
}

func TestResponseContent_ThrottledWithoutHint(t *testing.T) {
	s := NewResponseContent(NewFixedDelay())
	base := 100 * time.Millisecond

	err := rkerrors.ServerError(503)
	// 2*(attempt+1)*base escalation.
	if got := s.DelayFor(err, 1, base); got != 400*time.Millisecond {
		t.Errorf("expected 400ms escalation, got %v", got)
	}
}

func TestResponseContent_FallsBackToInner(t *testing.T) {
	s := NewResponseContent(NewFixedDelay())
	base := 100 * time.Millisecond

	if got := s.DelayFor(errors.New("plain failure"), 3, base); got != base {
		t.Errorf("expected inner fixed delay, got %v", got)
	}
	if got := s.Delay(3, base); got != base {
		t.Errorf("expected inner fixed delay, got %v", got)
	}
}

func TestResponseContent_CapsHostileHint(t *testing.T) {
	s := NewResponseContent(NewFixedDelay())
	s.MaxDelay = time.Second

	err := rkerrors.RateLimited(time.Hour)
	if got := s.DelayFor(err, 0, time.Millisecond); got != time.Second {
		t.Errorf("expected capped hint 1s, got %v", got)
	}
}

func TestCustomOptions_CallerControl(t *testing.T) {
	s := NewCustomOptions(
		func(attempt int, base time.Duration) time.Duration {
			return base * time.Duration(attempt*attempt)
		},
		func(attempt, maxRetries int, lastErr error) bool {
			return attempt < 2
		},
	)

	if got := s.Delay(3, 10*time.Millisecond); got != 90*time.Millisecond {
		t.Errorf("expected 90ms, got %v", got)
	}
	if !s.ShouldRetry(1, 100, 0, nil) {
		t.Error("expected custom predicate to allow attempt 1")
	}
	if s.ShouldRetry(2, 100, 0, nil) {
		t.Error("expected custom predicate to refuse attempt 2")
	}
}

func TestCustomOptions_NegativeDelayClamped(t *testing.T) {
	s := NewCustomOptions(func(int, time.Duration) time.Duration { return -time.Second }, nil)
	if got := s.Delay(0, time.Millisecond); got != 0 {
		t.Errorf("expected clamp to zero, got %v", got)
	}
}

func TestCircuitBreakerStrategy_RefusesWhileOpen(t *testing.T) {
	now := time.Unix(0, 0)
	br := circuit.NewBreaker(circuit.Config{Key: "svc", FailureThreshold: 1, ResetTimeout: time.Minute})
	br.SetClock(func() time.Time { return now })

	s := NewCircuitBreaker(br, NewFixedDelay())

	if err := s.Allow(); err != nil {
		t.Fatalf("expected closed breaker to allow, got %v", err)
	}
	s.RecordFailure()

	if s.ShouldRetry(0, 5, 0, errors.New("boom")) {
		t.Error("expected refusal while open")
	}
	if err := s.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}

	now = now.Add(time.Minute)
	if !s.ShouldRetry(0, 5, 0, errors.New("boom")) {
		t.Error("expected retry once half-open")
	}
	if got := s.Delay(3, time.Second); got != 0 {
		t.Errorf("expected immediate probe delay, got %v", got)
	}
	if err := s.Allow(); err != nil {
		t.Errorf("expected probe admission, got %v", err)
	}
	s.RecordSuccess()
	if br.State() != circuit.StateClosed {
		t.Errorf("expected closed after successful probe, got %s", br.State())
	}
}

func TestRegistry_AliasRoundTrip(t *testing.T) {
	br := circuit.NewBreaker(circuit.DefaultConfig("svc"))
	opts := Options{
		TotalTimeout: time.Minute,
		Breaker:      br,
		DelayFunc:    func(int, time.Duration) time.Duration { return 0 },
	}

	for _, alias := range Aliases() {
		s, err := New(alias, opts)
		if err != nil {
			t.Errorf("New(%q): %v", alias, err)
			continue
		}
		if s.Name() != alias {
			t.Errorf("alias round-trip failed: New(%q).Name() = %q", alias, s.Name())
		}
	}
}

func TestRegistry_UnknownAliasFailsFast(t *testing.T) {
	if _, err := New("quadratic-backoff", Options{}); err == nil {
		t.Fatal("expected error for unknown alias")
	}
}

func TestRegistry_InvalidConfigFailsFast(t *testing.T) {
	if _, err := New("total-timeout", Options{}); err == nil {
		t.Error("expected error for total-timeout without ceiling")
	}
	if _, err := New("circuit-breaker", Options{}); err == nil {
		t.Error("expected error for circuit-breaker without breaker")
	}
	if _, err := New("custom-options", Options{}); err == nil {
		t.Error("expected error for custom-options without functions")
	}
}

func TestRegistry_RegisterAndEnumerate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("always-zero", func(Options) (Strategy, error) {
		return NewCustomOptions(func(int, time.Duration) time.Duration { return 0 }, nil), nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register("always-zero", nil); err == nil {
		t.Error("expected error for nil factory")
	}

	found := false
	for _, a := range r.Aliases() {
		if a == "always-zero" {
			found = true
		}
	}
	if !found {
		t.Error("expected registered alias in enumeration")
	}
}
