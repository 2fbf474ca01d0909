package strategy

import "time"

// CustomOptions gives the caller full control via a delay function and/or a
// retry predicate. Nil fields fall back to the base delay and the default
// attempt-count rule.
type CustomOptions struct {
	// DelayFunc computes the wait after the given zero-indexed attempt.
	DelayFunc func(attempt int, base time.Duration) time.Duration
	// RetryFunc decides whether another attempt may follow.
	RetryFunc func(attempt, maxRetries int, lastErr error) bool
}

// NewCustomOptions creates a caller-controlled strategy.
func NewCustomOptions(delay func(int, time.Duration) time.Duration, retry func(int, int, error) bool) *CustomOptions {
	return &CustomOptions{DelayFunc: delay, RetryFunc: retry}
}

func (s *CustomOptions) Name() string { return "custom-options" }

func (s *CustomOptions) Delay(attempt int, base time.Duration) time.Duration {
	if s.DelayFunc == nil {
		if base < 0 {
			return 0
		}
		return base
	}
	d := s.DelayFunc(attempt, base)
	if d < 0 {
		return 0
	}
	return d
}

func (s *CustomOptions) ShouldRetry(attempt, maxRetries int, _ time.Duration, lastErr error) bool {
	if s.RetryFunc == nil {
		return defaultShouldRetry(attempt, maxRetries)
	}
	return s.RetryFunc(attempt, maxRetries, lastErr)
}
