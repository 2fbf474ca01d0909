package strategy

import "time"

// TotalTimeout bounds a whole run by wall-clock time: once the cumulative
// elapsed time reaches Ceiling, ShouldRetry refuses regardless of how many
// attempts remain. Delay computation is delegated to the inner strategy.
type TotalTimeout struct {
	// Ceiling is the cumulative time budget for the run.
	Ceiling time.Duration
	// Inner supplies delays and the base continuation rule.
	Inner Strategy
}

// NewTotalTimeout wraps inner with a cumulative time ceiling.
func NewTotalTimeout(ceiling time.Duration, inner Strategy) *TotalTimeout {
	if inner == nil {
		inner = NewExponentialBackoff()
	}
	return &TotalTimeout{Ceiling: ceiling, Inner: inner}
}

func (s *TotalTimeout) Name() string { return "total-timeout" }

func (s *TotalTimeout) Delay(attempt int, base time.Duration) time.Duration {
	return s.Inner.Delay(attempt, base)
}

func (s *TotalTimeout) ShouldRetry(attempt, maxRetries int, elapsed time.Duration, lastErr error) bool {
	if s.Ceiling > 0 && elapsed >= s.Ceiling {
		return false
	}
	return s.Inner.ShouldRetry(attempt, maxRetries, elapsed, lastErr)
}
