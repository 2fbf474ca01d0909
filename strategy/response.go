package strategy

import (
	"errors"
	"net/http"
	"time"

	rkerrors "github.com/kbukum/retrykit/errors"
)

// ResponseContent chooses the delay from signals embedded in the error that
// triggered the retry: a Retry-After hint is honored directly, and 429/503
// responses without a hint escalate linearly. Errors without a transport
// signal fall back to the inner strategy.
type ResponseContent struct {
	// Inner supplies delays when the error carries no signal.
	Inner Strategy
	// MaxDelay caps server-provided hints so a hostile Retry-After cannot
	// stall the run. Zero means uncapped.
	MaxDelay time.Duration
}

// NewResponseContent wraps inner with response-content awareness.
func NewResponseContent(inner Strategy) *ResponseContent {
	if inner == nil {
		inner = NewExponentialBackoff()
	}
	return &ResponseContent{Inner: inner}
}

func (s *ResponseContent) Name() string { return "response-content" }

// Delay is the signal-free fallback path.
func (s *ResponseContent) Delay(attempt int, base time.Duration) time.Duration {
	return s.Inner.Delay(attempt, base)
}

// DelayFor inspects err's cause chain for transport signals.
func (s *ResponseContent) DelayFor(err error, attempt int, base time.Duration) time.Duration {
	var r rkerrors.Responder
	if !errors.As(err, &r) {
		return s.Inner.Delay(attempt, base)
	}

	if hint, ok := r.RetryAfterHint(); ok {
		return capDelay(hint, s.MaxDelay)
	}

	switch r.StatusCode() {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		// Throttled with no explicit hint: back off harder than usual.
		return capDelay(base*time.Duration(2*(attempt+1)), s.MaxDelay)
	}
	return s.Inner.Delay(attempt, base)
}

func (s *ResponseContent) ShouldRetry(attempt, maxRetries int, elapsed time.Duration, lastErr error) bool {
	return s.Inner.ShouldRetry(attempt, maxRetries, elapsed, lastErr)
}
