package retry

import (
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/retrykit/observe"
)

// Context is the mutable per-run record of timing, history and metrics.
// It is created once per Run invocation, owned exclusively by that run, and
// mutated only by the executor.
type Context struct {
	// OperationID uniquely identifies this run.
	OperationID string
	// StartTime is when the run began.
	StartTime time.Time
	// MaxRetries is the retry budget for this run.
	MaxRetries int
	// TotalAttempts counts invocations of the operation, starting at 1.
	TotalAttempts int
	// Metadata carries caller-supplied context across attempts.
	Metadata map[string]any
	// Metrics aggregates timing once the run completes.
	Metrics observe.Metrics

	history   []observe.Attempt
	durations []time.Duration
}

func newContext(maxRetries int, now time.Time) *Context {
	return &Context{
		OperationID:   uuid.NewString(),
		StartTime:     now,
		MaxRetries:    maxRetries,
		TotalAttempts: 1,
		Metadata:      make(map[string]any),
	}
}

// recordFailure appends a failed attempt to the exception history.
func (c *Context) recordFailure(attempt int, err error, retryable bool, delay, duration time.Duration, now time.Time) {
	c.history = append(c.history, observe.Attempt{
		Attempt:   attempt,
		Err:       err,
		Message:   err.Error(),
		Timestamp: now,
		Retryable: retryable,
		Delay:     delay,
		Duration:  duration,
	})
	c.durations = append(c.durations, duration)
	c.Metrics.TotalDelay += delay
}

// recordSuccess tracks the terminal successful attempt for metrics only;
// the exception history holds failures.
func (c *Context) recordSuccess(duration time.Duration) {
	c.durations = append(c.durations, duration)
}

// History returns a copy of the exception history so far.
func (c *Context) History() []observe.Attempt {
	out := make([]observe.Attempt, len(c.history))
	copy(out, c.history)
	return out
}

// SetMetadata stores a metadata entry.
func (c *Context) SetMetadata(key string, value any) {
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = value
}

// finalize computes the aggregate metrics at run completion.
func (c *Context) finalize(now time.Time) {
	c.Metrics.TotalDuration = now.Sub(c.StartTime)

	if len(c.durations) == 0 {
		return
	}
	var total time.Duration
	min, max := c.durations[0], c.durations[0]
	for _, d := range c.durations {
		total += d
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	c.Metrics.AvgAttemptDuration = total / time.Duration(len(c.durations))
	c.Metrics.MinAttemptDuration = min
	c.Metrics.MaxAttemptDuration = max
}

// snapshot builds the serializable summary attached to lifecycle events.
func (c *Context) snapshot(attempt int, strategyName string) observe.Snapshot {
	meta := make(map[string]any, len(c.Metadata))
	for k, v := range c.Metadata {
		meta[k] = v
	}
	return observe.Snapshot{
		OperationID:   c.OperationID,
		Attempt:       attempt,
		TotalAttempts: c.TotalAttempts,
		MaxRetries:    c.MaxRetries,
		Strategy:      strategyName,
		Metrics:       c.Metrics,
		Metadata:      meta,
	}
}
