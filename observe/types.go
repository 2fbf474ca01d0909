package observe

import "time"

// Attempt is one entry of a run's exception history.
type Attempt struct {
	// Attempt is the zero-indexed attempt number.
	Attempt int `json:"attempt"`
	// Err is the failure, nil for the terminal successful attempt.
	Err error `json:"-"`
	// Message preserves the error text for serialization.
	Message string `json:"message,omitempty"`
	// Timestamp is when the attempt finished.
	Timestamp time.Time `json:"timestamp"`
	// Retryable records the classification verdict for this failure.
	Retryable bool `json:"retryable"`
	// Delay is the backoff wait scheduled after this attempt, if any.
	Delay time.Duration `json:"delay"`
	// Duration is how long the attempt itself took.
	Duration time.Duration `json:"duration"`
}

// Metrics aggregates timing over a whole run.
type Metrics struct {
	TotalDuration      time.Duration `json:"total_duration"`
	TotalDelay         time.Duration `json:"total_delay"`
	AvgAttemptDuration time.Duration `json:"avg_attempt_duration"`
	MinAttemptDuration time.Duration `json:"min_attempt_duration"`
	MaxAttemptDuration time.Duration `json:"max_attempt_duration"`
}

// Snapshot is the serializable run summary attached to every event.
type Snapshot struct {
	OperationID   string         `json:"operation_id"`
	Attempt       int            `json:"attempt"`
	TotalAttempts int            `json:"total_attempts"`
	MaxRetries    int            `json:"max_retries"`
	Strategy      string         `json:"strategy,omitempty"`
	Metrics       Metrics        `json:"metrics"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// RetryingEvent fires before each backoff wait.
type RetryingEvent struct {
	// Attempt is the upcoming attempt number (one past the failed one).
	Attempt    int
	MaxRetries int
	Delay      time.Duration
	Err        error
	Timestamp  time.Time
	Snapshot   Snapshot
}

// SucceededEvent fires once when a run ends successfully.
type SucceededEvent struct {
	Attempt   int
	Result    any
	TotalTime time.Duration
	Timestamp time.Time
	Snapshot  Snapshot
}

// FailedEvent fires once when a run ends in a terminal failure.
type FailedEvent struct {
	Attempt   int
	Err       error
	History   []Attempt
	Timestamp time.Time
	Snapshot  Snapshot
}

// Observer consumes lifecycle events. Implementations must tolerate
// concurrent calls from independent runs; events of a single run arrive in
// order.
type Observer interface {
	OnRetrying(e RetryingEvent)
	OnSucceeded(e SucceededEvent)
	OnFailed(e FailedEvent)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnRetrying(RetryingEvent)   {}
func (NoopObserver) OnSucceeded(SucceededEvent) {}
func (NoopObserver) OnFailed(FailedEvent)       {}
