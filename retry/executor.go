package retry

import (
	"context"
	"errors"
	"time"

	"github.com/kbukum/retrykit/classify"
	"github.com/kbukum/retrykit/logger"
	"github.com/kbukum/retrykit/observe"
	"github.com/kbukum/retrykit/strategy"
)

// ExecutorConfig configures an Executor. Zero values get defaults applied
// at construction.
type ExecutorConfig struct {
	// MaxRetries is the retry budget: zero means exactly one attempt.
	MaxRetries int
	// BaseDelay is the base wait handed to the backoff strategy.
	BaseDelay time.Duration
	// AttemptTimeout bounds each individual attempt, not the whole run.
	AttemptTimeout time.Duration
	// Strategy computes delays and governs continuation.
	Strategy strategy.Strategy
	// Classifier decides retryability. Defaults to the built-in handlers.
	Classifier *classify.Registry
	// RetryIf is the custom retry predicate, conclusive in both directions.
	RetryIf Predicate
	// Observers receive lifecycle notifications.
	Observers []observe.Observer
	// DisableNotifications suppresses all lifecycle dispatch.
	DisableNotifications bool
	// Logger overrides the component logger.
	Logger *logger.Logger
}

// DefaultExecutorConfig returns the stock configuration: three retries,
// 100ms base delay, 30s per-attempt timeout, exponential backoff.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		MaxRetries:     3,
		BaseDelay:      100 * time.Millisecond,
		AttemptTimeout: 30 * time.Second,
		Strategy:       strategy.NewExponentialBackoff(),
	}
}

// Executor orchestrates retry runs. It is safe for concurrent use; each Run
// owns its Context and Result exclusively.
type Executor struct {
	cfg        ExecutorConfig
	classifier *classify.Registry
	dispatcher *observe.Dispatcher
	log        *logger.Logger
	metadata   map[string]any

	nowFn func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewExecutor creates an Executor, applying defaults for unset fields.
func NewExecutor(cfg ExecutorConfig) *Executor {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 100 * time.Millisecond
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 30 * time.Second
	}
	if cfg.Strategy == nil {
		cfg.Strategy = strategy.NewExponentialBackoff()
	}

	classifier := cfg.Classifier
	if classifier == nil {
		classifier = classify.NewRegistry()
		// Per-attempt deadline expiry is transient by default.
		_ = classifier.Register(classify.TimeoutHandler())
	}

	dispatcher := observe.NewDispatcher(cfg.Observers...)
	dispatcher.SetEnabled(!cfg.DisableNotifications)

	log := cfg.Logger
	if log == nil {
		log = logger.Get("executor")
	}

	return &Executor{
		cfg:        cfg,
		classifier: classifier,
		dispatcher: dispatcher,
		log:        log,
		nowFn:      time.Now,
		sleep:      sleepContext,
	}
}

// WithMetadata returns a copy of the executor whose future runs seed the
// given metadata entry on their contexts. The receiver is unchanged.
func (e *Executor) WithMetadata(key string, value any) *Executor {
	next := *e
	next.metadata = make(map[string]any, len(e.metadata)+1)
	for k, v := range e.metadata {
		next.metadata[k] = v
	}
	next.metadata[key] = value
	return &next
}

// Classifier exposes the executor's classification registry so callers can
// register additional handlers before concurrent use begins.
func (e *Executor) Classifier() *classify.Registry { return e.classifier }

// Observers exposes the dispatcher for late observer registration.
func (e *Executor) Observers() *observe.Dispatcher { return e.dispatcher }

// Run executes op, retrying per the executor's configuration, and wraps the
// outcome in a Result. Attempts are strictly sequential; the wait between
// attempts suspends only this call and aborts on context cancellation.
func (e *Executor) Run(ctx context.Context, op Operation, opts ...RunOption) *Result {
	rc := e.newRunConfig(opts)
	c := newContext(rc.maxRetries, e.nowFn())
	for k, v := range e.metadata {
		c.SetMetadata(k, v)
	}
	for k, v := range rc.metadata {
		c.SetMetadata(k, v)
	}

	strat := rc.strat
	var lastErr error

	for attempt := 0; attempt <= rc.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return e.fail(c, attempt, err, strat)
		}
		if gate, ok := strat.(strategy.Gate); ok {
			if err := gate.Allow(); err != nil {
				return e.fail(c, attempt, err, strat)
			}
		}

		start := e.nowFn()
		value, err := e.invoke(ctx, op, rc.attemptTimeout)
		duration := e.nowFn().Sub(start)

		if rec, ok := strat.(strategy.Recorder); ok {
			if err == nil {
				rec.RecordSuccess()
			} else {
				rec.RecordFailure()
			}
		}

		if err == nil {
			c.recordSuccess(duration)
			c.finalize(e.nowFn())
			e.dispatcher.Succeeded(observe.SucceededEvent{
				Attempt:   attempt,
				Result:    value,
				TotalTime: c.Metrics.TotalDuration,
				Timestamp: e.nowFn(),
				Snapshot:  c.snapshot(attempt, strat.Name()),
			})
			return successResult(value, c)
		}

		lastErr = err
		elapsed := e.nowFn().Sub(c.StartTime)
		retryable := e.isRetryable(err, rc, c, attempt)
		canRetry := retryable &&
			attempt < rc.maxRetries &&
			strat.ShouldRetry(attempt, rc.maxRetries, elapsed, err)

		var delay time.Duration
		if canRetry {
			delay = e.delayFor(strat, err, attempt, rc.baseDelay)
		}

		c.recordFailure(attempt, err, retryable, delay, duration, e.nowFn())

		if !canRetry {
			return e.fail(c, attempt, err, strat)
		}

		e.dispatcher.Retrying(observe.RetryingEvent{
			Attempt:    attempt + 1,
			MaxRetries: rc.maxRetries,
			Delay:      delay,
			Err:        err,
			Timestamp:  e.nowFn(),
			Snapshot:   c.snapshot(attempt+1, strat.Name()),
		})

		// A non-positive delay skips the wait entirely, which keeps
		// zero-delay test runs deterministic.
		if delay > 0 {
			if serr := e.sleep(ctx, delay); serr != nil {
				return e.fail(c, attempt, serr, strat)
			}
		}
		c.TotalAttempts++
	}

	// Unreachable when the loop logic is sound; kept as a hard backstop.
	return e.fail(c, rc.maxRetries, lastErr, strat)
}

// RunTask executes a Task, honoring per-work-item overrides when the task
// implements Overridable.
func (e *Executor) RunTask(ctx context.Context, t Task, opts ...RunOption) *Result {
	if o, ok := t.(Overridable); ok {
		opts = append(overrideOptions(o.RetryOverrides()), opts...)
	}
	return e.Run(ctx, t.Execute, opts...)
}

// Do runs op through e and returns a typed value, surfacing the terminal
// error directly instead of a Result.
func Do[T any](ctx context.Context, e *Executor, op func(ctx context.Context) (T, error), opts ...RunOption) (T, error) {
	res := e.Run(ctx, func(ctx context.Context) (any, error) {
		return op(ctx)
	}, opts...)

	var zero T
	v, err := res.Value()
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	return v.(T), nil
}

func (e *Executor) newRunConfig(opts []RunOption) runConfig {
	rc := runConfig{
		maxRetries:     e.cfg.MaxRetries,
		baseDelay:      e.cfg.BaseDelay,
		attemptTimeout: e.cfg.AttemptTimeout,
		strat:          e.cfg.Strategy,
		retryIf:        e.cfg.RetryIf,
	}
	for _, opt := range opts {
		opt(&rc)
	}
	return rc
}

func overrideOptions(o Overrides) []RunOption {
	var opts []RunOption
	if o.MaxRetries != nil {
		opts = append(opts, WithMaxRetries(*o.MaxRetries))
	}
	if o.AttemptTimeout != nil {
		opts = append(opts, WithAttemptTimeout(*o.AttemptTimeout))
	}
	if o.BaseDelay != nil {
		d := *o.BaseDelay
		opts = append(opts, func(rc *runConfig) {
			if d > 0 {
				rc.baseDelay = d
			}
		})
	}
	if o.Strategy != nil {
		opts = append(opts, WithStrategy(o.Strategy))
	}
	if len(o.ExtraPatterns) > 0 {
		opts = append(opts, WithPatterns(o.ExtraPatterns...))
	}
	if len(o.ExtraTypes) > 0 {
		opts = append(opts, WithErrorTypes(o.ExtraTypes...))
	}
	return opts
}

// invoke runs one attempt under the per-attempt timeout.
func (e *Executor) invoke(ctx context.Context, op Operation, timeout time.Duration) (any, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return op(ctx)
}

// isRetryable decides retryability: a custom predicate, when present,
// decides alone; otherwise cancellation is terminal and the classifier walks
// the cause chain.
func (e *Executor) isRetryable(err error, rc runConfig, c *Context, attempt int) bool {
	if rc.retryIf != nil {
		return rc.retryIf(err, PredicateInfo{
			Attempt:           attempt,
			MaxRetries:        rc.maxRetries,
			RemainingAttempts: rc.maxRetries - attempt,
			History:           c.History(),
		})
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return e.classifier.Retryable(err, rc.extraPatterns, rc.extraTypes)
}

// delayFor picks the backoff wait, preferring error-aware strategies and
// clamping negative values to zero.
func (e *Executor) delayFor(strat strategy.Strategy, err error, attempt int, base time.Duration) time.Duration {
	var d time.Duration
	if ea, ok := strat.(strategy.ErrorAware); ok {
		d = ea.DelayFor(err, attempt, base)
	} else {
		d = strat.Delay(attempt, base)
	}
	if d < 0 {
		d = 0
	}
	return d
}

func (e *Executor) fail(c *Context, attempt int, err error, strat strategy.Strategy) *Result {
	c.finalize(e.nowFn())
	e.dispatcher.Failed(observe.FailedEvent{
		Attempt:   attempt,
		Err:       err,
		History:   c.History(),
		Timestamp: e.nowFn(),
		Snapshot:  c.snapshot(attempt, strat.Name()),
	})
	e.log.Debug("run failed", logger.Fields(
		logger.FieldOperationID, c.OperationID,
		logger.FieldAttempt, attempt,
		logger.FieldError, errText(err),
	))
	return failureResult(err, c)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// sleepContext waits for d, aborting early when ctx is cancelled. It
// suspends only the calling goroutine.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
