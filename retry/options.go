package retry

import (
	"context"
	"time"

	"github.com/kbukum/retrykit/classify"
	"github.com/kbukum/retrykit/observe"
	"github.com/kbukum/retrykit/strategy"
)

// Operation is the zero-argument unit of work being retried. The engine
// never inspects arguments, only the error channel.
type Operation func(ctx context.Context) (any, error)

// PredicateInfo is the run state handed to a custom retry predicate.
type PredicateInfo struct {
	Attempt           int
	MaxRetries        int
	RemainingAttempts int
	History           []observe.Attempt
}

// Predicate is a custom retryability decision. When set it is conclusive in
// both directions: false vetoes a retry even if patterns or types match,
// true marks the error retryable without consulting them.
type Predicate func(err error, info PredicateInfo) bool

// runConfig is the effective per-run configuration after merging executor
// defaults, task overrides and run options.
type runConfig struct {
	maxRetries     int
	baseDelay      time.Duration
	attemptTimeout time.Duration
	strat          strategy.Strategy
	retryIf        Predicate
	extraPatterns  []string
	extraTypes     []classify.ErrorType
	metadata       map[string]any
}

// RunOption customizes a single Run invocation.
type RunOption func(*runConfig)

// WithPatterns adds retryable message patterns for this run only.
func WithPatterns(patterns ...string) RunOption {
	return func(rc *runConfig) {
		rc.extraPatterns = append(rc.extraPatterns, patterns...)
	}
}

// WithErrorTypes adds retryable error types for this run only.
func WithErrorTypes(types ...classify.ErrorType) RunOption {
	return func(rc *runConfig) {
		rc.extraTypes = append(rc.extraTypes, types...)
	}
}

// WithRunMetadata seeds a metadata entry on the run's context.
func WithRunMetadata(key string, value any) RunOption {
	return func(rc *runConfig) {
		if rc.metadata == nil {
			rc.metadata = make(map[string]any)
		}
		rc.metadata[key] = value
	}
}

// WithMaxRetries overrides the retry budget for this run.
func WithMaxRetries(n int) RunOption {
	return func(rc *runConfig) {
		if n >= 0 {
			rc.maxRetries = n
		}
	}
}

// WithStrategy overrides the backoff strategy for this run.
func WithStrategy(s strategy.Strategy) RunOption {
	return func(rc *runConfig) {
		if s != nil {
			rc.strat = s
		}
	}
}

// WithAttemptTimeout overrides the per-attempt timeout for this run.
func WithAttemptTimeout(d time.Duration) RunOption {
	return func(rc *runConfig) {
		rc.attemptTimeout = d
	}
}

// WithRetryIf sets the custom retry predicate for this run.
func WithRetryIf(p Predicate) RunOption {
	return func(rc *runConfig) {
		rc.retryIf = p
	}
}

// WithRetryUnless sets an inverted predicate: the error is retryable unless
// p returns true.
func WithRetryUnless(p Predicate) RunOption {
	return func(rc *runConfig) {
		rc.retryIf = func(err error, info PredicateInfo) bool {
			return !p(err, info)
		}
	}
}

// Task is a unit of work with its own identity, used with RunTask.
type Task interface {
	Execute(ctx context.Context) (any, error)
}

// Overrides are the per-work-item settings a Task may supply. Nil fields
// keep the executor defaults.
type Overrides struct {
	MaxRetries     *int
	BaseDelay      *time.Duration
	AttemptTimeout *time.Duration
	Strategy       strategy.Strategy
	ExtraPatterns  []string
	ExtraTypes     []classify.ErrorType
}

// Overridable is the capability interface a Task implements to customize
// retry behavior without subclassing the executor.
type Overridable interface {
	RetryOverrides() Overrides
}
