package config

import (
	"github.com/kbukum/retrykit/circuit"
	"github.com/kbukum/retrykit/logger"
	"github.com/kbukum/retrykit/observe"
	"github.com/kbukum/retrykit/retry"
	"github.com/kbukum/retrykit/strategy"
)

// Builder turns a validated Config into executors. It owns a shared breaker
// registry so executors built for the same service key share breaker state.
type Builder struct {
	cfg      Config
	breakers *circuit.Registry
	log      *logger.Logger
}

// NewBuilder creates a Builder. Call cfg.ApplyDefaults and cfg.Validate
// before constructing executors.
func NewBuilder(cfg Config) *Builder {
	return &Builder{
		cfg:      cfg,
		breakers: circuit.NewRegistry(cfg.breakerDefaults()),
		log:      logger.Get("config"),
	}
}

// Executor builds an executor with no breaker key, suitable for callers that
// retry a single dependency.
func (b *Builder) Executor(observers ...observe.Observer) *retry.Executor {
	return b.build("", observers)
}

// ExecutorFor builds an executor whose breaker is keyed by service, applying
// any per-service threshold overrides.
func (b *Builder) ExecutorFor(service string, observers ...observe.Observer) *retry.Executor {
	return b.build(service, observers)
}

// Breakers exposes the shared breaker registry for inspection.
func (b *Builder) Breakers() *circuit.Registry { return b.breakers }

func (b *Builder) build(service string, observers []observe.Observer) *retry.Executor {
	strat := b.strategyFor(service)
	return retry.NewExecutor(retry.ExecutorConfig{
		MaxRetries:           b.cfg.MaxRetries,
		BaseDelay:            b.cfg.BaseDelay,
		AttemptTimeout:       b.cfg.AttemptTimeout,
		Strategy:             strat,
		Observers:            observers,
		DisableNotifications: b.cfg.DisableNotifications,
	})
}

// strategyFor resolves the configured alias, falling back to exponential
// backoff on unknown aliases so a config typo degrades instead of failing
// the host at startup.
func (b *Builder) strategyFor(service string) strategy.Strategy {
	opts := strategy.Options{
		MaxDelay:     b.cfg.MaxDelay,
		Jitter:       jitterMode(b.cfg.Jitter),
		TotalTimeout: b.cfg.TotalTimeout,
	}

	strat, err := strategy.New(b.cfg.Strategy, opts)
	if err != nil {
		b.log.Warn("unknown strategy alias, using exponential backoff", logger.Fields(
			logger.FieldStrategy, b.cfg.Strategy,
			logger.FieldError, err.Error(),
		))
		strat = &strategy.ExponentialBackoff{MaxDelay: b.cfg.MaxDelay, Jitter: opts.Jitter}
	}

	if b.cfg.TotalTimeout > 0 && b.cfg.Strategy != "total-timeout" {
		strat = strategy.NewTotalTimeout(b.cfg.TotalTimeout, strat)
	}

	if b.cfg.CircuitBreaker.Enabled && service != "" {
		br := b.breakers.GetWith(service, b.breakerConfigFor(service))
		strat = strategy.NewCircuitBreaker(br, strat)
	}
	return strat
}

func (c Config) breakerDefaults() circuit.Config {
	return circuit.Config{
		FailureThreshold: c.CircuitBreaker.FailureThreshold,
		ResetTimeout:     c.CircuitBreaker.ResetTimeout,
		FailurePolicy:    failurePolicy(c.CircuitBreaker.FailurePolicy),
	}
}

func (b *Builder) breakerConfigFor(service string) circuit.Config {
	cfg := b.cfg.breakerDefaults()
	if override, ok := b.cfg.CircuitBreaker.Services[service]; ok {
		if override.FailureThreshold > 0 {
			cfg.FailureThreshold = override.FailureThreshold
		}
		if override.ResetTimeout > 0 {
			cfg.ResetTimeout = override.ResetTimeout
		}
	}
	return cfg
}

func jitterMode(s string) strategy.JitterMode {
	switch s {
	case "full":
		return strategy.JitterFull
	case "equal":
		return strategy.JitterEqual
	default:
		return strategy.JitterNone
	}
}

func failurePolicy(s string) circuit.FailurePolicy {
	if s == "closed" {
		return circuit.FailClosed
	}
	return circuit.FailOpen
}
