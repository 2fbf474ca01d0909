package strategy

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kbukum/retrykit/circuit"
)

// Options carries the construction parameters a Factory may use. Unused
// fields are ignored by factories that do not need them.
type Options struct {
	// MaxDelay caps computed delays for strategies that support capping.
	MaxDelay time.Duration
	// Jitter selects the jitter mode for exponential backoff.
	Jitter JitterMode
	// TotalTimeout is the cumulative ceiling for the total-timeout strategy.
	TotalTimeout time.Duration
	// Inner is the wrapped strategy for decorator strategies.
	Inner Strategy
	// Breaker backs the circuit-breaker strategy.
	Breaker *circuit.Breaker
	// DelayFunc and RetryFunc configure the custom-options strategy.
	DelayFunc func(attempt int, base time.Duration) time.Duration
	RetryFunc func(attempt, maxRetries int, lastErr error) bool
}

// Factory builds a Strategy from Options. Invalid configuration fails fast
// with a descriptive error.
type Factory func(opts Options) (Strategy, error)

// Registry maps stable kebab-case aliases to strategy factories, replacing
// reflection-driven instantiation with a compile-time table.
type Registry struct {
	mu sync.RWMutex
	m  map[string]Factory
}

// NewRegistry creates a registry seeded with all built-in strategies.
func NewRegistry() *Registry {
	r := &Registry{m: make(map[string]Factory)}
	for alias, f := range builtinFactories {
		r.m[alias] = f
	}
	return r
}

// Register associates alias with f. Registering an existing alias is an
// error; replacement must be explicit via Deregister.
func (r *Registry) Register(alias string, f Factory) error {
	if alias == "" || f == nil {
		return fmt.Errorf("strategy: alias and factory are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.m[alias]; exists {
		return fmt.Errorf("strategy: alias %q already registered", alias)
	}
	r.m[alias] = f
	return nil
}

// Deregister removes an alias.
func (r *Registry) Deregister(alias string) {
	r.mu.Lock()
	delete(r.m, alias)
	r.mu.Unlock()
}

// New instantiates the strategy registered under alias. Unknown aliases fail
// fast with a configuration error.
func (r *Registry) New(alias string, opts Options) (Strategy, error) {
	r.mu.RLock()
	f, ok := r.m[alias]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("strategy: unknown alias %q (known: %v)", alias, r.Aliases())
	}
	return f(opts)
}

// Aliases enumerates all registered aliases, sorted.
func (r *Registry) Aliases() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.m))
	for alias := range r.m {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

var builtinFactories = map[string]Factory{
	"exponential-backoff": func(opts Options) (Strategy, error) {
		return &ExponentialBackoff{MaxDelay: opts.MaxDelay, Jitter: opts.Jitter}, nil
	},
	"linear-backoff": func(opts Options) (Strategy, error) {
		return &LinearBackoff{MaxDelay: opts.MaxDelay}, nil
	},
	"fixed-delay": func(Options) (Strategy, error) {
		return NewFixedDelay(), nil
	},
	"fibonacci-backoff": func(opts Options) (Strategy, error) {
		return &FibonacciBackoff{MaxDelay: opts.MaxDelay}, nil
	},
	"decorrelated-jitter": func(opts Options) (Strategy, error) {
		return NewDecorrelatedJitter(opts.MaxDelay), nil
	},
	"total-timeout": func(opts Options) (Strategy, error) {
		if opts.TotalTimeout <= 0 {
			return nil, fmt.Errorf("strategy: total-timeout requires a positive ceiling")
		}
		return NewTotalTimeout(opts.TotalTimeout, opts.Inner), nil
	},
	"response-content": func(opts Options) (Strategy, error) {
		s := NewResponseContent(opts.Inner)
		s.MaxDelay = opts.MaxDelay
		return s, nil
	},
	"custom-options": func(opts Options) (Strategy, error) {
		if opts.DelayFunc == nil && opts.RetryFunc == nil {
			return nil, fmt.Errorf("strategy: custom-options requires a delay function or retry predicate")
		}
		return NewCustomOptions(opts.DelayFunc, opts.RetryFunc), nil
	},
	"circuit-breaker": func(opts Options) (Strategy, error) {
		if opts.Breaker == nil {
			return nil, fmt.Errorf("strategy: circuit-breaker requires a breaker")
		}
		return NewCircuitBreaker(opts.Breaker, opts.Inner), nil
	},
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the shared package-level registry.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// New instantiates a strategy from the default registry.
func New(alias string, opts Options) (Strategy, error) {
	return Default().New(alias, opts)
}

// Aliases enumerates the default registry.
func Aliases() []string {
	return Default().Aliases()
}
