package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/retrykit/logger"
)

// Config is the declarative configuration for a retry executor. Embed it in
// a service config struct and pass it to BuildExecutor after loading.
type Config struct {
	// MaxRetries is the retry budget. Zero means a single attempt.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0"`
	// AttemptTimeout bounds each individual attempt.
	AttemptTimeout time.Duration `yaml:"attempt_timeout" mapstructure:"attempt_timeout" validate:"gte=0"`
	// BaseDelay is the base wait handed to the backoff strategy.
	BaseDelay time.Duration `yaml:"base_delay" mapstructure:"base_delay" validate:"gte=0"`
	// MaxDelay caps computed delays. Zero means uncapped.
	MaxDelay time.Duration `yaml:"max_delay" mapstructure:"max_delay" validate:"gte=0"`
	// Strategy is the backoff strategy alias. Unknown aliases fall back to
	// exponential backoff with a logged warning.
	Strategy string `yaml:"strategy" mapstructure:"strategy"`
	// Jitter selects the jitter mode for exponential backoff.
	Jitter string `yaml:"jitter" mapstructure:"jitter" validate:"omitempty,oneof=none full equal"`
	// TotalTimeout, when positive, bounds the cumulative run duration.
	TotalTimeout time.Duration `yaml:"total_timeout" mapstructure:"total_timeout" validate:"gte=0"`
	// DisableNotifications suppresses lifecycle event dispatch.
	DisableNotifications bool `yaml:"disable_notifications" mapstructure:"disable_notifications"`
	// Logging configures the engine's structured logger.
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
	// CircuitBreaker configures the optional breaker wrapping.
	CircuitBreaker BreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
}

// BreakerConfig configures circuit breaking for the executor.
type BreakerConfig struct {
	// Enabled turns breaker wrapping on.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// FailureThreshold is the consecutive-failure count that opens the breaker.
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold" validate:"gte=0"`
	// ResetTimeout is how long the breaker stays open before probing.
	ResetTimeout time.Duration `yaml:"reset_timeout" mapstructure:"reset_timeout" validate:"gte=0"`
	// FailurePolicy is "open" or "closed" and applies when shared breaker
	// state is unreachable.
	FailurePolicy string `yaml:"failure_policy" mapstructure:"failure_policy" validate:"omitempty,oneof=open closed"`
	// Services overrides thresholds per breaker key.
	Services map[string]ServiceBreakerConfig `yaml:"services" mapstructure:"services"`
}

// ServiceBreakerConfig overrides breaker settings for one service key. Zero
// fields inherit the parent BreakerConfig.
type ServiceBreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold" mapstructure:"failure_threshold" validate:"gte=0"`
	ResetTimeout     time.Duration `yaml:"reset_timeout" mapstructure:"reset_timeout" validate:"gte=0"`
}

// ApplyDefaults applies default values to unset fields.
func (c *Config) ApplyDefaults() {
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.AttemptTimeout == 0 {
		c.AttemptTimeout = 30 * time.Second
	}
	if c.BaseDelay == 0 {
		c.BaseDelay = 100 * time.Millisecond
	}
	if c.Strategy == "" {
		c.Strategy = "exponential-backoff"
	}
	if c.CircuitBreaker.FailureThreshold == 0 {
		c.CircuitBreaker.FailureThreshold = 5
	}
	if c.CircuitBreaker.ResetTimeout == 0 {
		c.CircuitBreaker.ResetTimeout = 30 * time.Second
	}
	if c.CircuitBreaker.FailurePolicy == "" {
		c.CircuitBreaker.FailurePolicy = "open"
	}
	c.Logging.ApplyDefaults()
}

var validate = validator.New()

// Validate checks field constraints and cross-field consistency.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("retry config: %w", err)
	}
	if c.MaxDelay > 0 && c.BaseDelay > c.MaxDelay {
		return fmt.Errorf("retry config: base_delay %s exceeds max_delay %s", c.BaseDelay, c.MaxDelay)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("retry config: %w", err)
	}
	return nil
}
