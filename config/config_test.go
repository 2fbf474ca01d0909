package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kbukum/retrykit/circuit"
)

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.MaxRetries != 3 {
		t.Errorf("expected 3 retries, got %d", cfg.MaxRetries)
	}
	if cfg.AttemptTimeout != 30*time.Second {
		t.Errorf("expected 30s attempt timeout, got %s", cfg.AttemptTimeout)
	}
	if cfg.BaseDelay != 100*time.Millisecond {
		t.Errorf("expected 100ms base delay, got %s", cfg.BaseDelay)
	}
	if cfg.Strategy != "exponential-backoff" {
		t.Errorf("expected exponential-backoff, got %q", cfg.Strategy)
	}
	if cfg.CircuitBreaker.FailureThreshold != 5 || cfg.CircuitBreaker.ResetTimeout != 30*time.Second {
		t.Errorf("unexpected breaker defaults: %+v", cfg.CircuitBreaker)
	}
	if cfg.CircuitBreaker.FailurePolicy != "open" {
		t.Errorf("expected fail-open default, got %q", cfg.CircuitBreaker.FailurePolicy)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging defaults applied, got %+v", cfg.Logging)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		var cfg Config
		cfg.ApplyDefaults()
		return cfg
	}

	t.Run("defaults pass", func(t *testing.T) {
		cfg := valid()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected valid, got %v", err)
		}
	})

	t.Run("bad jitter mode", func(t *testing.T) {
		cfg := valid()
		cfg.Jitter = "gaussian"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for unknown jitter mode")
		}
	})

	t.Run("negative retries", func(t *testing.T) {
		cfg := valid()
		cfg.MaxRetries = -1
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for negative retries")
		}
	})

	t.Run("base delay above cap", func(t *testing.T) {
		cfg := valid()
		cfg.BaseDelay = time.Second
		cfg.MaxDelay = 500 * time.Millisecond
		if err := cfg.Validate(); err == nil {
			t.Error("expected error when base_delay exceeds max_delay")
		}
	})

	t.Run("bad failure policy", func(t *testing.T) {
		cfg := valid()
		cfg.CircuitBreaker.FailurePolicy = "maybe"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for unknown failure policy")
		}
	})
}

func TestLoad_FromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yaml := `
max_retries: 7
base_delay: 250ms
strategy: linear-backoff
circuit_breaker:
  enabled: true
  failure_threshold: 2
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	var cfg Config
	if err := Load("retrykit-test", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.MaxRetries != 7 {
		t.Errorf("expected 7 retries, got %d", cfg.MaxRetries)
	}
	if cfg.BaseDelay != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %s", cfg.BaseDelay)
	}
	if cfg.Strategy != "linear-backoff" {
		t.Errorf("expected linear-backoff, got %q", cfg.Strategy)
	}
	if !cfg.CircuitBreaker.Enabled || cfg.CircuitBreaker.FailureThreshold != 2 {
		t.Errorf("unexpected breaker config: %+v", cfg.CircuitBreaker)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("max_retries: 2\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	t.Setenv("RETRY_MAX_RETRIES", "9")
	t.Setenv("RETRY_CIRCUIT_BREAKER_ENABLED", "true")

	var cfg Config
	if err := Load("retrykit-test", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.MaxRetries != 9 {
		t.Errorf("expected env override 9, got %d", cfg.MaxRetries)
	}
	if !cfg.CircuitBreaker.Enabled {
		t.Error("expected nested env key to reach circuit_breaker.enabled")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("RETRY_STRATEGY=fixed-delay\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	var cfg Config
	if err := Load("retrykit-test", &cfg, WithEnvFile(envPath)); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Strategy != "fixed-delay" {
		t.Errorf("expected fixed-delay from .env, got %q", cfg.Strategy)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("CIRCUIT_BREAKER_RESET_TIMEOUT")
	have := map[string]bool{}
	for _, v := range got {
		have[v] = true
	}

	for _, want := range []string{
		"circuit_breaker_reset_timeout",
		"circuit.breaker.reset.timeout",
		"circuit_breaker.reset_timeout",
		"circuit.breaker_reset_timeout",
	} {
		if !have[want] {
			t.Errorf("expected variant %q in %v", want, got)
		}
	}
	if len(got) != 8 {
		t.Errorf("expected every boundary combination (8), got %d: %v", len(got), got)
	}

	single := envKeyVariants("DEBUG")
	if len(single) != 1 || single[0] != "debug" {
		t.Errorf("unexpected variants for single word: %v", single)
	}
}

func TestBuilder_UnknownAliasFallsBack(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	cfg.Strategy = "quantum-backoff"
	cfg.Logging.Output = "stderr"

	e := NewBuilder(cfg).Executor()
	if e == nil {
		t.Fatal("expected executor despite unknown alias")
	}
}

func TestBuilder_SharedBreakerPerService(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	cfg.CircuitBreaker.Enabled = true
	cfg.CircuitBreaker.Services = map[string]ServiceBreakerConfig{
		"payments": {FailureThreshold: 1},
	}

	b := NewBuilder(cfg)
	b.ExecutorFor("payments")
	b.ExecutorFor("payments")

	keys := b.Breakers().Keys()
	if len(keys) != 1 || keys[0] != "payments" {
		t.Fatalf("expected one shared breaker, got %v", keys)
	}

	// The per-service threshold override applies: one failure trips it.
	br := b.Breakers().Get("payments")
	br.RecordFailure()
	if br.State() != circuit.StateOpen {
		t.Errorf("expected override threshold 1 to open breaker, got %s", br.State())
	}
}
