package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/retrykit/logger"
)

// FileSystem abstracts file probing and .env loading so loader behavior can
// be tested without touching the real filesystem.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderOption customizes a Load call.
type LoaderOption func(*loaderConfig)

type loaderConfig struct {
	fs         FileSystem
	configFile string
	envFile    string
}

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *loaderConfig) { lc.fs = fs }
}

// WithConfigFile sets an explicit config file path, skipping the search.
func WithConfigFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.configFile = path }
}

// WithEnvFile sets an explicit .env file path, skipping the search.
func WithEnvFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.envFile = path }
}

// Load populates cfg for the named application. It searches standard
// locations for config.yml and .env when no explicit paths are given, binds
// environment variables (RETRY_BASE_DELAY maps onto base_delay and nested
// keys), and unmarshals the merged result into cfg.
func Load(name string, cfg any, opts ...LoaderOption) error {
	lc := loaderConfig{fs: RealFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}

	if lc.configFile == "" {
		lc.configFile = findFirst(lc.fs, configSearchPaths(name))
	}
	if lc.envFile == "" {
		lc.envFile = findFirst(lc.fs, envSearchPaths(name))
	}

	v := viper.New()
	log := logger.Get("config")

	if lc.configFile != "" && lc.fs.Exists(lc.configFile) {
		v.SetConfigFile(lc.configFile)
		if err := v.ReadInConfig(); err != nil {
			log.Warn("config file unreadable", logger.Fields("path", lc.configFile, logger.FieldError, err.Error()))
		}
	}

	// .env values land in the process environment first so the same binding
	// pass covers both sources.
	if lc.envFile != "" && lc.fs.Exists(lc.envFile) {
		if err := lc.fs.LoadEnv(lc.envFile); err != nil {
			log.Warn("env file unreadable", logger.Fields("path", lc.envFile, logger.FieldError, err.Error()))
		}
	}
	v.AutomaticEnv()
	bindEnvVars(v)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal for %s: %w", name, err)
	}
	return nil
}

func findFirst(fs FileSystem, paths []string) string {
	for _, p := range paths {
		if fs.Exists(p) {
			return p
		}
	}
	return ""
}

func configSearchPaths(name string) []string {
	return []string{
		fmt.Sprintf("./cmd/%s/config.yml", name),
		fmt.Sprintf("../cmd/%s/config.yml", name),
		"./config/config.yml",
		"../config/config.yml",
		"./config.yml",
	}
}

func envSearchPaths(name string) []string {
	return []string{
		fmt.Sprintf(".env.%s", name),
		fmt.Sprintf("./cmd/%s/.env", name),
		"./config/.env",
		".env",
		"../.env",
	}
}

// bindEnvVars maps UPPER_SNAKE environment variables onto viper keys in every
// plausible nesting, so RETRY_CIRCUIT_BREAKER_RESET_TIMEOUT reaches
// circuit_breaker.reset_timeout without explicit per-key binding.
func bindEnvVars(v *viper.Viper) {
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		key = strings.TrimPrefix(key, "RETRY_")
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// envKeyVariants generates the candidate viper keys for one env var. Each
// underscore in the name is either part of a snake_case key or a nesting
// boundary, so every combination is produced: CIRCUIT_BREAKER_ENABLED yields
// circuit_breaker_enabled, circuit_breaker.enabled, circuit.breaker_enabled
// and circuit.breaker.enabled.
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	n := len(parts)
	if n <= 1 {
		return []string{lower}
	}
	// Very long names get the two common shapes only.
	if n > 9 {
		return []string{lower, strings.ReplaceAll(lower, "_", ".")}
	}

	out := make([]string, 0, 1<<(n-1))
	for mask := 0; mask < 1<<(n-1); mask++ {
		var b strings.Builder
		b.WriteString(parts[0])
		for i := 1; i < n; i++ {
			if mask&(1<<(i-1)) != 0 {
				b.WriteByte('.')
			} else {
				b.WriteByte('_')
			}
			b.WriteString(parts[i])
		}
		out = append(out, b.String())
	}
	return out
}
