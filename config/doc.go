// Package config provides the configuration surface for the retry engine:
// a typed Config with defaults and validation, a viper/godotenv loader that
// resolves config.yml and .env files from standard locations, and a builder
// that turns a Config into a ready retry.Executor.
package config
