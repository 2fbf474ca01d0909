// Package errors provides the structured error type used across retrykit.
//
// An Error carries a machine-readable code, a retryable flag, and optional
// transport hints (HTTP status, Retry-After) that backoff strategies and the
// classifier can read off the cause chain.
package errors
