// Package strategy provides backoff strategies for the retry executor.
//
// A Strategy maps an attempt number to a wait duration and decides whether
// retrying should continue. Variants cover exponential, linear, fixed,
// fibonacci and decorrelated-jitter backoff, total-timeout and
// response-content wrappers, caller-supplied custom options, and a
// circuit-breaker decorator. Strategies are looked up by stable kebab-case
// aliases through the package registry.
package strategy
