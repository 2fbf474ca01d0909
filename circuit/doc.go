// Package circuit implements the circuit breaker state machine used by the
// circuit-breaker retry strategy.
//
// A Breaker opens after a threshold of consecutive failures, refuses calls
// while open, and after a reset timeout admits a single half-open probe whose
// outcome decides between closing again and re-opening. Breakers are keyed so
// concurrent callers against the same logical dependency share one state,
// optionally mirrored into a shared Store.
package circuit
