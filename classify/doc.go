// Package classify decides whether an error is retryable.
//
// Classification rules are bundled into Handlers: ordered regex patterns
// matched against error messages plus concrete error-type matchers, optionally
// gated by an applicability check. A Registry merges all applicable handlers
// with the built-in transient-error defaults and walks an error's cause chain
// to produce a verdict.
package classify
