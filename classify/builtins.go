package classify

import (
	"context"
	"errors"

	rkerrors "github.com/kbukum/retrykit/errors"
)

// DefaultPatterns covers the common transient-error signatures. All patterns
// are matched case-insensitively against each message in the cause chain.
var DefaultPatterns = []string{
	`rate limit`,
	`too many requests`,
	`timed? ?out`,
	`timeout`,
	`server error`,
	`connection refused`,
	`temporarily unavailable`,
	`service unavailable`,
}

// DefaultHandler returns the built-in handler: the default transient
// patterns plus retrykit's own structured error type, whose Retryable flag
// is authoritative.
func DefaultHandler() Handler {
	return FuncHandler{
		Name:        "transient-defaults",
		PatternList: DefaultPatterns,
		TypeList: []ErrorType{
			{
				Name: "retrykit-error",
				Matches: func(err error) bool {
					e, ok := err.(*rkerrors.Error)
					return ok && e.Retryable
				},
			},
		},
	}
}

// TimeoutHandler classifies per-attempt deadline expiry as retryable.
// Parent-context cancellation stays terminal and is handled by the executor.
func TimeoutHandler() Handler {
	return FuncHandler{
		Name: "deadline",
		TypeList: []ErrorType{
			{
				Name: "context-deadline",
				Matches: func(err error) bool {
					return errors.Is(err, context.DeadlineExceeded)
				},
			},
		},
	}
}
