// Package retry provides the retry execution engine.
//
// An Executor runs an operation, classifies failures as retryable or
// terminal, applies a backoff strategy between attempts, records a full
// per-attempt history, and emits lifecycle notifications. Outcomes are
// wrapped in an immutable Result supporting fluent Then/Catch/Finally
// handling.
//
// # Usage
//
//	exec := retry.NewExecutor(retry.ExecutorConfig{
//	    MaxRetries: 3,
//	    BaseDelay:  100 * time.Millisecond,
//	    Strategy:   strategy.NewExponentialBackoff(),
//	})
//
//	res := exec.Run(ctx, func(ctx context.Context) (any, error) {
//	    return client.Fetch(ctx)
//	})
//	value, err := res.Value()
package retry
