package retry

import (
	"github.com/kbukum/retrykit/observe"
)

// Result is the immutable outcome of a run: exactly one of a success value
// or a terminal error, plus the full exception history. Then, Catch and
// Finally return new instances; a Result is never mutated in place.
type Result struct {
	value       any
	err         error
	history     []observe.Attempt
	attempts    int
	operationID string
	metadata    map[string]any
}

func successResult(value any, c *Context) *Result {
	return &Result{
		value:       value,
		history:     c.History(),
		attempts:    c.TotalAttempts,
		operationID: c.OperationID,
		metadata:    c.Metadata,
	}
}

func failureResult(err error, c *Context) *Result {
	return &Result{
		err:         err,
		history:     c.History(),
		attempts:    c.TotalAttempts,
		operationID: c.OperationID,
		metadata:    c.Metadata,
	}
}

// Succeeded reports whether the run produced a value.
func (r *Result) Succeeded() bool { return r.err == nil }

// Failed reports whether the run ended in a terminal error.
func (r *Result) Failed() bool { return r.err != nil }

// Value returns the success value, or the terminal error of a failed run.
func (r *Result) Value() (any, error) {
	return r.value, r.err
}

// Err returns the terminal error, nil on success.
func (r *Result) Err() error { return r.err }

// FirstErr returns the first recorded error in history if any exist, else
// the terminal error. Useful for diagnosing the root cause rather than the
// final symptom.
func (r *Result) FirstErr() error {
	for _, a := range r.history {
		if a.Err != nil {
			return a.Err
		}
	}
	return r.err
}

// History returns a copy of the exception history.
func (r *Result) History() []observe.Attempt {
	out := make([]observe.Attempt, len(r.history))
	copy(out, r.history)
	return out
}

// Attempts returns how many times the operation was invoked.
func (r *Result) Attempts() int { return r.attempts }

// OperationID returns the run's unique identifier.
func (r *Result) OperationID() string { return r.operationID }

// Metadata returns the run metadata.
func (r *Result) Metadata() map[string]any { return r.metadata }

// Then applies fn to the value of a successful result; an error from fn
// converts the chain to a failure. A failed result passes through unchanged.
func (r *Result) Then(fn func(value any) (any, error)) *Result {
	if r.err != nil || fn == nil {
		return r
	}
	v, err := fn(r.value)
	if err != nil {
		return r.withError(err)
	}
	return r.withValue(v)
}

// Catch applies fn to the error of a failed result, converting the chain
// back to a success unless fn itself returns an error. A successful result
// passes through unchanged.
func (r *Result) Catch(fn func(err error) (any, error)) *Result {
	if r.err == nil || fn == nil {
		return r
	}
	v, err := fn(r.err)
	if err != nil {
		return r.withError(err)
	}
	return r.withValue(v)
}

// Finally invokes fn for side effects regardless of outcome. An error from
// fn makes the result failed, overriding a prior success: last write wins.
func (r *Result) Finally(fn func() error) *Result {
	if fn == nil {
		return r
	}
	if err := fn(); err != nil {
		return r.withError(err)
	}
	return r
}

func (r *Result) withValue(v any) *Result {
	next := *r
	next.value = v
	next.err = nil
	return &next
}

func (r *Result) withError(err error) *Result {
	next := *r
	next.value = nil
	next.err = err
	return &next
}
