package deadletter

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/retrykit/observe"
	"github.com/kbukum/retrykit/retry"
)

// Status is the processing state of a dead letter.
type Status string

const (
	// StatusPending marks a record awaiting handling.
	StatusPending Status = "pending"
	// StatusProcessed marks a record that was handled successfully.
	StatusProcessed Status = "processed"
	// StatusFailed marks a record whose handling itself failed.
	StatusFailed Status = "failed"
)

// Record is a terminal failure captured for later handling. It carries enough
// of the run to diagnose and replay without the original operation closure.
type Record struct {
	// ID uniquely identifies this record.
	ID string `json:"id"`
	// OperationID ties the record back to the originating run.
	OperationID string `json:"operation_id"`
	// Message is the terminal error message.
	Message string `json:"message"`
	// ErrorType is the concrete Go type name of the terminal error.
	ErrorType string `json:"error_type"`
	// Trace is a human-readable rendering of the cause chain and the
	// per-attempt failure history.
	Trace string `json:"trace"`
	// History is the attempt-by-attempt failure record.
	History []observe.Attempt `json:"history"`
	// Context carries the run metadata at the time of failure.
	Context map[string]any `json:"context"`
	// CreatedAt is when the record was captured.
	CreatedAt time.Time `json:"created_at"`
	// Status tracks downstream handling.
	Status Status `json:"status"`
}

// FromResult builds a Record from a failed run. It returns an error when the
// result actually succeeded, so callers cannot silently dead-letter successes.
func FromResult(res *retry.Result, meta map[string]any) (Record, error) {
	if res == nil || res.Succeeded() {
		return Record{}, errors.New("deadletter: result did not fail")
	}

	terminal := res.Err()
	ctx := make(map[string]any, len(res.Metadata())+len(meta))
	for k, v := range res.Metadata() {
		ctx[k] = v
	}
	for k, v := range meta {
		ctx[k] = v
	}

	return Record{
		ID:          uuid.NewString(),
		OperationID: res.OperationID(),
		Message:     terminal.Error(),
		ErrorType:   typeName(terminal),
		Trace:       formatTrace(terminal, res.History()),
		History:     res.History(),
		Context:     ctx,
		CreatedAt:   time.Now().UTC(),
		Status:      StatusPending,
	}, nil
}

// typeName reports the concrete type of err, unwrapping pointers.
func typeName(err error) string {
	t := reflect.TypeOf(err)
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Ptr {
		return "*" + t.Elem().String()
	}
	return t.String()
}

// formatTrace renders the cause chain followed by the attempt history.
func formatTrace(terminal error, history []observe.Attempt) string {
	var b strings.Builder

	b.WriteString("cause chain:\n")
	depth := 0
	for err := terminal; err != nil; err = errors.Unwrap(err) {
		fmt.Fprintf(&b, "  [%d] %s: %s\n", depth, typeName(err), err.Error())
		depth++
	}

	if len(history) > 0 {
		b.WriteString("attempts:\n")
		for _, a := range history {
			fmt.Fprintf(&b, "  attempt %d at %s (retryable=%t, waited %s): %s\n",
				a.Attempt, a.Timestamp.Format(time.RFC3339), a.Retryable, a.Delay, a.Message)
		}
	}

	return b.String()
}
