package deadletter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/retrykit/logger"
	"github.com/kbukum/retrykit/observe"
)

// Sink is an observe.Observer that captures terminal failures into a Store.
// Register it on an executor's dispatcher to dead-letter exhausted runs
// without touching call sites.
type Sink struct {
	store   Store
	log     *logger.Logger
	timeout time.Duration
}

// NewSink creates a Sink writing to store. Saves run with a short internal
// timeout so a slow store cannot stall the retry loop's failure path.
func NewSink(store Store) *Sink {
	return &Sink{
		store:   store,
		log:     logger.Get("deadletter"),
		timeout: 5 * time.Second,
	}
}

func (s *Sink) OnRetrying(observe.RetryingEvent) {}

func (s *Sink) OnSucceeded(observe.SucceededEvent) {}

// OnFailed converts the terminal failure into a Record and saves it. Save
// errors are logged, never propagated.
func (s *Sink) OnFailed(e observe.FailedEvent) {
	if e.Err == nil {
		return
	}

	rec := Record{
		ID:          uuid.NewString(),
		OperationID: e.Snapshot.OperationID,
		Message:     e.Err.Error(),
		ErrorType:   typeName(e.Err),
		Trace:       formatTrace(e.Err, e.History),
		History:     e.History,
		Context:     e.Snapshot.Metadata,
		CreatedAt:   e.Timestamp.UTC(),
		Status:      StatusPending,
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.store.Save(ctx, rec); err != nil {
		s.log.Error("dead letter save failed", logger.Fields(
			logger.FieldOperationID, rec.OperationID,
			logger.FieldError, err.Error(),
		))
	}
}
