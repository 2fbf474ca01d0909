package observe

import (
	"github.com/kbukum/retrykit/logger"
)

// LogObserver forwards lifecycle events to structured logging.
type LogObserver struct {
	log *logger.Logger
}

// NewLogObserver creates a LogObserver. A nil log uses the global logger.
func NewLogObserver(log *logger.Logger) *LogObserver {
	if log == nil {
		log = logger.Get("retry")
	}
	return &LogObserver{log: log}
}

func (o *LogObserver) OnRetrying(e RetryingEvent) {
	o.log.Warn("operation retrying", logger.Fields(
		logger.FieldOperationID, e.Snapshot.OperationID,
		logger.FieldAttempt, e.Attempt,
		logger.FieldMaxRetries, e.MaxRetries,
		logger.FieldDelay, e.Delay.Milliseconds(),
		logger.FieldError, errMessage(e.Err),
	))
}

func (o *LogObserver) OnSucceeded(e SucceededEvent) {
	o.log.Info("operation succeeded", logger.Fields(
		logger.FieldOperationID, e.Snapshot.OperationID,
		logger.FieldAttempt, e.Attempt,
		logger.FieldDuration, e.TotalTime.Milliseconds(),
	))
}

func (o *LogObserver) OnFailed(e FailedEvent) {
	o.log.Error("operation failed", logger.Fields(
		logger.FieldOperationID, e.Snapshot.OperationID,
		logger.FieldAttempt, e.Attempt,
		"history_len", len(e.History),
		logger.FieldError, errMessage(e.Err),
	))
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
