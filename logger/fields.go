package logger

import "time"

// Standard field key constants for structured logging in the retry domain.
const (
	FieldComponent    = "component"
	FieldOperationID  = "operation_id"
	FieldAttempt      = "attempt"
	FieldMaxRetries   = "max_retries"
	FieldDelay        = "delay_ms"
	FieldDuration     = "duration_ms"
	FieldStrategy     = "strategy"
	FieldBreaker      = "breaker"
	FieldBreakerState = "breaker_state"
	FieldRetryable    = "retryable"
	FieldError        = "error"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("retrying", logger.Fields(logger.FieldAttempt, 2, logger.FieldDelay, 400))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for a failed attempt.
func ErrorFields(opID string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperationID: opID,
		FieldError:       err.Error(),
	}
}

// DurationFields creates fields for a timed attempt.
func DurationFields(opID string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperationID: opID,
		FieldDuration:    d.Milliseconds(),
	}
}
