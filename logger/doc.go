// Package logger provides structured logging for retrykit using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields for the retry domain
// (operation id, attempt, delay, breaker state).
//
// # Usage
//
//	log := logger.Get("executor")
//	log.Info("operation retried", logger.Fields(
//	    logger.FieldOperationID, opID,
//	    logger.FieldAttempt, 2,
//	))
package logger
