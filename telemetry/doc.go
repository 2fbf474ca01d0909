// Package telemetry bootstraps OpenTelemetry for hosts embedding the retry
// engine: OTLP HTTP exporters for metrics and traces, service resource
// attributes and sampling. It complements observe.MetricsObserver, which
// records onto whatever meter provider is installed here.
package telemetry
