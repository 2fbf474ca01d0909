// Package observe defines the lifecycle notifications emitted by the retry
// executor and the observers that consume them.
//
// Three events exist: Retrying (before a backoff wait), Succeeded and Failed
// (exactly one of which ends every run). Events for one run are delivered in
// order through a Dispatcher that isolates observer panics from the retry
// loop. Sinks for zerolog and OpenTelemetry metrics are provided.
package observe
