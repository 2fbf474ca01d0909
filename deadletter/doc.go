// Package deadletter captures operations that exhausted their retry budget as
// durable records for later inspection or replay.
//
// The package defines the record shape and the Store contract; actual
// persistence (a database table, a queue, a file) is supplied by the host.
// MemoryStore is provided for tests and small tools.
package deadletter
