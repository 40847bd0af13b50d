// Package shell connects the pure circulation core to the event store.
//
// It maps domain events to storable events and back, builds event metadata, retries
// appends that lost an optimistic concurrency race, and provides the observability helpers
// the observable wrappers use. Feature slices depend on it; the core never does.
package shell
