// Package core holds the domain of library circulation: the events, the value types they carry,
// the fine policy, and the failure taxonomy.
//
// Nothing in here performs I/O. Feature slices project these events into state and decide
// on new events with pure functions; the shell package moves them in and out of the event store.
package core
