// Package testdoubles holds spies for the logger, metrics, and tracing interfaces of the
// eventstore package. Tests use them to assert on what a component reported.
package testdoubles
