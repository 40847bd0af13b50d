// Package observable decorates command and query handlers with metrics, tracing, and logging.
//
// The core handlers in the feature slices stay free of observability code; the HTTP layer
// and the CLI always talk to the wrapped versions.
package observable
