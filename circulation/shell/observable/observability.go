package observable

import (
	"github.com/AntonStoeckl/library-circulation/circulation/shell"
)

// Observability bundles the collectors and loggers the wrappers are configured with.
// Nil members are skipped.
type Observability struct {
	Metrics          shell.MetricsCollector
	Tracing          shell.TracingCollector
	ContextualLogger shell.ContextualLogger
	Logger           shell.Logger
}

// WrapCommandHandler wraps handler with every collector o carries.
func WrapCommandHandler[C shell.Command, R shell.CommandResult](
	handler shell.CoreCommandHandler[C, R],
	o Observability,
) (*CommandWrapper[C, R], error) {

	var opts []CommandOption[C, R]

	if o.Metrics != nil {
		opts = append(opts, WithCommandMetrics[C, R](o.Metrics))
	}

	if o.Tracing != nil {
		opts = append(opts, WithCommandTracing[C, R](o.Tracing))
	}

	if o.ContextualLogger != nil {
		opts = append(opts, WithCommandContextualLogging[C, R](o.ContextualLogger))
	}

	if o.Logger != nil {
		opts = append(opts, WithCommandLogging[C, R](o.Logger))
	}

	return NewCommandWrapper(handler, opts...)
}

// WrapQueryHandler wraps handler with every collector o carries.
func WrapQueryHandler[Q shell.Query, R any](
	handler shell.CoreQueryHandler[Q, R],
	o Observability,
) (*QueryWrapper[Q, R], error) {

	var opts []QueryOption[Q, R]

	if o.Metrics != nil {
		opts = append(opts, WithQueryMetrics[Q, R](o.Metrics))
	}

	if o.Tracing != nil {
		opts = append(opts, WithQueryTracing[Q, R](o.Tracing))
	}

	if o.ContextualLogger != nil {
		opts = append(opts, WithQueryContextualLogging[Q, R](o.ContextualLogger))
	}

	if o.Logger != nil {
		opts = append(opts, WithQueryLogging[Q, R](o.Logger))
	}

	return NewQueryWrapper(handler, opts...)
}
