package postgresengine

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AntonStoeckl/library-circulation/eventstore"
	"github.com/AntonStoeckl/library-circulation/eventstore/internal/adapters"
)

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithTableName sets the table name for the EventStore.
func WithTableName(tableName string) Option {
	return func(es *EventStore) error {
		if err := eventstore.ValidateTableName(tableName); err != nil {
			return err
		}

		es.eventTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the EventStore.
//
// Debug level: SQL statements with execution timing
// Info level: event counts, durations, concurrency conflicts
// Error level: failures that abort an operation.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.instr.Logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger. It takes precedence over WithLogger.
func WithContextualLogger(logger eventstore.ContextualLogger) Option {
	return func(es *EventStore) error {
		es.instr.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the EventStore.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.instr.Metrics = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the EventStore.
func WithTracing(collector eventstore.TracingCollector) Option {
	return func(es *EventStore) error {
		es.instr.Tracing = collector
		return nil
	}
}

// WithReplicaPool routes eventually consistent reads to replica.
// It only has an effect on stores built with NewEventStoreFromPGXPool.
func WithReplicaPool(replica *pgxpool.Pool) Option {
	return func(es *EventStore) error {
		if replica == nil {
			return eventstore.ErrNilDatabaseConnection
		}

		if pgxAdapter, ok := es.db.(*adapters.PGXAdapter); ok {
			es.db = adapters.NewPGXAdapterWithReplica(pgxAdapter.Primary(), replica)
		}

		return nil
	}
}
