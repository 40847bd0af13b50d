package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/shell"
	"github.com/AntonStoeckl/library-circulation/circulation/shell/config"
	"github.com/AntonStoeckl/library-circulation/eventstore/memengine"
	"github.com/AntonStoeckl/library-circulation/eventstore/oteladapters"
	"github.com/AntonStoeckl/library-circulation/eventstore/postgresengine"
	"github.com/AntonStoeckl/library-circulation/eventstore/sqliteengine"
)

const (
	LogMsgStoreOpened       = "event store opened"
	LogMsgTelemetryEnabled  = "OTLP export enabled"
	LogMsgShutdownFailed    = "shutdown step failed"
	LogAttrStore            = "store"
	LogAttrPostgresClient   = "postgres_client"
	LogAttrReplicaEnabled   = "replica"
	LogAttrOTLPEndpoint     = "otlp_endpoint"
	LogAttrError            = "error"
	LogAttrShutdownStepName = "step"
)

var ErrStoreSetup = errors.New("event store could not be opened")

// schemaCreator is implemented by the SQL engines.
type schemaCreator interface {
	CreateSchema(ctx context.Context) error
}

// runtime holds everything the subcommands share: the logger, the telemetry collectors, the clock,
// the fine policy, and the open event store.
type runtime struct {
	cfg              config.Config
	logger           *slog.Logger
	contextualLogger shell.ContextualLogger
	metrics          shell.MetricsCollector
	tracing          shell.TracingCollector
	providers        *config.ObservabilityProviders
	clock            shell.Clock
	finePolicy       core.FinePolicy
	store            shell.EventStore
	closers          []namedCloser
}

type namedCloser struct {
	name  string
	close func(ctx context.Context) error
}

func newRuntime(ctx context.Context, cfg config.Config, logOutput io.Writer) (*runtime, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	rate, err := cfg.FineRate()
	if err != nil {
		return nil, err
	}

	logger := config.NewLogger(logOutput, level)
	slog.SetDefault(logger)

	rt := &runtime{
		cfg:        cfg,
		logger:     logger,
		clock:      shell.NewClock(loc),
		finePolicy: core.NewFinePolicy(rate),
	}

	if cfg.OTLPEndpoint != "" {
		if err = rt.enableTelemetry(ctx); err != nil {
			return nil, err
		}
	} else {
		rt.contextualLogger = oteladapters.NewSlogBridgeLoggerFromSlog(logger)
	}

	if err = rt.openEventStore(ctx); err != nil {
		rt.shutdown(ctx)
		return nil, err
	}

	return rt, nil
}

func (rt *runtime) enableTelemetry(ctx context.Context) error {
	providers, err := config.NewObservabilityProviders(ctx, rt.cfg.OTLPEndpoint, rt.cfg.ServiceName)
	if err != nil {
		return err
	}

	rt.providers = providers
	rt.contextualLogger = oteladapters.NewSlogBridgeLogger(rt.cfg.ServiceName)
	rt.metrics = oteladapters.NewMetricsCollector(otel.Meter(rt.cfg.ServiceName))
	rt.tracing = oteladapters.NewTracingCollector(otel.Tracer(rt.cfg.ServiceName))

	rt.closers = append(rt.closers, namedCloser{name: "telemetry", close: providers.Shutdown})
	rt.logger.Info(LogMsgTelemetryEnabled, LogAttrOTLPEndpoint, rt.cfg.OTLPEndpoint)

	return nil
}

func (rt *runtime) openEventStore(ctx context.Context) error {
	var err error

	switch rt.cfg.Store {
	case config.StoreMemory:
		rt.store = memengine.NewEventStore()

	case config.StoreSQLite:
		err = rt.openSQLiteStore()

	case config.StorePostgres:
		err = rt.openPostgresStore(ctx)

	default:
		err = errors.Join(config.ErrUnknownStore, errors.New(rt.cfg.Store))
	}

	if err != nil {
		return errors.Join(ErrStoreSetup, err)
	}

	rt.logger.Info(LogMsgStoreOpened, LogAttrStore, rt.cfg.Store)

	return nil
}

func (rt *runtime) openSQLiteStore() error {
	db, err := sqliteengine.Open(rt.cfg.SQLitePath)
	if err != nil {
		return err
	}

	rt.closers = append(rt.closers, namedCloser{name: "sqlite", close: func(context.Context) error { return db.Close() }})

	options := []sqliteengine.Option{
		sqliteengine.WithTableName(rt.cfg.EventsTable),
		sqliteengine.WithContextualLogger(rt.contextualLogger),
	}
	if rt.metrics != nil {
		options = append(options, sqliteengine.WithMetrics(rt.metrics))
	}
	if rt.tracing != nil {
		options = append(options, sqliteengine.WithTracing(rt.tracing))
	}

	store, err := sqliteengine.NewEventStoreFromSQLDB(db, options...)
	if err != nil {
		return err
	}

	rt.store = store

	return nil
}

func (rt *runtime) openPostgresStore(ctx context.Context) error {
	options := []postgresengine.Option{
		postgresengine.WithTableName(rt.cfg.EventsTable),
		postgresengine.WithContextualLogger(rt.contextualLogger),
	}
	if rt.metrics != nil {
		options = append(options, postgresengine.WithMetrics(rt.metrics))
	}
	if rt.tracing != nil {
		options = append(options, postgresengine.WithTracing(rt.tracing))
	}

	var (
		store postgresengine.EventStore
		err   error
	)

	switch rt.cfg.PostgresClient {
	case config.PostgresClientPGXPool:
		store, err = rt.openPGXPoolStore(ctx, options)

	case config.PostgresClientSQLDB:
		db, openErr := config.OpenSQLDB(ctx, rt.cfg.PostgresDSN)
		if openErr != nil {
			return openErr
		}

		rt.closers = append(rt.closers, namedCloser{name: "postgres", close: func(context.Context) error { return db.Close() }})
		store, err = postgresengine.NewEventStoreFromSQLDB(db, options...)

	case config.PostgresClientSQLX:
		db, openErr := config.OpenSQLX(ctx, rt.cfg.PostgresDSN)
		if openErr != nil {
			return openErr
		}

		rt.closers = append(rt.closers, namedCloser{name: "postgres", close: func(context.Context) error { return db.Close() }})
		store, err = postgresengine.NewEventStoreFromSQLX(db, options...)

	default:
		return errors.Join(config.ErrUnknownPostgresClient, errors.New(rt.cfg.PostgresClient))
	}

	if err != nil {
		return err
	}

	rt.store = store
	rt.logger.Info(LogMsgStoreOpened,
		LogAttrPostgresClient, rt.cfg.PostgresClient,
		LogAttrReplicaEnabled, rt.cfg.PostgresReplicaDSN != "" && rt.cfg.PostgresClient == config.PostgresClientPGXPool,
	)

	return nil
}

func (rt *runtime) openPGXPoolStore(ctx context.Context, options []postgresengine.Option) (postgresengine.EventStore, error) {
	primary, err := config.OpenPGXPool(ctx, rt.cfg.PostgresDSN)
	if err != nil {
		return postgresengine.EventStore{}, err
	}

	rt.closers = append(rt.closers, namedCloser{name: "postgres", close: func(context.Context) error {
		primary.Close()
		return nil
	}})

	if rt.cfg.PostgresReplicaDSN != "" {
		replica, replicaErr := config.OpenPGXPool(ctx, rt.cfg.PostgresReplicaDSN)
		if replicaErr != nil {
			return postgresengine.EventStore{}, replicaErr
		}

		rt.closers = append(rt.closers, namedCloser{name: "postgres replica", close: func(context.Context) error {
			replica.Close()
			return nil
		}})

		options = append(options, postgresengine.WithReplicaPool(replica))
	}

	return postgresengine.NewEventStoreFromPGXPool(primary, options...)
}

// createSchema creates the events table when the store keeps one. It reports whether there was anything to do.
func (rt *runtime) createSchema(ctx context.Context) (bool, error) {
	creator, ok := rt.store.(schemaCreator)
	if !ok {
		return false, nil
	}

	return true, creator.CreateSchema(ctx)
}

// shutdown runs the closers in reverse order of their registration.
func (rt *runtime) shutdown(ctx context.Context) {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i].close(ctx); err != nil {
			rt.logger.Error(LogMsgShutdownFailed, LogAttrShutdownStepName, rt.closers[i].name, LogAttrError, err.Error())
		}
	}

	rt.closers = nil
}
