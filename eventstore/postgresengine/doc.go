// Package postgresengine stores circulation events in PostgreSQL.
//
// Events live in a single table with a jsonb payload. A "dynamic event stream" is whatever
// an eventstore.Filter selects from that table, and Append only succeeds while the highest
// sequence number of that stream is still the one the caller decided on.
//
// Three connection types are supported: *pgxpool.Pool, *sql.DB (lib/pq) and *sqlx.DB.
//
//	pool, _ := pgxpool.New(ctx, dsn)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(
//		pool,
//		postgresengine.WithTableName("events"),
//		postgresengine.WithLogger(logger),
//	)
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.Append(ctx, filter, maxSeq, newEvent)
package postgresengine
