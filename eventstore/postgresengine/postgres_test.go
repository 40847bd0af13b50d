package postgresengine_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // driver registration
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/eventstore"
	"github.com/AntonStoeckl/library-circulation/eventstore/enginetest"
	"github.com/AntonStoeckl/library-circulation/eventstore/postgresengine"
)

const dsnEnvVar = "LIBRARY_TEST_POSTGRES_DSN"

func givenDSN(t *testing.T) string {
	t.Helper()

	dsn := os.Getenv(dsnEnvVar)
	if dsn == "" {
		t.Skipf("%s is not set", dsnEnvVar)
	}

	return dsn
}

func givenUniqueTableName() string {
	return "events_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

func dropTable(t *testing.T, pool *pgxpool.Pool, tableName string) {
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName))
	})
}

func Test_PGXPool_EngineContract(t *testing.T) {
	// setup
	dsn := givenDSN(t)
	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	enginetest.Run(t, func(t *testing.T) enginetest.Store {
		tableName := givenUniqueTableName()
		es, err := postgresengine.NewEventStoreFromPGXPool(pool, postgresengine.WithTableName(tableName))
		require.NoError(t, err)
		require.NoError(t, es.CreateSchema(context.Background()))
		dropTable(t, pool, tableName)

		return es
	})
}

func Test_SQLX_EngineContract(t *testing.T) {
	// setup
	dsn := givenDSN(t)
	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	enginetest.Run(t, func(t *testing.T) enginetest.Store {
		tableName := givenUniqueTableName()
		es, err := postgresengine.NewEventStoreFromSQLX(db, postgresengine.WithTableName(tableName))
		require.NoError(t, err)
		require.NoError(t, es.CreateSchema(context.Background()))
		dropTable(t, pool, tableName)

		return es
	})
}

func Test_SQLDB_EngineContract(t *testing.T) {
	// setup
	dsn := givenDSN(t)
	db, err := sqlx.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	enginetest.Run(t, func(t *testing.T) enginetest.Store {
		tableName := givenUniqueTableName()
		es, err := postgresengine.NewEventStoreFromSQLDB(db.DB, postgresengine.WithTableName(tableName))
		require.NoError(t, err)
		require.NoError(t, es.CreateSchema(context.Background()))
		dropTable(t, pool, tableName)

		return es
	})
}

func Test_NewEventStore_RejectsNilConnections(t *testing.T) {
	// act
	_, pgxErr := postgresengine.NewEventStoreFromPGXPool(nil)
	_, sqlErr := postgresengine.NewEventStoreFromSQLDB(nil)
	_, sqlxErr := postgresengine.NewEventStoreFromSQLX(nil)

	// assert
	require.ErrorIs(t, pgxErr, eventstore.ErrNilDatabaseConnection)
	require.ErrorIs(t, sqlErr, eventstore.ErrNilDatabaseConnection)
	require.ErrorIs(t, sqlxErr, eventstore.ErrNilDatabaseConnection)
}
