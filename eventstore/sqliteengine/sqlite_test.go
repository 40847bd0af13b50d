package sqliteengine_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/eventstore"
	"github.com/AntonStoeckl/library-circulation/eventstore/enginetest"
	"github.com/AntonStoeckl/library-circulation/eventstore/sqliteengine"
)

func givenStore(t *testing.T, path string) sqliteengine.EventStore {
	t.Helper()

	db, err := sqliteengine.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	es, err := sqliteengine.NewEventStoreFromSQLDB(db)
	require.NoError(t, err)
	require.NoError(t, es.CreateSchema(context.Background()))

	return es
}

func Test_EngineContract(t *testing.T) {
	enginetest.Run(t, func(t *testing.T) enginetest.Store {
		return givenStore(t, ":memory:")
	})
}

func Test_EventsSurviveReopeningTheFile(t *testing.T) {
	// setup
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "library.db")
	filter := eventstore.BuildEventFilter().Matching().AnyEventTypeOf("BookAdded").Finalize()

	// arrange
	db, err := sqliteengine.Open(path)
	require.NoError(t, err)
	es, err := sqliteengine.NewEventStoreFromSQLDB(db)
	require.NoError(t, err)
	require.NoError(t, es.CreateSchema(ctx))
	event, err := eventstore.BuildStorableEventWithEmptyMetadata("BookAdded", fixedTime(), []byte(`{"ISBN":"978-0"}`))
	require.NoError(t, err)
	require.NoError(t, es.Append(ctx, filter, 0, event))
	require.NoError(t, db.Close())

	// act
	reopened := givenStore(t, path)
	events, maxSeq, err := reopened.Query(ctx, filter)

	// assert
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, eventstore.MaxSequenceNumberUint(1), maxSeq)
}

func Test_CreateSchema_IsIdempotent(t *testing.T) {
	// arrange
	es := givenStore(t, ":memory:")

	// act
	err := es.CreateSchema(context.Background())

	// assert
	assert.NoError(t, err)
}

func Test_Open_RejectsEmptyPath(t *testing.T) {
	// act
	_, err := sqliteengine.Open("")

	// assert
	assert.Error(t, err)
}

func fixedTime() time.Time {
	return time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
}
