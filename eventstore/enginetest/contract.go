// Package enginetest holds the behavior every event store engine must show.
// Each engine's tests call Run with a factory that hands out an empty store.
package enginetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/eventstore"
)

// Store is the engine surface under test.
type Store interface {
	Query(ctx context.Context, filter eventstore.Filter) (eventstore.StorableEvents, eventstore.MaxSequenceNumberUint, error)
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		event eventstore.StorableEvent,
		additionalEvents ...eventstore.StorableEvent,
	) error
}

// Factory returns an empty store. It may register cleanups on t.
type Factory func(t *testing.T) Store

// Run executes the engine contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("append to an empty stream", func(t *testing.T) { appendToEmptyStream(t, newStore(t)) })
	t.Run("query returns the stream in sequence order", func(t *testing.T) { queryReturnsStreamInOrder(t, newStore(t)) })
	t.Run("append after the stream moved conflicts", func(t *testing.T) { appendAfterStreamMovedConflicts(t, newStore(t)) })
	t.Run("concurrent appends with the same expectation have one winner", func(t *testing.T) { concurrentAppendsHaveOneWinner(t, newStore(t)) })
	t.Run("appends to other streams do not conflict", func(t *testing.T) { otherStreamsDoNotConflict(t, newStore(t)) })
	t.Run("multiple events are appended atomically", func(t *testing.T) { multipleEventsAtomic(t, newStore(t)) })
	t.Run("a conflicting multi append writes nothing", func(t *testing.T) { conflictingMultiAppendWritesNothing(t, newStore(t)) })
	t.Run("predicates combine with and or or", func(t *testing.T) { predicateCombination(t, newStore(t)) })
	t.Run("predicate values are not interpreted as sql", func(t *testing.T) { predicateValuesAreData(t, newStore(t)) })
	t.Run("payload and metadata round trip", func(t *testing.T) { payloadAndMetadataRoundTrip(t, newStore(t)) })
}

const (
	copyAdded    = "TestCopyAdded"
	copyLent     = "TestCopyLent"
	copyReturned = "TestCopyReturned"
)

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	return ctx
}

func copyFilter(copyID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(copyAdded, copyLent, copyReturned).
		AndAnyPredicateOf(eventstore.P("CopyID", copyID)).
		Finalize()
}

func givenEvent(t *testing.T, eventType string, payload map[string]string, occurredAt time.Time) eventstore.StorableEvent {
	t.Helper()

	payloadJSON, err := json.Marshal(payload)
	require.NoError(t, err)

	event, err := eventstore.BuildStorableEvent(eventType, occurredAt, payloadJSON, []byte(`{"ActorID":"tester"}`))
	require.NoError(t, err)

	return event
}

func givenUniqueID() string {
	return uuid.NewString()
}

func givenAppended(t *testing.T, ctx context.Context, store Store, filter eventstore.Filter, events ...eventstore.StorableEvent) {
	t.Helper()

	_, maxSeq, err := store.Query(ctx, filter)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, filter, maxSeq, events[0], events[1:]...))
}

func fakeClock() time.Time {
	return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
}

func appendToEmptyStream(t *testing.T, store Store) {
	// setup
	ctx := testContext(t)
	copyID := givenUniqueID()
	filter := copyFilter(copyID)

	// act
	err := store.Append(ctx, filter, 0, givenEvent(t, copyAdded, map[string]string{"CopyID": copyID}, fakeClock()))

	// assert
	assert.NoError(t, err)
}

func queryReturnsStreamInOrder(t *testing.T, store Store) {
	// arrange
	ctx := testContext(t)
	copyID := givenUniqueID()
	filter := copyFilter(copyID)
	clock := fakeClock()
	givenAppended(t, ctx, store, filter, givenEvent(t, copyAdded, map[string]string{"CopyID": copyID}, clock))
	givenAppended(t, ctx, store, filter, givenEvent(t, copyLent, map[string]string{"CopyID": copyID}, clock.Add(time.Minute)))
	givenAppended(t, ctx, store, filter, givenEvent(t, copyReturned, map[string]string{"CopyID": copyID}, clock.Add(2*time.Minute)))

	// act
	events, maxSeq, err := store.Query(ctx, filter)

	// assert
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, copyAdded, events[0].EventType)
	assert.Equal(t, copyLent, events[1].EventType)
	assert.Equal(t, copyReturned, events[2].EventType)
	assert.Less(t, events[0].SequenceNumber, events[1].SequenceNumber)
	assert.Less(t, events[1].SequenceNumber, events[2].SequenceNumber)
	assert.Equal(t, events[2].SequenceNumber, maxSeq)
	assert.True(t, clock.Add(time.Minute).Equal(events[1].OccurredAt), "occurred at should survive storage")
}

func appendAfterStreamMovedConflicts(t *testing.T, store Store) {
	// arrange
	ctx := testContext(t)
	copyID := givenUniqueID()
	filter := copyFilter(copyID)
	givenAppended(t, ctx, store, filter, givenEvent(t, copyAdded, map[string]string{"CopyID": copyID}, fakeClock()))
	_, maxSeqBeforeDecision, err := store.Query(ctx, filter)
	require.NoError(t, err)
	givenAppended(t, ctx, store, filter, givenEvent(t, copyLent, map[string]string{"CopyID": copyID}, fakeClock())) // concurrent writer

	// act
	err = store.Append(ctx, filter, maxSeqBeforeDecision, givenEvent(t, copyLent, map[string]string{"CopyID": copyID}, fakeClock()))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	events, _, queryErr := store.Query(ctx, filter)
	require.NoError(t, queryErr)
	assert.Len(t, events, 2)
}

func concurrentAppendsHaveOneWinner(t *testing.T, store Store) {
	// arrange
	const writers = 8
	ctx := testContext(t)
	copyID := givenUniqueID()
	filter := copyFilter(copyID)
	givenAppended(t, ctx, store, filter, givenEvent(t, copyAdded, map[string]string{"CopyID": copyID}, fakeClock()))
	_, maxSeq, err := store.Query(ctx, filter)
	require.NoError(t, err)

	start := make(chan struct{})
	errs := make([]error, writers)
	var wg sync.WaitGroup

	for i := 0; i < writers; i++ {
		lent := givenEvent(t, copyLent, map[string]string{"CopyID": copyID, "Writer": fmt.Sprint(i)}, fakeClock())
		returned := givenEvent(t, copyReturned, map[string]string{"CopyID": copyID, "Writer": fmt.Sprint(i)}, fakeClock())

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = store.Append(ctx, filter, maxSeq, lent, returned)
		}(i)
	}

	// act
	close(start)
	wg.Wait()

	// assert
	succeeded := 0
	for _, appendErr := range errs {
		if appendErr == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, appendErr, eventstore.ErrConcurrencyConflict)
	}
	assert.Equal(t, 1, succeeded)

	events, _, queryErr := store.Query(ctx, filter)
	require.NoError(t, queryErr)
	assert.Len(t, events, 3)
}

func otherStreamsDoNotConflict(t *testing.T, store Store) {
	// arrange
	ctx := testContext(t)
	copyID := givenUniqueID()
	otherCopyID := givenUniqueID()
	filter := copyFilter(copyID)
	givenAppended(t, ctx, store, filter, givenEvent(t, copyAdded, map[string]string{"CopyID": copyID}, fakeClock()))
	_, maxSeqBeforeDecision, err := store.Query(ctx, filter)
	require.NoError(t, err)
	otherFilter := copyFilter(otherCopyID)
	givenAppended(t, ctx, store, otherFilter, givenEvent(t, copyAdded, map[string]string{"CopyID": otherCopyID}, fakeClock()))

	// act
	err = store.Append(ctx, filter, maxSeqBeforeDecision, givenEvent(t, copyLent, map[string]string{"CopyID": copyID}, fakeClock()))

	// assert
	assert.NoError(t, err)
}

func multipleEventsAtomic(t *testing.T, store Store) {
	// arrange
	ctx := testContext(t)
	copyID := givenUniqueID()
	filter := copyFilter(copyID)
	givenAppended(t, ctx, store, filter, givenEvent(t, copyAdded, map[string]string{"CopyID": copyID}, fakeClock()))
	_, maxSeq, err := store.Query(ctx, filter)
	require.NoError(t, err)

	// act
	err = store.Append(
		ctx,
		filter,
		maxSeq,
		givenEvent(t, copyLent, map[string]string{"CopyID": copyID}, fakeClock()),
		givenEvent(t, copyReturned, map[string]string{"CopyID": copyID}, fakeClock()),
	)

	// assert
	require.NoError(t, err)
	events, _, err := store.Query(ctx, filter)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, copyLent, events[1].EventType)
	assert.Equal(t, copyReturned, events[2].EventType)
}

func conflictingMultiAppendWritesNothing(t *testing.T, store Store) {
	// arrange
	ctx := testContext(t)
	copyID := givenUniqueID()
	filter := copyFilter(copyID)
	givenAppended(t, ctx, store, filter, givenEvent(t, copyAdded, map[string]string{"CopyID": copyID}, fakeClock()))

	// act
	err := store.Append(
		ctx,
		filter,
		0,
		givenEvent(t, copyLent, map[string]string{"CopyID": copyID}, fakeClock()),
		givenEvent(t, copyReturned, map[string]string{"CopyID": copyID}, fakeClock()),
	)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	events, _, queryErr := store.Query(ctx, filter)
	require.NoError(t, queryErr)
	assert.Len(t, events, 1)
}

func predicateCombination(t *testing.T, store Store) {
	// arrange
	ctx := testContext(t)
	copyID := givenUniqueID()
	memberID := givenUniqueID()
	otherMemberID := givenUniqueID()
	seed := eventstore.BuildEventFilter().Matching().AnyEventTypeOf(copyLent).Finalize()
	givenAppended(t, ctx, store, copyFilter(copyID), givenEvent(t, copyLent, map[string]string{"CopyID": copyID, "MemberID": memberID}, fakeClock()))
	givenAppended(t, ctx, store, seed, givenEvent(t, copyLent, map[string]string{"CopyID": givenUniqueID(), "MemberID": otherMemberID}, fakeClock()))

	allOf := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(copyLent).
		AndAllPredicatesOf(eventstore.P("CopyID", copyID), eventstore.P("MemberID", otherMemberID)).
		Finalize()
	anyOf := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(copyLent).
		AndAnyPredicateOf(eventstore.P("CopyID", copyID), eventstore.P("MemberID", otherMemberID)).
		Finalize()

	// act
	allEvents, _, allErr := store.Query(ctx, allOf)
	anyEvents, _, anyErr := store.Query(ctx, anyOf)

	// assert
	require.NoError(t, allErr)
	require.NoError(t, anyErr)
	assert.Empty(t, allEvents)
	assert.Len(t, anyEvents, 2)
}

func predicateValuesAreData(t *testing.T, store Store) {
	// arrange
	ctx := testContext(t)
	nastyTitle := fmt.Sprintf(`O'Brien "%s" '); DROP TABLE events; --`, givenUniqueID())
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(copyAdded).
		AndAnyPredicateOf(eventstore.P("Title", nastyTitle)).
		Finalize()

	// act
	appendErr := store.Append(ctx, filter, 0, givenEvent(t, copyAdded, map[string]string{"Title": nastyTitle}, fakeClock()))
	events, _, queryErr := store.Query(ctx, filter)

	// assert
	require.NoError(t, appendErr)
	require.NoError(t, queryErr)
	require.Len(t, events, 1)
	assert.JSONEq(t, fmt.Sprintf(`{"Title":%q}`, nastyTitle), string(events[0].PayloadJSON))
}

func payloadAndMetadataRoundTrip(t *testing.T, store Store) {
	// arrange
	ctx := testContext(t)
	copyID := givenUniqueID()
	filter := copyFilter(copyID)
	event := givenEvent(t, copyAdded, map[string]string{"CopyID": copyID, "Note": "ünïcode ✓"}, fakeClock())

	// act
	givenAppended(t, ctx, store, filter, event)
	events, _, err := store.Query(ctx, filter)

	// assert
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.JSONEq(t, string(event.PayloadJSON), string(events[0].PayloadJSON))
	assert.JSONEq(t, string(event.MetadataJSON), string(events[0].MetadataJSON))
}
