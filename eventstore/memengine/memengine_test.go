package memengine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/eventstore"
	"github.com/AntonStoeckl/library-circulation/eventstore/enginetest"
	"github.com/AntonStoeckl/library-circulation/eventstore/memengine"
)

func Test_EngineContract(t *testing.T) {
	enginetest.Run(t, func(t *testing.T) enginetest.Store {
		return memengine.NewEventStore()
	})
}

func Test_ConcurrentAppends_ExactlyOneWins(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("CopyLentToMember").
		AndAnyPredicateOf(eventstore.P("CopyID", "c-1")).
		Finalize()
	event, err := eventstore.BuildStorableEventWithEmptyMetadata("CopyLentToMember", time.Now(), []byte(`{"CopyID":"c-1"}`))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, 20)

	// act
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.Append(ctx, filter, 0, event)
		}()
	}
	wg.Wait()
	close(results)

	// assert
	succeeded := 0
	for appendErr := range results {
		if appendErr == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, appendErr, eventstore.ErrConcurrencyConflict)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, store.Len())
}

func Test_Append_RejectsInvalidPayload(t *testing.T) {
	// arrange
	store := memengine.NewEventStore()
	event := eventstore.StorableEvent{EventType: "Broken", PayloadJSON: []byte(`{`), MetadataJSON: []byte(`{}`)}

	// act
	err := store.Append(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent(), 0, event)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrAppendingEventFailed)
	assert.Zero(t, store.Len())
}
