// Package memengine is an in-process event store. Handlers and HTTP tests use it in place of a database.
package memengine

import (
	"context"
	"errors"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-circulation/eventstore"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

type storedEvent struct {
	event   eventstore.StorableEvent
	payload map[string]any
}

// EventStore keeps all events in a slice guarded by a RWMutex.
type EventStore struct {
	mu     sync.RWMutex
	events []storedEvent
}

// NewEventStore returns an empty store.
func NewEventStore() *EventStore {
	return &EventStore{}
}

// Query returns the matching events in sequence order and the sequence number of the last one.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	if err := ctx.Err(); err != nil {
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	es.mu.RLock()
	defer es.mu.RUnlock()

	matching, maxSeq := es.matching(filter)

	return matching, maxSeq, nil
}

// Append stores all events or none of them, with the same concurrency rule as the SQL engines.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	if err := ctx.Err(); err != nil {
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	allEvents := append(eventstore.StorableEvents{event}, additionalEvents...)

	decoded := make([]storedEvent, 0, len(allEvents))
	for _, e := range allEvents {
		payload := make(map[string]any)
		if err := jsonAPI.Unmarshal(e.PayloadJSON, &payload); err != nil {
			return errors.Join(eventstore.ErrAppendingEventFailed, err)
		}

		decoded = append(decoded, storedEvent{event: e, payload: payload})
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	if _, maxSeq := es.matching(filter); maxSeq != expectedMaxSequenceNumber {
		return eventstore.ErrConcurrencyConflict
	}

	for _, d := range decoded {
		d.event = d.event.WithSequenceNumber(eventstore.MaxSequenceNumberUint(len(es.events) + 1))
		d.event.OccurredAt = d.event.OccurredAt.UTC()
		es.events = append(es.events, d)
	}

	return nil
}

// Len returns the number of stored events.
func (es *EventStore) Len() int {
	es.mu.RLock()
	defer es.mu.RUnlock()

	return len(es.events)
}

func (es *EventStore) matching(filter eventstore.Filter) (eventstore.StorableEvents, eventstore.MaxSequenceNumberUint) {
	matching := make(eventstore.StorableEvents, 0)
	maxSeq := eventstore.MaxSequenceNumberUint(0)

	for _, stored := range es.events {
		if !filter.Matches(stored.event.EventType, stored.payload) {
			continue
		}

		matching = append(matching, stored.event)
		maxSeq = stored.event.SequenceNumber
	}

	return matching, maxSeq
}
