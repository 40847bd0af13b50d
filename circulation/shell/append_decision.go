package shell

import (
	"context"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/eventstore"
)

// QueryHistory reads the events selected by filter with strong consistency and maps them to domain events.
// It returns the max sequence number the following AppendDecision must be conditioned on.
func QueryHistory(
	ctx context.Context,
	eventStore QueriesEvents,
	filter eventstore.Filter,
) (core.DomainEvents, eventstore.MaxSequenceNumberUint, error) {

	storableEvents, maxSequenceNumber, err := eventStore.Query(eventstore.WithStrongConsistency(ctx), filter)
	if err != nil {
		return nil, 0, err
	}

	history, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return nil, 0, err
	}

	return history, maxSequenceNumber, nil
}

// AppendDecision appends the events of a decision in one conditional append and then returns
// the decision's business error, if any. Decisions without events append nothing.
func AppendDecision(
	ctx context.Context,
	eventStore EventStore,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	result core.DecisionResult,
	metadata EventMetadata,
) error {

	if !result.HasEventToAppend() {
		return result.HasError()
	}

	storableEvents, err := StorableEventsFrom(result.Events, metadata)
	if err != nil {
		return err
	}

	err = eventStore.Append(
		eventstore.WithStrongConsistency(ctx),
		filter,
		expectedMaxSequenceNumber,
		storableEvents[0],
		storableEvents[1:]...,
	)
	if err != nil {
		return err
	}

	return result.HasError()
}
