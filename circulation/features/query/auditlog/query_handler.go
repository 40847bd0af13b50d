package auditlog

import (
	"context"

	"github.com/AntonStoeckl/library-circulation/circulation/shell"
	"github.com/AntonStoeckl/library-circulation/eventstore"
)

// QueryHandler orchestrates the query processing workflow.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler with the provided EventStore dependency.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
	}
}

// Handle executes Query -> Project over all events.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Entries, error) {
	if query.Limit < 1 {
		query = BuildQuery(query.Limit)
	}

	filter := eventstore.BuildEventFilter().MatchingAnyEvent()

	storableEvents, maxSeq, err := h.eventStore.Query(eventstore.WithEventualConsistency(ctx), filter)
	if err != nil {
		return Entries{}, err
	}

	envelopes, err := shell.EventEnvelopesFrom(storableEvents)
	if err != nil {
		return Entries{}, err
	}

	result, err := ProjectEntries(envelopes, query)
	if err != nil {
		return Entries{}, err
	}

	result.SequenceNumber = uint(maxSeq)

	return result, nil
}
