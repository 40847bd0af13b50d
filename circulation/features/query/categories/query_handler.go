package categories

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

// Handle executes Query -> Project.
func (h QueryHandler) Handle(ctx context.Context, _ Query) (Categories, error) {
	storableEvents, maxSeq, err := h.eventStore.Query(eventstore.WithEventualConsistency(ctx), BuildEventFilter())
	if err != nil {
		return Categories{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return Categories{}, err
	}

	result := ProjectCategories(history)
	result.SequenceNumber = uint(maxSeq)

	return result, nil
}
