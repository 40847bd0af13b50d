package searchcatalog

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
func (h QueryHandler) Handle(ctx context.Context, query Query) (SearchResults, error) {
	if err := query.Validate(); err != nil {
		return SearchResults{}, err
	}

	storableEvents, maxSeq, err := h.eventStore.Query(eventstore.WithEventualConsistency(ctx), BuildEventFilter())
	if err != nil {
		return SearchResults{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return SearchResults{}, err
	}

	result := ProjectSearchResults(history, query)
	result.SequenceNumber = uint(maxSeq)

	return result, nil
}
