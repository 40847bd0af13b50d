package analytics

import (
	"context"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/shell"
	"github.com/AntonStoeckl/library-circulation/eventstore"
)

// QueryHandler orchestrates the query processing workflow.
type QueryHandler struct {
	eventStore shell.QueriesEvents
	finePolicy core.FinePolicy
}

// NewQueryHandler creates a new QueryHandler. finePolicy prices the overdue-today report.
func NewQueryHandler(eventStore shell.QueriesEvents, finePolicy core.FinePolicy) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
		finePolicy: finePolicy,
	}
}

// Handle executes Query -> Project.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Report, error) {
	if err := query.Validate(); err != nil {
		return Report{}, err
	}

	storableEvents, maxSeq, err := h.eventStore.Query(eventstore.WithEventualConsistency(ctx), BuildEventFilter())
	if err != nil {
		return Report{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return Report{}, err
	}

	result := ProjectReport(history, query, h.finePolicy)
	result.SequenceNumber = uint(maxSeq)

	return result, nil
}
