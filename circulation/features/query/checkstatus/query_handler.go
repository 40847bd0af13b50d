package checkstatus

import (
	"context"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
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

// Handle executes Query -> Query -> Project.
func (h QueryHandler) Handle(ctx context.Context, query Query) (CopyStatus, error) {
	if query.CopyID == "" {
		return CopyStatus{}, core.ErrValidation.WithDetail("copy_id is required")
	}

	ctx = eventstore.WithEventualConsistency(ctx)

	copyEvents, maxSeq, err := h.eventStore.Query(ctx, BuildCopyEventFilter(query.CopyID))
	if err != nil {
		return CopyStatus{}, err
	}

	history, err := shell.DomainEventsFrom(copyEvents)
	if err != nil {
		return CopyStatus{}, err
	}

	if isbn := isbnOf(history, query.CopyID); isbn != "" {
		bookEvents, _, err := h.eventStore.Query(ctx, BuildBookEventFilter(isbn))
		if err != nil {
			return CopyStatus{}, err
		}

		book, err := shell.DomainEventsFrom(bookEvents)
		if err != nil {
			return CopyStatus{}, err
		}

		history = append(history, book...)
	}

	result, err := ProjectCopyStatus(history, query)
	if err != nil {
		return CopyStatus{}, err
	}

	result.SequenceNumber = uint(maxSeq)

	return result, nil
}

func isbnOf(history core.DomainEvents, copyID core.CopyIDString) core.ISBNString {
	for _, event := range history {
		if e, ok := event.(core.CopyAddedToCirculation); ok && e.CopyID == copyID {
			return e.ISBN
		}
	}

	return ""
}
