package staffcredentials

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

// Handle executes Query -> Query -> Project. Credentials are read with strong consistency so
// that a password change takes effect on the next login.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Credentials, error) {
	if query.Username == "" {
		return Credentials{}, core.ErrStaffAccountNotFound
	}

	ctx = eventstore.WithStrongConsistency(ctx)

	named, err := h.history(ctx, BuildUsernameEventFilter(query.Username))
	if err != nil {
		return Credentials{}, err
	}

	userIDs := candidateUserIDs(named)
	if len(userIDs) == 0 {
		return Credentials{}, core.ErrStaffAccountNotFound
	}

	history, err := h.history(ctx, BuildAccountsEventFilter(userIDs))
	if err != nil {
		return Credentials{}, err
	}

	return ProjectCredentials(history, query)
}

func (h QueryHandler) history(ctx context.Context, filter eventstore.Filter) (core.DomainEvents, error) {
	storableEvents, _, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	return shell.DomainEventsFrom(storableEvents)
}
