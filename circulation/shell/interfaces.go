package shell

import (
	"context"

	"github.com/AntonStoeckl/library-circulation/eventstore"
)

// QueriesEvents is the read side of the event store, used by query handlers.
type QueriesEvents interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
}

// EventStore is what command handlers need: a filtered read and an append conditioned on
// the max sequence number that read returned.
type EventStore interface {
	QueriesEvents
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		event eventstore.StorableEvent,
		additionalEvents ...eventstore.StorableEvent,
	) error
}

// Command is implemented by every command of a feature slice.
type Command interface {
	CommandType() string
}

// Query is implemented by every query of a feature slice.
type Query interface {
	QueryType() string
}

// CommandResult is implemented by every command result by embedding HandlerResult.
type CommandResult interface {
	Handling() HandlerResult
}

// CoreCommandHandler processes one command type without any observability concerns.
type CoreCommandHandler[C Command, R CommandResult] interface {
	Handle(ctx context.Context, command C) (R, error)
}

// CoreQueryHandler processes one query type without any observability concerns.
type CoreQueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
