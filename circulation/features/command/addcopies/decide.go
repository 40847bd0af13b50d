package addcopies

import (
	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/eventstore"
)

// state represents the current state projected from the event history.
type state struct {
	bookRegistered bool
	copiesAdded    bool
}

// Decide implements the business logic of adding copies.
//
// Business Rules:
//
//	GIVEN: a book with ISBN in the catalog
//	WHEN: AddCopies is received
//	THEN: one CopyAddedToCirculation per copy id is generated
//	ERROR: BookNotFound if the ISBN is not in the catalog
//	IDEMPOTENCY: if the copies were already added, nothing is generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	s := project(history, command.ISBN, command.CopyIDs)

	if s.copiesAdded {
		return core.IdempotentDecision()
	}

	if !s.bookRegistered {
		failure := core.ErrBookNotFound
		event := core.BuildOperationFailed(
			core.AddingCopiesFailedEventType,
			command.ISBN,
			command.LibrarianID,
			failure,
			command.OccurredAt,
		)

		return core.ErrorDecision(event, failure)
	}

	events := make(core.DomainEvents, 0, len(command.CopyIDs))
	for _, copyID := range command.CopyIDs {
		events = append(events, core.BuildCopyAddedToCirculation(copyID, command.ISBN, command.OccurredAt))
	}

	return core.SuccessDecision(events[0], events[1:]...)
}

// project builds the current state by replaying all events from the history.
func project(history core.DomainEvents, isbn core.ISBNString, copyIDs []core.CopyIDString) state {
	s := state{}

	known := make(map[core.CopyIDString]bool, len(copyIDs))
	for _, copyID := range copyIDs {
		known[copyID] = true
	}

	for _, event := range history {
		switch e := event.(type) {
		case core.BookRegisteredInCatalog:
			if e.ISBN == isbn {
				s.bookRegistered = true
			}

		case core.CopyAddedToCirculation:
			if known[e.CopyID] {
				s.copiesAdded = true
			}
		}
	}

	return s
}

// BuildEventFilter creates the filter for the catalog entry of ISBN plus the copies to add.
// copyIDs must not be empty.
func BuildEventFilter(isbn core.ISBNString, copyIDs []core.CopyIDString) eventstore.Filter {
	predicates := make([]eventstore.FilterPredicate, 0, len(copyIDs))
	for _, copyID := range copyIDs {
		predicates = append(predicates, eventstore.P("CopyID", copyID))
	}

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookRegisteredInCatalogEventType).
		AndAnyPredicateOf(eventstore.P("ISBN", isbn)).
		OrMatching().
		AnyEventTypeOf(core.CopyAddedToCirculationEventType).
		AndAnyPredicateOf(predicates[0], predicates[1:]...).
		Finalize()
}
