package addbook

import (
	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/eventstore"
)

// state represents the current state projected from the event history.
type state struct {
	bookRegistered bool
	copyExists     bool
}

// Decide implements the business logic of adding a copy of a book.
//
// Business Rules:
//
//	GIVEN: no book with ISBN in the catalog
//	WHEN: AddBook is received
//	THEN: BookRegisteredInCatalog and CopyAddedToCirculation are generated
//
//	GIVEN: a book with ISBN in the catalog
//	WHEN: AddBook is received
//	THEN: only CopyAddedToCirculation is generated, the catalog entry is kept as is
//	IDEMPOTENCY: if the copy with CopyID already exists, nothing is generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	s := project(history, command.ISBN, command.CopyID)

	if s.copyExists {
		return core.IdempotentDecision()
	}

	copyAdded := core.BuildCopyAddedToCirculation(command.CopyID, command.ISBN, command.OccurredAt)

	if s.bookRegistered {
		return core.SuccessDecision(copyAdded)
	}

	bookRegistered := core.BuildBookRegisteredInCatalog(
		command.ISBN,
		command.Title,
		command.Authors,
		command.Publisher,
		command.Category,
		command.PublicationYear,
		command.Description,
		command.OccurredAt,
	)

	return core.SuccessDecision(bookRegistered, copyAdded)
}

// project builds the current state by replaying all events from the history.
func project(history core.DomainEvents, isbn core.ISBNString, copyID core.CopyIDString) state {
	s := state{}

	for _, event := range history {
		switch e := event.(type) {
		case core.BookRegisteredInCatalog:
			if e.ISBN == isbn {
				s.bookRegistered = true
			}

		case core.CopyAddedToCirculation:
			if e.CopyID == copyID {
				s.copyExists = true
			}
		}
	}

	return s
}

// BuildEventFilter creates the filter for the catalog entry of ISBN plus the copy to add.
func BuildEventFilter(isbn core.ISBNString, copyID core.CopyIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookRegisteredInCatalogEventType).
		AndAnyPredicateOf(eventstore.P("ISBN", isbn)).
		OrMatching().
		AnyEventTypeOf(core.CopyAddedToCirculationEventType).
		AndAnyPredicateOf(eventstore.P("CopyID", copyID)).
		Finalize()
}
