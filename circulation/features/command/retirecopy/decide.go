package retirecopy

import (
	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/eventstore"
)

// state represents the current state projected from the event history.
type state struct {
	copyExists bool
	isbn       core.ISBNString
	retired    bool
	onLoan     bool
}

// Decide implements the business logic of retiring a copy.
//
// Business Rules:
//
//	GIVEN: a copy with CopyID that is not on loan
//	WHEN: RetireCopy is received
//	THEN: CopyRetired is generated
//	ERROR: CopyNotFound if the copy was never added
//	ERROR: CopyOnLoan if the copy has an open borrow
//	IDEMPOTENCY: if the copy is already retired, nothing is generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	s := project(history, command.CopyID)

	if !s.copyExists {
		return reject(command, core.ErrCopyNotFound)
	}

	if s.retired {
		return core.IdempotentDecision()
	}

	if s.onLoan {
		return reject(command, core.ErrCopyOnLoan)
	}

	return core.SuccessDecision(
		core.BuildCopyRetired(command.CopyID, s.isbn, command.LibrarianID, command.OccurredAt),
	)
}

func reject(command Command, failure core.Failure) core.DecisionResult {
	event := core.BuildOperationFailed(
		core.RetiringCopyFailedEventType,
		command.CopyID,
		command.LibrarianID,
		failure,
		command.OccurredAt,
	)

	return core.ErrorDecision(event, failure)
}

// project builds the current state by replaying all events from the history.
func project(history core.DomainEvents, copyID core.CopyIDString) state {
	s := state{}

	for _, event := range history {
		switch e := event.(type) {
		case core.CopyAddedToCirculation:
			if e.CopyID == copyID {
				s.copyExists = true
				s.isbn = e.ISBN
			}

		case core.CopyRetired:
			if e.CopyID == copyID {
				s.retired = true
			}

		case core.CopyLentToMember:
			if e.CopyID == copyID {
				s.onLoan = true
			}

		case core.CopyReturnedByMember:
			if e.CopyID == copyID {
				s.onLoan = false
			}
		}
	}

	return s
}

// BuildEventFilter creates the filter for all events of one copy.
func BuildEventFilter(copyID core.CopyIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CopyAddedToCirculationEventType,
			core.CopyRetiredEventType,
			core.CopyLentToMemberEventType,
			core.CopyReturnedByMemberEventType,
		).
		AndAnyPredicateOf(eventstore.P("CopyID", copyID)).
		Finalize()
}
