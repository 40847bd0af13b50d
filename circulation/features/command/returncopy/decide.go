package returncopy

import (
	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/eventstore"
)

// Outcome tells the caller which way a return went.
type Outcome string

const (
	OutcomeReturned        Outcome = "Returned"
	OutcomePaymentRequired Outcome = "PaymentRequired"
	OutcomeSettled         Outcome = "Settled"
)

// Decision is the DecisionResult plus what the caller needs to present it.
type Decision struct {
	Result   core.DecisionResult
	Outcome  Outcome
	Fine     core.Fine
	Returned core.CopyReturnedByMember
}

// state represents the current state projected from the event history.
type state struct {
	openBorrow *core.OpenBorrow
}

// Decide implements the business logic of returning a copy.
//
// Business Rules:
//
//	GIVEN: an open borrow of the copy
//	WHEN: ReturnCopy without payment confirmation is received
//	THEN: CopyReturnedByMember is generated if the borrow is not overdue
//	THEN: nothing is generated and the assessed fine is reported if the borrow is overdue
//	ERROR: NoActiveBorrow if the copy has no open borrow
//
//	GIVEN: an open overdue borrow of the copy
//	WHEN: ReturnCopy with payment confirmation and a fine id is received
//	THEN: OverdueFineSettled and CopyReturnedByMember are generated if the fine assessed now has that id
//	ERROR: StaleFineState if there is no open borrow, it is not overdue, or the fine id differs
func Decide(history core.DomainEvents, command Command, policy core.FinePolicy) Decision {
	s := project(history, command.CopyID)

	if command.ConfirmPayment {
		return decideSettlement(s, command, policy)
	}

	if s.openBorrow == nil {
		return reject(command, core.ErrNoActiveBorrow)
	}

	fine, overdue := policy.Assess(*s.openBorrow, command.Today)
	if overdue {
		return Decision{
			Result:  core.PendingDecision(),
			Outcome: OutcomePaymentRequired,
			Fine:    fine,
		}
	}

	returned := core.BuildCopyReturnedByMember(*s.openBorrow, command.LibrarianID, command.Today, 0, command.OccurredAt)

	return Decision{
		Result:   core.SuccessDecision(returned),
		Outcome:  OutcomeReturned,
		Returned: returned,
	}
}

func decideSettlement(s state, command Command, policy core.FinePolicy) Decision {
	if s.openBorrow == nil {
		return reject(command, core.ErrStaleFineState.WithDetail("No active borrow found for this copy, restart the return"))
	}

	fine, overdue := policy.Assess(*s.openBorrow, command.Today)
	if !overdue || fine.FineID != command.FineID {
		return reject(command, core.ErrStaleFineState)
	}

	settled := core.BuildOverdueFineSettled(fine, command.LibrarianID, command.Today, command.OccurredAt)
	returned := core.BuildCopyReturnedByMember(
		*s.openBorrow,
		command.LibrarianID,
		command.Today,
		fine.DaysOverdue,
		command.OccurredAt,
	)

	return Decision{
		Result:   core.SuccessDecision(settled, returned),
		Outcome:  OutcomeSettled,
		Fine:     fine,
		Returned: returned,
	}
}

func reject(command Command, failure core.Failure) Decision {
	event := core.BuildOperationFailed(
		core.ReturningCopyFailedEventType,
		command.CopyID,
		command.LibrarianID,
		failure,
		command.OccurredAt,
	)

	return Decision{Result: core.ErrorDecision(event, failure)}
}

// project builds the current state by replaying all events from the history.
func project(history core.DomainEvents, copyID core.CopyIDString) state {
	s := state{}

	for _, event := range history {
		switch e := event.(type) {
		case core.CopyLentToMember:
			if e.CopyID == copyID {
				borrow := e.OpenBorrow()
				s.openBorrow = &borrow
			}

		case core.CopyReturnedByMember:
			if e.CopyID == copyID {
				s.openBorrow = nil
			}
		}
	}

	return s
}

// BuildEventFilter creates the filter for the lending history of one copy.
func BuildEventFilter(copyID core.CopyIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CopyLentToMemberEventType,
			core.CopyReturnedByMemberEventType,
		).
		AndAnyPredicateOf(eventstore.P("CopyID", copyID)).
		Finalize()
}
