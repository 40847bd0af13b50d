package borrowcopy

import (
	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/eventstore"
)

// state represents the current state projected from the event history.
type state struct {
	copyExists   bool
	copyISBN     core.ISBNString
	copyRetired  bool
	openBorrow   *core.CopyLentToMember
	memberExists bool
	member       core.MemberRegistered
	borrowIDUsed bool
}

// Decide implements the business logic of lending a copy.
//
// Business Rules:
//
//	GIVEN: a copy with CopyID and a member with MemberID
//	WHEN: BorrowCopy is received
//	THEN: CopyLentToMember is generated
//	ERROR: InvalidDueDate if the due date is before today
//	ERROR: CopyNotFound if the copy was never added
//	ERROR: MemberNotFound if the member is not registered
//	ERROR: CopyUnavailable if the copy is borrowed or retired
//	ERROR: DuplicateBorrowID if BorrowID belongs to any other loan, open or closed
//	IDEMPOTENCY: if the open borrow of this copy has this BorrowID, nothing is generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	s := project(history, command.CopyID, command.MemberID, command.BorrowID)

	if s.openBorrow != nil && s.openBorrow.BorrowID == command.BorrowID {
		return core.IdempotentDecision()
	}

	if s.borrowIDUsed {
		return reject(command, core.ErrDuplicateBorrowID)
	}

	if command.DueDate.Before(command.Today) {
		return reject(command, core.ErrInvalidDueDate)
	}

	if !s.copyExists {
		return reject(command, core.ErrCopyNotFound)
	}

	if !s.memberExists {
		return reject(command, core.ErrMemberNotFound)
	}

	if s.copyRetired {
		return reject(command, core.ErrCopyUnavailable.WithDetail("Book copy is not available (status: Lost)"))
	}

	if s.openBorrow != nil {
		return reject(command, core.ErrCopyUnavailable.WithDetail("Book copy is not available (status: Borrowed)"))
	}

	return core.SuccessDecision(
		core.BuildCopyLentToMember(
			command.BorrowID,
			command.CopyID,
			s.copyISBN,
			s.member,
			command.LibrarianID,
			command.Today,
			command.DueDate,
			command.OccurredAt,
		),
	)
}

func reject(command Command, failure core.Failure) core.DecisionResult {
	event := core.BuildOperationFailed(
		core.BorrowingCopyFailedEventType,
		command.CopyID,
		command.LibrarianID,
		failure,
		command.OccurredAt,
	)

	return core.ErrorDecision(event, failure)
}

// project builds the current state by replaying all events from the history.
func project(
	history core.DomainEvents,
	copyID core.CopyIDString,
	memberID core.MemberIDString,
	borrowID core.BorrowIDString,
) state {

	s := state{}

	for _, event := range history {
		switch e := event.(type) {
		case core.CopyAddedToCirculation:
			if e.CopyID == copyID {
				s.copyExists = true
				s.copyISBN = e.ISBN
			}

		case core.CopyRetired:
			if e.CopyID == copyID {
				s.copyRetired = true
			}

		case core.CopyLentToMember:
			if e.BorrowID == borrowID {
				s.borrowIDUsed = true
			}

			if e.CopyID == copyID {
				lent := e
				s.openBorrow = &lent
			}

		case core.CopyReturnedByMember:
			if e.CopyID == copyID {
				s.openBorrow = nil
			}

		case core.MemberRegistered:
			if e.MemberID == memberID {
				s.memberExists = true
				s.member = e
			}
		}
	}

	return s
}

// BuildEventFilter creates the filter for all events of the copy, the member's registration,
// and every loan that already carries borrowID.
func BuildEventFilter(
	copyID core.CopyIDString,
	memberID core.MemberIDString,
	borrowID core.BorrowIDString,
) eventstore.Filter {

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CopyAddedToCirculationEventType,
			core.CopyRetiredEventType,
			core.CopyLentToMemberEventType,
			core.CopyReturnedByMemberEventType,
		).
		AndAnyPredicateOf(eventstore.P("CopyID", copyID)).
		OrMatching().
		AnyEventTypeOf(core.MemberRegisteredEventType).
		AndAnyPredicateOf(eventstore.P("MemberID", memberID)).
		OrMatching().
		AnyEventTypeOf(core.CopyLentToMemberEventType).
		AndAnyPredicateOf(eventstore.P("BorrowID", borrowID)).
		Finalize()
}
