package registermember

import (
	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/eventstore"
)

// Decide implements the business logic of registering a member.
//
// Business Rules:
//
//	GIVEN: no member with MemberID
//	WHEN: RegisterMember is received
//	THEN: MemberRegistered is generated
//	ERROR: DuplicateMember if the id is taken
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if isRegistered(history, command.MemberID) {
		failure := core.ErrDuplicateMember
		event := core.BuildOperationFailed(
			core.RegisteringMemberFailedEventType,
			command.MemberID,
			command.LibrarianID,
			failure,
			command.OccurredAt,
		)

		return core.ErrorDecision(event, failure)
	}

	return core.SuccessDecision(
		core.BuildMemberRegistered(
			command.MemberID,
			command.Name,
			command.Email,
			command.Phone,
			command.Address,
			command.OccurredAt,
		),
	)
}

func isRegistered(history core.DomainEvents, memberID core.MemberIDString) bool {
	for _, event := range history {
		if e, ok := event.(core.MemberRegistered); ok && e.MemberID == memberID {
			return true
		}
	}

	return false
}

// BuildEventFilter creates the filter for the registration of one member id.
func BuildEventFilter(memberID core.MemberIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.MemberRegisteredEventType).
		AndAnyPredicateOf(eventstore.P("MemberID", memberID)).
		Finalize()
}
