package closestaffaccount

import (
	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/eventstore"
)

// Decide implements the business logic of closing a staff account.
//
// Business Rules:
//
//	GIVEN: an open account with UserID and Role
//	WHEN: CloseStaffAccount is received
//	THEN: StaffAccountClosed is generated
//	ERROR: StaffAccountNotFound if there is no such open account with that role
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	account, ok := core.ProjectStaffAccounts(history).ByID(command.UserID)

	if !ok || account.Closed || account.Role != command.Role {
		failure := core.ErrStaffAccountNotFound
		event := core.BuildOperationFailed(
			core.ClosingStaffAccountFailedEventType,
			command.UserID,
			command.ActorID,
			failure,
			command.OccurredAt,
		)

		return core.ErrorDecision(event, failure)
	}

	return core.SuccessDecision(
		core.BuildStaffAccountClosed(command.UserID, account.Username, command.OccurredAt),
	)
}

// BuildEventFilter creates the filter for all events of one account.
func BuildEventFilter(userID core.UserIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.StaffAccountOpenedEventType,
			core.StaffAccountUpdatedEventType,
			core.StaffAccountClosedEventType,
		).
		AndAnyPredicateOf(eventstore.P("UserID", userID)).
		Finalize()
}
