package openstaffaccount

import (
	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/eventstore"
)

// Decide implements the business logic of opening a staff account.
//
// Business Rules:
//
//	GIVEN: no open account with Username
//	WHEN: OpenStaffAccount is received
//	THEN: StaffAccountOpened is generated
//	ERROR: DuplicateUsername if an open account holds the username
//	IDEMPOTENCY: if the account with UserID was already opened, nothing is generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	accounts := core.ProjectStaffAccounts(history)

	if _, ok := accounts.ByID(command.UserID); ok {
		return core.IdempotentDecision()
	}

	if _, taken := accounts.OpenByUsername(command.Username); taken {
		failure := core.ErrDuplicateUsername
		event := core.BuildOperationFailed(
			core.OpeningStaffAccountFailedEventType,
			command.Username,
			command.ActorID,
			failure,
			command.OccurredAt,
		)

		return core.ErrorDecision(event, failure)
	}

	return core.SuccessDecision(
		core.BuildStaffAccountOpened(
			command.UserID,
			command.Username,
			command.PasswordHash,
			command.Role,
			command.FullName,
			command.Email,
			command.OccurredAt,
		),
	)
}

// BuildEventFilter creates the filter for the account with userID and every account that held username.
func BuildEventFilter(userID core.UserIDString, username string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.StaffAccountOpenedEventType,
			core.StaffAccountUpdatedEventType,
			core.StaffAccountClosedEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("UserID", userID),
			eventstore.P("Username", username),
			eventstore.P("PreviousUsername", username),
		).
		Finalize()
}
