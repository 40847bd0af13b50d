package updatestaffaccount

import (
	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/eventstore"
)

// Decide implements the business logic of updating a staff account.
//
// Business Rules:
//
//	GIVEN: an open account with UserID and Role
//	WHEN: UpdateStaffAccount is received
//	THEN: StaffAccountUpdated is generated
//	ERROR: StaffAccountNotFound if there is no such open account with that role
//	ERROR: DuplicateUsername if another open account holds the new username
//	IDEMPOTENCY: if nothing would change, nothing is generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	accounts := core.ProjectStaffAccounts(history)

	account, ok := accounts.ByID(command.UserID)
	if !ok || account.Closed || account.Role != command.Role {
		return reject(command, core.ErrStaffAccountNotFound)
	}

	if holder, taken := accounts.OpenByUsername(command.Username); taken && holder.UserID != command.UserID {
		return reject(command, core.ErrDuplicateUsername)
	}

	if command.PasswordHash == "" &&
		account.Username == command.Username &&
		account.FullName == command.FullName &&
		account.Email == command.Email {

		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildStaffAccountUpdated(
			command.UserID,
			command.Username,
			account.Username,
			command.PasswordHash,
			command.FullName,
			command.Email,
			command.OccurredAt,
		),
	)
}

func reject(command Command, failure core.Failure) core.DecisionResult {
	event := core.BuildOperationFailed(
		core.UpdatingStaffAccountFailedEventType,
		command.UserID,
		command.ActorID,
		failure,
		command.OccurredAt,
	)

	return core.ErrorDecision(event, failure)
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
