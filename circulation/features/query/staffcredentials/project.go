package staffcredentials

import (
	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/eventstore"
)

// ProjectCredentials returns the credentials of the open account holding query.Username.
// history must hold all events of every account that ever carried the username.
func ProjectCredentials(history core.DomainEvents, query Query) (Credentials, error) {
	account, ok := core.ProjectStaffAccounts(history).OpenByUsername(query.Username)
	if !ok || account.PasswordHash == "" {
		return Credentials{}, core.ErrStaffAccountNotFound
	}

	return Credentials{
		UserID:       account.UserID,
		Username:     account.Username,
		Role:         account.Role,
		PasswordHash: account.PasswordHash,
	}, nil
}

func candidateUserIDs(history core.DomainEvents) []core.UserIDString {
	seen := make(map[core.UserIDString]bool)
	userIDs := make([]core.UserIDString, 0)

	for _, event := range history {
		var userID core.UserIDString

		switch e := event.(type) {
		case core.StaffAccountOpened:
			userID = e.UserID
		case core.StaffAccountUpdated:
			userID = e.UserID
		case core.StaffAccountClosed:
			userID = e.UserID
		default:
			continue
		}

		if !seen[userID] {
			seen[userID] = true
			userIDs = append(userIDs, userID)
		}
	}

	return userIDs
}

// BuildUsernameEventFilter creates the filter for staff account events naming username.
func BuildUsernameEventFilter(username string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.StaffAccountOpenedEventType,
			core.StaffAccountUpdatedEventType,
			core.StaffAccountClosedEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("Username", username),
			eventstore.P("PreviousUsername", username),
		).
		Finalize()
}

// BuildAccountsEventFilter creates the filter for all events of the given accounts.
// userIDs must not be empty.
func BuildAccountsEventFilter(userIDs []core.UserIDString) eventstore.Filter {
	predicates := make([]eventstore.FilterPredicate, 0, len(userIDs))
	for _, userID := range userIDs {
		predicates = append(predicates, eventstore.P("UserID", userID))
	}

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.StaffAccountOpenedEventType,
			core.StaffAccountUpdatedEventType,
			core.StaffAccountClosedEventType,
		).
		AndAnyPredicateOf(predicates[0], predicates[1:]...).
		Finalize()
}
