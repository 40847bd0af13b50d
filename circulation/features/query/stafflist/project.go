package stafflist

import (
	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/eventstore"
)

// ProjectStaffMembers returns the open accounts with query.Role.
//
// Query Logic:
//
//	GIVEN: all staff account events
//	WHEN: StaffList is executed
//	THEN: the open accounts of the role are returned in opening order
//	EXCLUDES: closed accounts and password hashes
func ProjectStaffMembers(history core.DomainEvents, query Query) StaffMembers {
	members := make([]StaffMember, 0)

	for _, account := range core.ProjectStaffAccounts(history).Open() {
		if account.Role != query.Role {
			continue
		}

		members = append(members, StaffMember{
			UserID:    account.UserID,
			Username:  account.Username,
			Role:      account.Role,
			FullName:  account.FullName,
			Email:     account.Email,
			CreatedAt: account.OpenedAt,
			UpdatedAt: account.UpdatedAt,
		})
	}

	return StaffMembers{Members: members, Count: len(members)}
}

// BuildEventFilter creates the filter for all staff account events.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.StaffAccountOpenedEventType,
			core.StaffAccountUpdatedEventType,
			core.StaffAccountClosedEventType,
		).
		Finalize()
}
