package updatestaffaccount_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/updatestaffaccount"
)

var now = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

func givenAccounts() core.DomainEvents {
	return core.DomainEvents{
		core.BuildStaffAccountOpened("u-1", "alice", "h1", core.RoleLibrarian, "Alice", "alice@example.com", now),
		core.BuildStaffAccountOpened("u-2", "bob", "h2", core.RoleLibrarian, "Bob", "bob@example.com", now),
		core.BuildStaffAccountOpened("a-1", "root", "h3", core.RoleAdmin, "Root", "root@example.com", now),
	}
}

func buildCommand(userID, username, passwordHash string) updatestaffaccount.Command {
	return updatestaffaccount.BuildCommand(
		userID, core.RoleLibrarian, username, passwordHash, "Alice", "alice@example.com", "a-1", now,
	)
}

func Test_Decide_RenameRecordsPreviousUsername(t *testing.T) {
	// act
	result := updatestaffaccount.Decide(givenAccounts(), buildCommand("u-1", "alicia", ""))

	// assert
	require.Len(t, result.Events, 1)
	updated, ok := result.Events[0].(core.StaffAccountUpdated)
	require.True(t, ok)
	assert.Equal(t, "alicia", updated.Username)
	assert.Equal(t, "alice", updated.PreviousUsername)
	assert.Empty(t, updated.PasswordHash)
}

func Test_Decide_Idempotent_WhenNothingChanges(t *testing.T) {
	// act
	result := updatestaffaccount.Decide(givenAccounts(), buildCommand("u-1", "alice", ""))

	// assert
	assert.True(t, result.IsIdempotent())
}

func Test_Decide_NewPasswordIsAChange(t *testing.T) {
	// act
	result := updatestaffaccount.Decide(givenAccounts(), buildCommand("u-1", "alice", "new-hash"))

	// assert
	assert.True(t, result.HasEventToAppend())
	assert.NoError(t, result.HasError())
}

func Test_Decide_Rejections(t *testing.T) {
	closed := append(givenAccounts(), core.BuildStaffAccountClosed("u-1", "alice", now))

	testCases := []struct {
		name     string
		history  core.DomainEvents
		command  updatestaffaccount.Command
		expected core.Failure
	}{
		{name: "unknown user", history: givenAccounts(), command: buildCommand("u-9", "zed", ""), expected: core.ErrStaffAccountNotFound},
		{name: "closed account", history: closed, command: buildCommand("u-1", "alice", ""), expected: core.ErrStaffAccountNotFound},
		{name: "admin account through librarian role", history: givenAccounts(), command: buildCommand("a-1", "root", ""), expected: core.ErrStaffAccountNotFound},
		{name: "username of another account", history: givenAccounts(), command: buildCommand("u-1", "bob", ""), expected: core.ErrDuplicateUsername},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := updatestaffaccount.Decide(tc.history, tc.command)

			// assert
			assert.ErrorIs(t, result.HasError(), tc.expected)
			require.Len(t, result.Events, 1)
			assert.Equal(t, core.UpdatingStaffAccountFailedEventType, result.Events[0].IsEventType())
		})
	}
}
