package openstaffaccount_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/openstaffaccount"
)

var now = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

func buildCommand(userID, username string) openstaffaccount.Command {
	return openstaffaccount.BuildCommand(
		userID, username, "$2a$10$hash", core.RoleLibrarian, "Alice Smith", "alice@example.com", "admin-1", now,
	)
}

func Test_Decide_OpensAccount(t *testing.T) {
	// act
	result := openstaffaccount.Decide(core.DomainEvents{}, buildCommand("u-1", "alice"))

	// assert
	require.Len(t, result.Events, 1)
	opened, ok := result.Events[0].(core.StaffAccountOpened)
	require.True(t, ok)
	assert.Equal(t, "alice", opened.Username)
	assert.Equal(t, core.RoleLibrarian, opened.Role)
}

func Test_Decide_DuplicateUsernameAmongOpenAccounts(t *testing.T) {
	// arrange
	history := core.DomainEvents{
		core.BuildStaffAccountOpened("u-1", "alice", "h", core.RoleLibrarian, "Alice", "a@example.com", now),
	}

	// act
	result := openstaffaccount.Decide(history, buildCommand("u-2", "alice"))

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrDuplicateUsername)
	require.Len(t, result.Events, 1)
	assert.Equal(t, core.OpeningStaffAccountFailedEventType, result.Events[0].IsEventType())
}

func Test_Decide_ClosedAccountFreesUsername(t *testing.T) {
	// arrange
	history := core.DomainEvents{
		core.BuildStaffAccountOpened("u-1", "alice", "h", core.RoleLibrarian, "Alice", "a@example.com", now),
		core.BuildStaffAccountClosed("u-1", "alice", now),
	}

	// act
	result := openstaffaccount.Decide(history, buildCommand("u-2", "alice"))

	// assert
	assert.NoError(t, result.HasError())
	assert.True(t, result.HasEventToAppend())
}

func Test_Command_Validate_RejectsUnknownRole(t *testing.T) {
	// arrange
	command := openstaffaccount.BuildCommand("u-1", "alice", "h", core.Role("Janitor"), "Alice", "a@example.com", "admin-1", now)

	// act
	err := command.Validate()

	// assert
	assert.ErrorIs(t, err, core.ErrValidation)
}
