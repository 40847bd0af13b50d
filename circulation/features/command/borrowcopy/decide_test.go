package borrowcopy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/borrowcopy"
)

var (
	today   = core.NewCalendarDate(2024, time.March, 1)
	dueDate = today.AddDays(14)
	now     = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
)

func givenCopy(copyID string) core.CopyAddedToCirculation {
	return core.BuildCopyAddedToCirculation(copyID, "978-0-13-468599-1", now.Add(-48*time.Hour))
}

func givenMember(memberID string) core.MemberRegistered {
	return core.BuildMemberRegistered(memberID, "Ada Lovelace", "ada@example.com", "", "", now.Add(-24*time.Hour))
}

func givenLent(borrowID, copyID, memberID string) core.CopyLentToMember {
	return core.BuildCopyLentToMember(
		borrowID, copyID, "978-0-13-468599-1", givenMember(memberID), "lib-1",
		today.AddDays(-3), today.AddDays(11), now.Add(-time.Hour),
	)
}

func buildCommand(borrowID string, due core.CalendarDate) borrowcopy.Command {
	return borrowcopy.BuildCommand(borrowID, "c-1", "M001", due, today, "lib-1", now)
}

func Test_Decide_Success_WhenCopyAvailableAndMemberKnown(t *testing.T) {
	// arrange
	history := core.DomainEvents{givenCopy("c-1"), givenMember("M001")}

	// act
	result := borrowcopy.Decide(history, buildCommand("b-1", dueDate))

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)
	lent, ok := result.Events[0].(core.CopyLentToMember)
	require.True(t, ok)
	assert.Equal(t, "b-1", lent.BorrowID)
	assert.Equal(t, "978-0-13-468599-1", lent.ISBN)
	assert.Equal(t, "Ada Lovelace", lent.MemberName)
	assert.Equal(t, today, lent.BorrowDate)
	assert.Equal(t, dueDate, lent.DueDate)
}

func Test_Decide_Success_DueDateToday(t *testing.T) {
	// arrange
	history := core.DomainEvents{givenCopy("c-1"), givenMember("M001")}

	// act
	result := borrowcopy.Decide(history, buildCommand("b-1", today))

	// assert
	assert.NoError(t, result.HasError())
	assert.True(t, result.HasEventToAppend())
}

func Test_Decide_Success_AfterReturnCanBorrowAgain(t *testing.T) {
	// arrange
	lent := givenLent("b-0", "c-1", "M001")
	history := core.DomainEvents{
		givenCopy("c-1"),
		givenMember("M001"),
		lent,
		core.BuildCopyReturnedByMember(lent.OpenBorrow(), "lib-1", today, 0, now.Add(-time.Minute)),
	}

	// act
	result := borrowcopy.Decide(history, buildCommand("b-1", dueDate))

	// assert
	assert.NoError(t, result.HasError())
	assert.True(t, result.HasEventToAppend())
}

func Test_Decide_Idempotent_WhenSameBorrowAlreadyOpen(t *testing.T) {
	// arrange
	history := core.DomainEvents{givenCopy("c-1"), givenMember("M001"), givenLent("b-1", "c-1", "M001")}

	// act
	result := borrowcopy.Decide(history, buildCommand("b-1", dueDate))

	// assert
	assert.True(t, result.IsIdempotent())
	assert.False(t, result.HasEventToAppend())
}

func Test_Decide_Error(t *testing.T) {
	testCases := []struct {
		description string
		history     core.DomainEvents
		due         core.CalendarDate
		expected    core.Failure
	}{
		{
			description: "due date in the past",
			history:     core.DomainEvents{givenCopy("c-1"), givenMember("M001")},
			due:         today.AddDays(-1),
			expected:    core.ErrInvalidDueDate,
		},
		{
			description: "copy never added",
			history:     core.DomainEvents{givenMember("M001")},
			due:         dueDate,
			expected:    core.ErrCopyNotFound,
		},
		{
			description: "member not registered",
			history:     core.DomainEvents{givenCopy("c-1")},
			due:         dueDate,
			expected:    core.ErrMemberNotFound,
		},
		{
			description: "copy lent to someone else",
			history:     core.DomainEvents{givenCopy("c-1"), givenMember("M001"), givenLent("b-0", "c-1", "M002")},
			due:         dueDate,
			expected:    core.ErrCopyUnavailable,
		},
		{
			description: "copy retired",
			history: core.DomainEvents{
				givenCopy("c-1"),
				givenMember("M001"),
				core.BuildCopyRetired("c-1", "978-0-13-468599-1", "lib-1", now.Add(-time.Hour)),
			},
			due:      dueDate,
			expected: core.ErrCopyUnavailable,
		},
		{
			description: "borrow id of a closed loan of this copy",
			history: core.DomainEvents{
				givenCopy("c-1"),
				givenMember("M001"),
				givenLent("b-1", "c-1", "M001"),
				core.BuildCopyReturnedByMember(givenLent("b-1", "c-1", "M001").OpenBorrow(), "lib-1", today, 0, now.Add(-time.Minute)),
			},
			due:      dueDate,
			expected: core.ErrDuplicateBorrowID,
		},
		{
			description: "borrow id of an open loan of another copy",
			history:     core.DomainEvents{givenCopy("c-1"), givenMember("M001"), givenLent("b-1", "c-9", "M002")},
			due:         dueDate,
			expected:    core.ErrDuplicateBorrowID,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// act
			result := borrowcopy.Decide(tc.history, buildCommand("b-1", tc.due))

			// assert
			assert.ErrorIs(t, result.HasError(), tc.expected)
			require.Len(t, result.Events, 1)
			failed, ok := result.Events[0].(core.OperationFailed)
			require.True(t, ok)
			assert.Equal(t, core.BorrowingCopyFailedEventType, failed.EventType)
			assert.Equal(t, tc.expected.Code, failed.FailureCode)
		})
	}
}

func Test_BuildEventFilter_SelectsLoansCarryingTheBorrowID(t *testing.T) {
	// act
	filter := borrowcopy.BuildEventFilter("c-1", "M001", "b-1")

	// assert
	require.Len(t, filter.Items(), 3)
	loans := filter.Items()[2]
	assert.Equal(t, []string{core.CopyLentToMemberEventType}, loans.EventTypes())
	require.Len(t, loans.Predicates(), 1)
	assert.Equal(t, "BorrowID", loans.Predicates()[0].Key())
	assert.Equal(t, "b-1", loans.Predicates()[0].Val())
}

func Test_Command_Validate_RequiresCopyMemberAndDueDate(t *testing.T) {
	// arrange
	command := borrowcopy.BuildCommand("b-1", " ", "M001", dueDate, today, "lib-1", now)

	// act
	err := command.Validate()

	// assert
	assert.ErrorIs(t, err, core.ErrValidation)
}
