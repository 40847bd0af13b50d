package retirecopy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/retirecopy"
	"github.com/AntonStoeckl/library-circulation/testutil/helper"
)

var (
	now   = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	today = core.NewCalendarDate(2024, time.March, 1)
)

func givenLent() core.CopyLentToMember {
	return helper.FixtureCopyLent("b-1", "c-1", helper.FixtureISBN, "M001", today, today.AddDays(14), now)
}

func Test_Decide_RetiresAvailableCopy(t *testing.T) {
	// arrange
	history := core.DomainEvents{helper.FixtureCopyAdded("c-1", helper.FixtureISBN, now)}

	// act
	result := retirecopy.Decide(history, retirecopy.BuildCommand("c-1", "lib-1", now))

	// assert
	require.Len(t, result.Events, 1)
	retired, ok := result.Events[0].(core.CopyRetired)
	require.True(t, ok)
	assert.Equal(t, helper.FixtureISBN, retired.ISBN)
	assert.Equal(t, "lib-1", retired.RetiredBy)
}

func Test_Decide_RetiresReturnedCopy(t *testing.T) {
	// arrange
	lent := givenLent()
	history := core.DomainEvents{
		helper.FixtureCopyAdded("c-1", helper.FixtureISBN, now),
		lent,
		helper.FixtureCopyReturned(lent, today, now),
	}

	// act
	result := retirecopy.Decide(history, retirecopy.BuildCommand("c-1", "lib-1", now))

	// assert
	assert.NoError(t, result.HasError())
	assert.True(t, result.HasEventToAppend())
}

func Test_Decide_Rejections(t *testing.T) {
	testCases := []struct {
		name     string
		history  core.DomainEvents
		expected core.Failure
	}{
		{
			name:     "unknown copy",
			history:  core.DomainEvents{},
			expected: core.ErrCopyNotFound,
		},
		{
			name:     "copy on loan",
			history:  core.DomainEvents{helper.FixtureCopyAdded("c-1", helper.FixtureISBN, now), givenLent()},
			expected: core.ErrCopyOnLoan,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := retirecopy.Decide(tc.history, retirecopy.BuildCommand("c-1", "lib-1", now))

			// assert
			assert.ErrorIs(t, result.HasError(), tc.expected)
			require.Len(t, result.Events, 1)
			assert.Equal(t, core.RetiringCopyFailedEventType, result.Events[0].IsEventType())
		})
	}
}

func Test_Decide_Idempotent_WhenAlreadyRetired(t *testing.T) {
	// arrange
	history := core.DomainEvents{
		helper.FixtureCopyAdded("c-1", helper.FixtureISBN, now),
		core.BuildCopyRetired("c-1", helper.FixtureISBN, "lib-1", now),
	}

	// act
	result := retirecopy.Decide(history, retirecopy.BuildCommand("c-1", "lib-2", now))

	// assert
	assert.True(t, result.IsIdempotent())
}
