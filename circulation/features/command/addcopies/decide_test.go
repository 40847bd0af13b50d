package addcopies_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/addcopies"
	"github.com/AntonStoeckl/library-circulation/testutil/helper"
)

var now = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

func Test_Decide_AddsOneEventPerCopy(t *testing.T) {
	// arrange
	history := core.DomainEvents{helper.FixtureBookRegistered(helper.FixtureISBN, "", now)}
	command := addcopies.BuildCommand(helper.FixtureISBN, 3, "lib-1", now)

	// act
	result := addcopies.Decide(history, command)

	// assert
	require.Len(t, result.Events, 3)
	for i, event := range result.Events {
		copyAdded, ok := event.(core.CopyAddedToCirculation)
		require.True(t, ok)
		assert.Equal(t, command.CopyIDs[i], copyAdded.CopyID)
		assert.Equal(t, helper.FixtureISBN, copyAdded.ISBN)
	}
}

func Test_Decide_BookNotFound(t *testing.T) {
	// arrange
	command := addcopies.BuildCommand("000-0-00-000000-0", 2, "lib-1", now)

	// act
	result := addcopies.Decide(core.DomainEvents{}, command)

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrBookNotFound)
	require.Len(t, result.Events, 1)
	assert.Equal(t, core.AddingCopiesFailedEventType, result.Events[0].IsEventType())
}

func Test_Decide_Idempotent_WhenCopiesExist(t *testing.T) {
	// arrange
	command := addcopies.BuildCommandWithCopyIDs(helper.FixtureISBN, 1, []string{"c-1"}, "lib-1", now)
	history := core.DomainEvents{
		helper.FixtureBookRegistered(helper.FixtureISBN, "", now),
		helper.FixtureCopyAdded("c-1", helper.FixtureISBN, now),
	}

	// act
	result := addcopies.Decide(history, command)

	// assert
	assert.True(t, result.IsIdempotent())
}

func Test_Command_Validate_Quantity(t *testing.T) {
	testCases := []struct {
		name     string
		quantity int
		valid    bool
	}{
		{name: "zero", quantity: 0},
		{name: "negative", quantity: -1},
		{name: "one", quantity: 1, valid: true},
		{name: "hundred", quantity: 100, valid: true},
		{name: "hundred and one", quantity: 101},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			err := addcopies.BuildCommand(helper.FixtureISBN, tc.quantity, "lib-1", now).Validate()

			// assert
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, core.ErrInvalidQuantity)
		})
	}
}
