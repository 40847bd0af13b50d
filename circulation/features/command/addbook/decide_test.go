package addbook_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/addbook"
	"github.com/AntonStoeckl/library-circulation/testutil/helper"
)

var now = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

func buildCommand(copyID string, authors ...string) addbook.Command {
	return addbook.BuildCommand(
		copyID, " "+helper.FixtureISBN+" ", "Learning Domain-Driven Design", authors,
		"", "Software", 2021, "", "lib-1", now,
	)
}

func Test_Decide_RegistersNewBookWithFirstCopy(t *testing.T) {
	// arrange
	command := buildCommand("c-1", helper.FixtureAuthor)

	// act
	result := addbook.Decide(core.DomainEvents{}, command)

	// assert
	require.Len(t, result.Events, 2)
	book, ok := result.Events[0].(core.BookRegisteredInCatalog)
	require.True(t, ok)
	assert.Equal(t, helper.FixtureISBN, book.ISBN)
	assert.Equal(t, "Unknown", book.Publisher)
	copyAdded, ok := result.Events[1].(core.CopyAddedToCirculation)
	require.True(t, ok)
	assert.Equal(t, "c-1", copyAdded.CopyID)
}

func Test_Decide_KnownISBNAddsOnlyTheCopy(t *testing.T) {
	// arrange
	history := core.DomainEvents{helper.FixtureBookRegistered(helper.FixtureISBN, "Software", now.Add(-time.Hour))}

	// act
	result := addbook.Decide(history, buildCommand("c-2", "Somebody Else"))

	// assert
	require.Len(t, result.Events, 1)
	assert.Equal(t, core.CopyAddedToCirculationEventType, result.Events[0].IsEventType())
}

func Test_Decide_Idempotent_WhenCopyAlreadyAdded(t *testing.T) {
	// arrange
	history := core.DomainEvents{
		helper.FixtureBookRegistered(helper.FixtureISBN, "Software", now.Add(-time.Hour)),
		helper.FixtureCopyAdded("c-1", helper.FixtureISBN, now.Add(-time.Hour)),
	}

	// act
	result := addbook.Decide(history, buildCommand("c-1", helper.FixtureAuthor))

	// assert
	assert.True(t, result.IsIdempotent())
}

func Test_BuildCommand_CleansAuthors(t *testing.T) {
	// act
	command := buildCommand("c-1", " Vlad Khononov ", "  ", "")

	// assert
	assert.Equal(t, []string{"Vlad Khononov"}, command.Authors)
	assert.NoError(t, command.Validate())
}

func Test_Command_Validate_RequiresAnAuthor(t *testing.T) {
	// act
	err := buildCommand("c-1", " ").Validate()

	// assert
	assert.ErrorIs(t, err, core.ErrValidation)
}
