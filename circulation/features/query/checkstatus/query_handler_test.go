package checkstatus_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/checkstatus"
	"github.com/AntonStoeckl/library-circulation/eventstore/memengine"
	"github.com/AntonStoeckl/library-circulation/testutil/helper"
)

var (
	now   = time.Date(2024, time.March, 20, 9, 0, 0, 0, time.UTC)
	today = core.NewCalendarDate(2024, time.March, 20)
)

func Test_QueryHandler_Handle_AvailableCopyWithBookMetadata(t *testing.T) {
	// arrange
	store := memengine.NewEventStore()
	helper.GivenEvents(t, store,
		helper.FixtureBookRegistered(helper.FixtureISBN, "Software", now),
		helper.FixtureCopyAdded("c-1", helper.FixtureISBN, now),
	)

	// act
	status, err := checkstatus.NewQueryHandler(store).Handle(context.Background(), checkstatus.BuildQuery("c-1", today))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.CopyAvailable, status.Status)
	assert.True(t, status.IsAvailable)
	assert.Equal(t, helper.FixtureTitle, status.Title)
	assert.Equal(t, []string{helper.FixtureAuthor}, status.Authors)
	assert.Nil(t, status.Borrow)
}

func Test_QueryHandler_Handle_BorrowedCopyShowsBorrow(t *testing.T) {
	// arrange
	store := memengine.NewEventStore()
	helper.GivenEvents(t, store,
		helper.FixtureBookRegistered(helper.FixtureISBN, "Software", now),
		helper.FixtureCopyAdded("c-1", helper.FixtureISBN, now),
		helper.FixtureCopyLent("b-1", "c-1", helper.FixtureISBN, "M001", today.AddDays(-20), today.AddDays(-6), now),
	)

	// act
	status, err := checkstatus.NewQueryHandler(store).Handle(context.Background(), checkstatus.BuildQuery("c-1", today))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.CopyBorrowed, status.Status)
	assert.False(t, status.IsAvailable)
	require.NotNil(t, status.Borrow)
	assert.Equal(t, "M001", status.Borrow.MemberID)
	assert.Equal(t, "Ada Lovelace", status.Borrow.MemberName)
	assert.Equal(t, 6, status.Borrow.DaysOverdue)
}

func Test_QueryHandler_Handle_RetiredCopyIsLost(t *testing.T) {
	// arrange
	store := memengine.NewEventStore()
	helper.GivenEvents(t, store,
		helper.FixtureCopyAdded("c-1", helper.FixtureISBN, now),
		core.BuildCopyRetired("c-1", helper.FixtureISBN, "lib-1", now),
	)

	// act
	status, err := checkstatus.NewQueryHandler(store).Handle(context.Background(), checkstatus.BuildQuery("c-1", today))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.CopyLost, status.Status)
}

func Test_QueryHandler_Handle_UnknownCopy(t *testing.T) {
	// act
	_, err := checkstatus.NewQueryHandler(memengine.NewEventStore()).Handle(context.Background(), checkstatus.BuildQuery("nope", today))

	// assert
	assert.ErrorIs(t, err, core.ErrCopyNotFound)
}
