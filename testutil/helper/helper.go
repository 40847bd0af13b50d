// Package helper provides fixtures and seeding for handler and HTTP tests.
package helper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/shell"
	"github.com/AntonStoeckl/library-circulation/eventstore"
)

const (
	FixtureISBN   = "978-1-098-10013-1"
	FixtureTitle  = "Learning Domain-Driven Design"
	FixtureAuthor = "Vlad Khononov"
)

func GivenUniqueID(t testing.TB) string {
	id, err := uuid.NewV7()
	require.NoError(t, err, "error in arranging test data")

	return id.String()
}

// GivenEvents appends events in one unconditional batch.
func GivenEvents(t testing.TB, es shell.EventStore, events ...core.DomainEvent) {
	t.Helper()

	if len(events) == 0 {
		return
	}

	ctx := eventstore.WithStrongConsistency(context.Background())
	filter := eventstore.BuildEventFilter().MatchingAnyEvent()

	_, maxSequenceNumber, err := es.Query(ctx, filter)
	require.NoError(t, err, "error in arranging test data")

	storableEvents, err := shell.StorableEventsFrom(events, shell.NewEventMetadata(ctx, "fixture"))
	require.NoError(t, err, "error in arranging test data")

	err = es.Append(ctx, filter, maxSequenceNumber, storableEvents[0], storableEvents[1:]...)
	require.NoError(t, err, "error in arranging test data")
}

func FixtureBookRegistered(isbn string, category string, fakeClock time.Time) core.BookRegisteredInCatalog {
	return core.BuildBookRegisteredInCatalog(
		isbn,
		FixtureTitle,
		[]string{FixtureAuthor},
		"O'Reilly Media, Inc.",
		category,
		2021,
		"",
		fakeClock,
	)
}

func FixtureCopyAdded(copyID string, isbn string, fakeClock time.Time) core.CopyAddedToCirculation {
	return core.BuildCopyAddedToCirculation(copyID, isbn, fakeClock)
}

func FixtureMemberRegistered(memberID string, fakeClock time.Time) core.MemberRegistered {
	return core.BuildMemberRegistered(memberID, "Ada Lovelace", "ada@example.com", "555-0100", "12 Analytical Way", fakeClock)
}

func FixtureCopyLent(
	borrowID string,
	copyID string,
	isbn string,
	memberID string,
	borrowDate core.CalendarDate,
	dueDate core.CalendarDate,
	fakeClock time.Time,
) core.CopyLentToMember {

	return core.BuildCopyLentToMember(
		borrowID,
		copyID,
		isbn,
		FixtureMemberRegistered(memberID, fakeClock),
		"librarian-1",
		borrowDate,
		dueDate,
		fakeClock,
	)
}

func FixtureCopyReturned(lent core.CopyLentToMember, returnDate core.CalendarDate, fakeClock time.Time) core.CopyReturnedByMember {
	return core.BuildCopyReturnedByMember(
		lent.OpenBorrow(),
		"librarian-1",
		returnDate,
		core.DaysOverdue(lent.DueDate, returnDate),
		fakeClock,
	)
}

func FixtureStaffAccountOpened(
	userID string,
	username string,
	passwordHash string,
	role core.Role,
	fakeClock time.Time,
) core.StaffAccountOpened {

	return core.BuildStaffAccountOpened(userID, username, passwordHash, role, "Grace Hopper", username+"@library.example", fakeClock)
}
