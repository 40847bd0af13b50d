package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/analytics"
	"github.com/AntonStoeckl/library-circulation/eventstore/memengine"
	"github.com/AntonStoeckl/library-circulation/testutil/helper"
)

var (
	now    = time.Date(2024, time.April, 10, 9, 0, 0, 0, time.UTC)
	today  = core.NewCalendarDate(2024, time.April, 10)
	policy = core.NewFinePolicy(core.DefaultFineRatePerDay)
)

func givenHistory() core.DomainEvents {
	settledLoan := helper.FixtureCopyLent("b-1", "c-1", "111", "M001", today.AddDays(-40), today.AddDays(-30), now)
	settledFine, _ := policy.Assess(settledLoan.OpenBorrow(), today.AddDays(-25))

	return core.DomainEvents{
		helper.FixtureBookRegistered("111", "Go", now),
		core.BuildBookRegisteredInCatalog("222", "Dune", []string{"Frank Herbert"}, "Ace", "SF", 1965, "", now),
		helper.FixtureMemberRegistered("M001", now),
		helper.FixtureMemberRegistered("M002", now),
		settledLoan,
		core.BuildOverdueFineSettled(settledFine, "lib-1", today.AddDays(-25), now),
		helper.FixtureCopyReturned(settledLoan, today.AddDays(-25), now),
		helper.FixtureCopyLent("b-2", "c-1", "111", "M002", today.AddDays(-20), today.AddDays(-3), now),
		helper.FixtureCopyLent("b-3", "c-2", "222", "M001", today.AddDays(-2), today.AddDays(12), now),
	}
}

func Test_ProjectReport_Overview(t *testing.T) {
	// act
	report := analytics.ProjectReport(givenHistory(), analytics.BuildQuery("", today), policy)

	// assert
	require.NotNil(t, report.Overview)
	assert.Equal(t, analytics.Overview{
		TotalBooks:    2,
		TotalMembers:  2,
		ActiveBorrows: 2,
		OverdueBooks:  1,
		TotalFines:    core.Money(5000),
	}, *report.Overview)
}

func Test_ProjectReport_OverdueToday(t *testing.T) {
	// act
	report := analytics.ProjectReport(givenHistory(), analytics.BuildQuery("overdue-today", today), policy)

	// assert
	require.Len(t, report.OverdueToday, 1)
	loan := report.OverdueToday[0]
	assert.Equal(t, "b-2", loan.BorrowID)
	assert.Equal(t, 3, loan.DaysOverdue)
	assert.Equal(t, "30.00", loan.FineAmount.String())
	assert.Equal(t, helper.FixtureTitle, loan.Title)
}

func Test_ProjectReport_TopBorrowedAndFines(t *testing.T) {
	// act
	top := analytics.ProjectReport(givenHistory(), analytics.BuildQuery("top-borrowed-books", today), policy)
	fines := analytics.ProjectReport(givenHistory(), analytics.BuildQuery("fines-collected", today), policy)

	// assert
	require.Len(t, top.TopBorrowed, 2)
	assert.Equal(t, "111", top.TopBorrowed[0].ISBN)
	assert.Equal(t, 2, top.TopBorrowed[0].BorrowCount)
	assert.Equal(t, []analytics.MonthlyFines{{Month: "2024-03", FineCount: 1, TotalAmount: 5000}}, fines.FinesCollected)
}

func Test_QueryHandler_Handle_UnknownType(t *testing.T) {
	// act
	_, err := analytics.NewQueryHandler(memengine.NewEventStore(), policy).
		Handle(context.Background(), analytics.BuildQuery("weather", today))

	// assert
	assert.ErrorIs(t, err, core.ErrValidation)
}
