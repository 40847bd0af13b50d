package analytics

import (
	"cmp"
	"slices"
	"strings"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/eventstore"
)

type circulation struct {
	books       map[core.ISBNString]core.BookRegisteredInCatalog
	members     int
	openBorrows map[core.CopyIDString]core.CopyLentToMember
	borrowCount map[core.ISBNString]int
	fines       []core.OverdueFineSettled
}

func replay(history core.DomainEvents) circulation {
	c := circulation{
		books:       make(map[core.ISBNString]core.BookRegisteredInCatalog),
		openBorrows: make(map[core.CopyIDString]core.CopyLentToMember),
		borrowCount: make(map[core.ISBNString]int),
	}

	for _, event := range history {
		switch e := event.(type) {
		case core.BookRegisteredInCatalog:
			c.books[e.ISBN] = e

		case core.MemberRegistered:
			c.members++

		case core.CopyLentToMember:
			c.openBorrows[e.CopyID] = e
			c.borrowCount[e.ISBN]++

		case core.CopyReturnedByMember:
			delete(c.openBorrows, e.CopyID)

		case core.OverdueFineSettled:
			c.fines = append(c.fines, e)
		}
	}

	return c
}

// ProjectReport builds the report selected by query.Type.
//
// Query Logic:
//
//	GIVEN: the catalog, member, and circulation history
//	WHEN: Analytics is executed
//	THEN: the selected report is returned
//	INCLUDES: for overdue-today, the fine each loan would cost with policy
func ProjectReport(history core.DomainEvents, query Query, policy core.FinePolicy) Report {
	c := replay(history)
	report := Report{Type: query.Type}

	switch query.Type {
	case ReportOverview:
		report.Overview = c.overview(query.Today)
	case ReportOverdueToday:
		report.OverdueToday = c.overdue(query.Today, policy)
	case ReportTopBorrowedBooks:
		report.TopBorrowed = c.topBorrowed()
	case ReportFinesCollected:
		report.FinesCollected = c.finesPerMonth()
	}

	return report
}

func (c circulation) overview(today core.CalendarDate) *Overview {
	overview := &Overview{
		TotalBooks:    len(c.books),
		TotalMembers:  c.members,
		ActiveBorrows: len(c.openBorrows),
	}

	for _, borrow := range c.openBorrows {
		if core.DaysOverdue(borrow.DueDate, today) > 0 {
			overview.OverdueBooks++
		}
	}

	for _, fine := range c.fines {
		overview.TotalFines += fine.AmountCents
	}

	return overview
}

func (c circulation) overdue(today core.CalendarDate, policy core.FinePolicy) []OverdueLoan {
	loans := make([]OverdueLoan, 0)

	for _, borrow := range c.openBorrows {
		fine, overdue := policy.Assess(borrow.OpenBorrow(), today)
		if !overdue {
			continue
		}

		loans = append(loans, OverdueLoan{
			BorrowID:    borrow.BorrowID,
			CopyID:      borrow.CopyID,
			ISBN:        borrow.ISBN,
			Title:       c.books[borrow.ISBN].Title,
			MemberID:    borrow.MemberID,
			MemberName:  borrow.MemberName,
			MemberEmail: borrow.MemberEmail,
			BorrowDate:  borrow.BorrowDate,
			DueDate:     borrow.DueDate,
			DaysOverdue: fine.DaysOverdue,
			FineAmount:  fine.Amount,
		})
	}

	slices.SortFunc(loans, func(a, b OverdueLoan) int {
		return cmp.Or(
			cmp.Compare(b.DaysOverdue, a.DaysOverdue),
			strings.Compare(a.CopyID, b.CopyID),
		)
	})

	return loans
}

func (c circulation) topBorrowed() []BookBorrowCount {
	counts := make([]BookBorrowCount, 0, len(c.borrowCount))

	for isbn, count := range c.borrowCount {
		book := c.books[isbn]
		counts = append(counts, BookBorrowCount{
			ISBN:        isbn,
			Title:       book.Title,
			Authors:     book.Authors,
			BorrowCount: count,
		})
	}

	slices.SortFunc(counts, func(a, b BookBorrowCount) int {
		return cmp.Or(
			cmp.Compare(b.BorrowCount, a.BorrowCount),
			strings.Compare(a.Title, b.Title),
			strings.Compare(a.ISBN, b.ISBN),
		)
	})

	if len(counts) > TopBorrowedLimit {
		counts = counts[:TopBorrowedLimit]
	}

	return counts
}

func (c circulation) finesPerMonth() []MonthlyFines {
	byMonth := make(map[string]*MonthlyFines)

	for _, fine := range c.fines {
		month := fine.SettledOn.YearMonth()
		if byMonth[month] == nil {
			byMonth[month] = &MonthlyFines{Month: month}
		}

		byMonth[month].FineCount++
		byMonth[month].TotalAmount += fine.AmountCents
	}

	months := make([]MonthlyFines, 0, len(byMonth))
	for _, m := range byMonth {
		months = append(months, *m)
	}

	slices.SortFunc(months, func(a, b MonthlyFines) int {
		return strings.Compare(a.Month, b.Month)
	})

	return months
}

// BuildEventFilter creates the filter for all events the reports look at.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookRegisteredInCatalogEventType,
			core.MemberRegisteredEventType,
			core.CopyLentToMemberEventType,
			core.CopyReturnedByMemberEventType,
			core.OverdueFineSettledEventType,
		).
		Finalize()
}
