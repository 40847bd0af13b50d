package core

import (
	"fmt"

	"github.com/google/uuid"
)

// fineNamespace scopes the name-based fine ids.
var fineNamespace = uuid.MustParse("6f1d9a52-3c1e-4e4b-9a43-1f0c5e2d8b71")

// DefaultFineRatePerDay is 10.00 per overdue day.
const DefaultFineRatePerDay Money = 1000

// FinePolicy charges a flat rate per whole overdue calendar day.
type FinePolicy struct {
	RatePerDay Money
}

// NewFinePolicy returns a policy with the given daily rate.
func NewFinePolicy(ratePerDay Money) FinePolicy {
	return FinePolicy{RatePerDay: ratePerDay}
}

// DaysOverdue returns max(0, today - dueDate) in whole days.
func DaysOverdue(dueDate CalendarDate, today CalendarDate) int {
	return max(0, today.DaysSince(dueDate))
}

// AmountFor returns the fine for the given number of overdue days.
func (p FinePolicy) AmountFor(daysOverdue int) Money {
	return p.RatePerDay.Times(max(0, daysOverdue))
}

// Fine is an assessed but not yet settled fine for one open borrow.
type Fine struct {
	FineID      string
	BorrowID    BorrowIDString
	CopyID      CopyIDString
	MemberID    MemberIDString
	MemberName  string
	MemberEmail string
	BorrowDate  CalendarDate
	DueDate     CalendarDate
	DaysOverdue int
	Amount      Money
}

// OpenBorrow is what a return needs to know about the loan it closes.
type OpenBorrow struct {
	BorrowID    BorrowIDString
	CopyID      CopyIDString
	ISBN        ISBNString
	MemberID    MemberIDString
	MemberName  string
	MemberEmail string
	BorrowDate  CalendarDate
	DueDate     CalendarDate
}

// Assess computes the fine for borrow on the given day. ok is false if the borrow is not overdue.
//
// The fine id is derived from borrow id, day, overdue days and amount, so assessing twice on
// the same day yields the same id while a new day or a new rate yields a different one.
func (p FinePolicy) Assess(borrow OpenBorrow, today CalendarDate) (fine Fine, ok bool) {
	days := DaysOverdue(borrow.DueDate, today)
	if days == 0 {
		return Fine{}, false
	}

	amount := p.AmountFor(days)

	return Fine{
		FineID:      FineID(borrow.BorrowID, today, days, amount),
		BorrowID:    borrow.BorrowID,
		CopyID:      borrow.CopyID,
		MemberID:    borrow.MemberID,
		MemberName:  borrow.MemberName,
		MemberEmail: borrow.MemberEmail,
		BorrowDate:  borrow.BorrowDate,
		DueDate:     borrow.DueDate,
		DaysOverdue: days,
		Amount:      amount,
	}, true
}

// FineID returns the name-based (v5) UUID of a fine assessment.
func FineID(borrowID BorrowIDString, today CalendarDate, daysOverdue int, amount Money) string {
	name := fmt.Sprintf("%s|%s|%d|%d", borrowID, today, daysOverdue, int64(amount))

	return uuid.NewSHA1(fineNamespace, []byte(name)).String()
}
