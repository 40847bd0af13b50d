package analytics

import (
	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

// Overview sums up the collection.
type Overview struct {
	TotalBooks    int
	TotalMembers  int
	ActiveBorrows int
	OverdueBooks  int
	TotalFines    core.Money
}

// OverdueLoan is an open borrow past its due date with the fine it would cost today.
type OverdueLoan struct {
	BorrowID    core.BorrowIDString
	CopyID      core.CopyIDString
	ISBN        core.ISBNString
	Title       string
	MemberID    core.MemberIDString
	MemberName  string
	MemberEmail string
	BorrowDate  core.CalendarDate
	DueDate     core.CalendarDate
	DaysOverdue int
	FineAmount  core.Money
}

// BookBorrowCount counts all borrows of one book, returned or not.
type BookBorrowCount struct {
	ISBN        core.ISBNString
	Title       string
	Authors     []string
	BorrowCount int
}

// MonthlyFines sums settled fines of one month, Month formatted as YYYY-MM.
type MonthlyFines struct {
	Month       string
	FineCount   int
	TotalAmount core.Money
}

// Report represents the query result. Only the part selected by Type is set.
type Report struct {
	Type           ReportType
	Overview       *Overview
	OverdueToday   []OverdueLoan
	TopBorrowed    []BookBorrowCount
	FinesCollected []MonthlyFines
	SequenceNumber uint
}
