package checkstatus

import (
	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

// BorrowInfo describes the open borrow of a borrowed copy.
type BorrowInfo struct {
	BorrowID    core.BorrowIDString
	MemberID    core.MemberIDString
	MemberName  string
	MemberEmail string
	BorrowDate  core.CalendarDate
	DueDate     core.CalendarDate
	DaysOverdue int
}

// CopyStatus represents the query result for one copy.
type CopyStatus struct {
	CopyID          core.CopyIDString
	ISBN            core.ISBNString
	Title           string
	Authors         []string
	Publisher       string
	Category        string
	PublicationYear int
	Status          core.CopyStatus
	IsAvailable     bool
	Borrow          *BorrowInfo
	SequenceNumber  uint
}
