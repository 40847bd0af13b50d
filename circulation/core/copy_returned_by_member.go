package core

import (
	"time"
)

// CopyReturnedByMemberEventType is the event type identifier.
const CopyReturnedByMemberEventType = "CopyReturnedByMember"

// CopyReturnedByMember represents when a borrowed copy came back. It closes the borrow.
type CopyReturnedByMember struct {
	EventType   EventTypeString
	BorrowID    BorrowIDString
	CopyID      CopyIDString
	ISBN        ISBNString
	MemberID    MemberIDString
	LibrarianID UserIDString
	ReturnDate  CalendarDate
	DaysOverdue int
	OccurredAt  OccurredAtTS
}

// BuildCopyReturnedByMember creates a new CopyReturnedByMember event.
func BuildCopyReturnedByMember(
	borrow OpenBorrow,
	librarianID UserIDString,
	returnDate CalendarDate,
	daysOverdue int,
	occurredAt time.Time,
) CopyReturnedByMember {

	event := CopyReturnedByMember{
		EventType:   CopyReturnedByMemberEventType,
		BorrowID:    borrow.BorrowID,
		CopyID:      borrow.CopyID,
		ISBN:        borrow.ISBN,
		MemberID:    borrow.MemberID,
		LibrarianID: librarianID,
		ReturnDate:  returnDate,
		DaysOverdue: daysOverdue,
		OccurredAt:  ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e CopyReturnedByMember) IsEventType() string {
	return CopyReturnedByMemberEventType
}

// HasOccurredAt returns when this event occurred.
func (e CopyReturnedByMember) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CopyReturnedByMember) IsErrorEvent() bool {
	return false
}
