package core

import (
	"time"
)

// CopyLentToMemberEventType is the event type identifier.
const CopyLentToMemberEventType = "CopyLentToMember"

// CopyLentToMember represents when a copy was lent to a member. It opens a borrow.
// Member name and email are copied in so that return and status reads need no member lookup.
type CopyLentToMember struct {
	EventType   EventTypeString
	BorrowID    BorrowIDString
	CopyID      CopyIDString
	ISBN        ISBNString
	MemberID    MemberIDString
	MemberName  string
	MemberEmail string
	LibrarianID UserIDString
	BorrowDate  CalendarDate
	DueDate     CalendarDate
	OccurredAt  OccurredAtTS
}

// BuildCopyLentToMember creates a new CopyLentToMember event.
func BuildCopyLentToMember(
	borrowID BorrowIDString,
	copyID CopyIDString,
	isbn ISBNString,
	member MemberRegistered,
	librarianID UserIDString,
	borrowDate CalendarDate,
	dueDate CalendarDate,
	occurredAt time.Time,
) CopyLentToMember {

	event := CopyLentToMember{
		EventType:   CopyLentToMemberEventType,
		BorrowID:    borrowID,
		CopyID:      copyID,
		ISBN:        isbn,
		MemberID:    member.MemberID,
		MemberName:  member.Name,
		MemberEmail: member.Email,
		LibrarianID: librarianID,
		BorrowDate:  borrowDate,
		DueDate:     dueDate,
		OccurredAt:  ToOccurredAt(occurredAt),
	}

	return event
}

// OpenBorrow returns the borrow this event opened.
func (e CopyLentToMember) OpenBorrow() OpenBorrow {
	return OpenBorrow{
		BorrowID:    e.BorrowID,
		CopyID:      e.CopyID,
		ISBN:        e.ISBN,
		MemberID:    e.MemberID,
		MemberName:  e.MemberName,
		MemberEmail: e.MemberEmail,
		BorrowDate:  e.BorrowDate,
		DueDate:     e.DueDate,
	}
}

// IsEventType returns the event type identifier.
func (e CopyLentToMember) IsEventType() string {
	return CopyLentToMemberEventType
}

// HasOccurredAt returns when this event occurred.
func (e CopyLentToMember) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CopyLentToMember) IsErrorEvent() bool {
	return false
}
