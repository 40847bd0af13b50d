package core

import (
	"time"
)

// OverdueFineSettledEventType is the event type identifier.
const OverdueFineSettledEventType = "OverdueFineSettled"

// OverdueFineSettled represents when the fine for an overdue borrow was collected.
// It is only ever appended together with the CopyReturnedByMember that closes the borrow.
type OverdueFineSettled struct {
	EventType   EventTypeString
	FineID      string
	BorrowID    BorrowIDString
	CopyID      CopyIDString
	MemberID    MemberIDString
	DaysOverdue int
	AmountCents Money
	SettledBy   UserIDString
	SettledOn   CalendarDate
	OccurredAt  OccurredAtTS
}

// BuildOverdueFineSettled creates a new OverdueFineSettled event.
func BuildOverdueFineSettled(fine Fine, settledBy UserIDString, settledOn CalendarDate, occurredAt time.Time) OverdueFineSettled {
	event := OverdueFineSettled{
		EventType:   OverdueFineSettledEventType,
		FineID:      fine.FineID,
		BorrowID:    fine.BorrowID,
		CopyID:      fine.CopyID,
		MemberID:    fine.MemberID,
		DaysOverdue: fine.DaysOverdue,
		AmountCents: fine.Amount,
		SettledBy:   settledBy,
		SettledOn:   settledOn,
		OccurredAt:  ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e OverdueFineSettled) IsEventType() string {
	return OverdueFineSettledEventType
}

// HasOccurredAt returns when this event occurred.
func (e OverdueFineSettled) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e OverdueFineSettled) IsErrorEvent() bool {
	return false
}
