package core

import (
	"time"
)

// MemberRegisteredEventType is the event type identifier.
const MemberRegisteredEventType = "MemberRegistered"

// MemberRegistered represents when a librarian registered a new borrower.
type MemberRegistered struct {
	EventType  EventTypeString
	MemberID   MemberIDString
	Name       string
	Email      string
	Phone      string
	Address    string
	OccurredAt OccurredAtTS
}

// BuildMemberRegistered creates a new MemberRegistered event.
func BuildMemberRegistered(
	memberID MemberIDString,
	name string,
	email string,
	phone string,
	address string,
	occurredAt time.Time,
) MemberRegistered {

	event := MemberRegistered{
		EventType:  MemberRegisteredEventType,
		MemberID:   memberID,
		Name:       name,
		Email:      email,
		Phone:      phone,
		Address:    address,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e MemberRegistered) IsEventType() string {
	return MemberRegisteredEventType
}

// HasOccurredAt returns when this event occurred.
func (e MemberRegistered) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e MemberRegistered) IsErrorEvent() bool {
	return false
}
