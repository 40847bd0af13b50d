package core

import (
	"time"
)

// CopyRetiredEventType is the event type identifier.
const CopyRetiredEventType = "CopyRetired"

// CopyRetired represents when a copy was marked lost and taken out of circulation for good.
type CopyRetired struct {
	EventType  EventTypeString
	CopyID     CopyIDString
	ISBN       ISBNString
	RetiredBy  UserIDString
	OccurredAt OccurredAtTS
}

// BuildCopyRetired creates a new CopyRetired event.
func BuildCopyRetired(copyID CopyIDString, isbn ISBNString, retiredBy UserIDString, occurredAt time.Time) CopyRetired {
	event := CopyRetired{
		EventType:  CopyRetiredEventType,
		CopyID:     copyID,
		ISBN:       isbn,
		RetiredBy:  retiredBy,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e CopyRetired) IsEventType() string {
	return CopyRetiredEventType
}

// HasOccurredAt returns when this event occurred.
func (e CopyRetired) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CopyRetired) IsErrorEvent() bool {
	return false
}
