package core

import (
	"time"
)

// CopyAddedToCirculationEventType is the event type identifier.
const CopyAddedToCirculationEventType = "CopyAddedToCirculation"

// CopyAddedToCirculation represents when a new physical copy of a book was put on the shelf.
type CopyAddedToCirculation struct {
	EventType  EventTypeString
	CopyID     CopyIDString
	ISBN       ISBNString
	OccurredAt OccurredAtTS
}

// BuildCopyAddedToCirculation creates a new CopyAddedToCirculation event.
func BuildCopyAddedToCirculation(copyID CopyIDString, isbn ISBNString, occurredAt time.Time) CopyAddedToCirculation {
	event := CopyAddedToCirculation{
		EventType:  CopyAddedToCirculationEventType,
		CopyID:     copyID,
		ISBN:       isbn,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e CopyAddedToCirculation) IsEventType() string {
	return CopyAddedToCirculationEventType
}

// HasOccurredAt returns when this event occurred.
func (e CopyAddedToCirculation) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CopyAddedToCirculation) IsErrorEvent() bool {
	return false
}
