package core

import (
	"time"
)

// StaffAccountClosedEventType is the event type identifier.
const StaffAccountClosedEventType = "StaffAccountClosed"

// StaffAccountClosed represents when a staff account was deleted. Its username becomes free again.
type StaffAccountClosed struct {
	EventType  EventTypeString
	UserID     UserIDString
	Username   string
	OccurredAt OccurredAtTS
}

// BuildStaffAccountClosed creates a new StaffAccountClosed event.
func BuildStaffAccountClosed(userID UserIDString, username string, occurredAt time.Time) StaffAccountClosed {
	event := StaffAccountClosed{
		EventType:  StaffAccountClosedEventType,
		UserID:     userID,
		Username:   username,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e StaffAccountClosed) IsEventType() string {
	return StaffAccountClosedEventType
}

// HasOccurredAt returns when this event occurred.
func (e StaffAccountClosed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e StaffAccountClosed) IsErrorEvent() bool {
	return false
}
