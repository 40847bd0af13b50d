package core

import (
	"time"
)

// StaffAccountUpdatedEventType is the event type identifier.
const StaffAccountUpdatedEventType = "StaffAccountUpdated"

// StaffAccountUpdated represents a change of username, password, or contact details.
// PreviousUsername is kept so that a lookup by the old name also finds the rename.
// An empty PasswordHash means the password did not change.
type StaffAccountUpdated struct {
	EventType        EventTypeString
	UserID           UserIDString
	Username         string
	PreviousUsername string
	PasswordHash     string
	FullName         string
	Email            string
	OccurredAt       OccurredAtTS
}

// BuildStaffAccountUpdated creates a new StaffAccountUpdated event.
func BuildStaffAccountUpdated(
	userID UserIDString,
	username string,
	previousUsername string,
	passwordHash string,
	fullName string,
	email string,
	occurredAt time.Time,
) StaffAccountUpdated {

	event := StaffAccountUpdated{
		EventType:        StaffAccountUpdatedEventType,
		UserID:           userID,
		Username:         username,
		PreviousUsername: previousUsername,
		PasswordHash:     passwordHash,
		FullName:         fullName,
		Email:            email,
		OccurredAt:       ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e StaffAccountUpdated) IsEventType() string {
	return StaffAccountUpdatedEventType
}

// HasOccurredAt returns when this event occurred.
func (e StaffAccountUpdated) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e StaffAccountUpdated) IsErrorEvent() bool {
	return false
}
