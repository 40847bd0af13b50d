package core

import (
	"time"
)

// StaffAccountOpenedEventType is the event type identifier.
const StaffAccountOpenedEventType = "StaffAccountOpened"

// StaffAccountOpened represents when an admin or librarian account was created.
type StaffAccountOpened struct {
	EventType    EventTypeString
	UserID       UserIDString
	Username     string
	PasswordHash string
	Role         Role
	FullName     string
	Email        string
	OccurredAt   OccurredAtTS
}

// BuildStaffAccountOpened creates a new StaffAccountOpened event.
func BuildStaffAccountOpened(
	userID UserIDString,
	username string,
	passwordHash string,
	role Role,
	fullName string,
	email string,
	occurredAt time.Time,
) StaffAccountOpened {

	event := StaffAccountOpened{
		EventType:    StaffAccountOpenedEventType,
		UserID:       userID,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		FullName:     fullName,
		Email:        email,
		OccurredAt:   ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e StaffAccountOpened) IsEventType() string {
	return StaffAccountOpenedEventType
}

// HasOccurredAt returns when this event occurred.
func (e StaffAccountOpened) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e StaffAccountOpened) IsErrorEvent() bool {
	return false
}
