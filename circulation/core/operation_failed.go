package core

import (
	"strings"
	"time"
)

// Event types of rejected operations. They share the OperationFailed shape.
const (
	BorrowingCopyFailedEventType        = "BorrowingCopyFailed"
	ReturningCopyFailedEventType        = "ReturningCopyFailed"
	AddingCopiesFailedEventType         = "AddingCopiesFailed"
	RetiringCopyFailedEventType         = "RetiringCopyFailed"
	RegisteringMemberFailedEventType    = "RegisteringMemberFailed"
	OpeningStaffAccountFailedEventType  = "OpeningStaffAccountFailed"
	UpdatingStaffAccountFailedEventType = "UpdatingStaffAccountFailed"
	ClosingStaffAccountFailedEventType  = "ClosingStaffAccountFailed"
)

const failedEventTypeSuffix = "Failed"

// OperationFailed records that a command was rejected by a business rule. It changes no state
// and exists for the audit log.
type OperationFailed struct {
	EventType   EventTypeString
	EntityID    string
	ActorID     UserIDString
	FailureCode string
	FailureInfo string
	OccurredAt  OccurredAtTS
}

// BuildOperationFailed creates a new OperationFailed event of the given type from a Failure.
func BuildOperationFailed(
	eventType EventTypeString,
	entityID string,
	actorID UserIDString,
	failure Failure,
	occurredAt time.Time,
) OperationFailed {

	event := OperationFailed{
		EventType:   eventType,
		EntityID:    entityID,
		ActorID:     actorID,
		FailureCode: failure.Code,
		FailureInfo: failure.Error(),
		OccurredAt:  ToOccurredAt(occurredAt),
	}

	return event
}

// IsFailedEventType reports whether eventType names a rejected operation.
func IsFailedEventType(eventType EventTypeString) bool {
	return strings.HasSuffix(eventType, failedEventTypeSuffix) && len(eventType) > len(failedEventTypeSuffix)
}

// IsEventType returns the event type identifier.
func (e OperationFailed) IsEventType() string {
	return e.EventType
}

// HasOccurredAt returns when this event occurred.
func (e OperationFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a rejected operation.
func (e OperationFailed) IsErrorEvent() bool {
	return true
}
