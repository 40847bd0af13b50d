package auditlog

import (
	"errors"
	"slices"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/shell"
)

// ErrAuditValuesFailed is returned when an event cannot be turned into entry values.
var ErrAuditValuesFailed = errors.New("building audit values failed")

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

var hiddenFields = []string{"EventType", "OccurredAt", "PasswordHash"}

// ProjectEntries turns event envelopes into audit entries, newest first, at most query.Limit.
//
// Query Logic:
//
//	GIVEN: all stored events with their metadata
//	WHEN: AuditLog is executed
//	THEN: one entry per event, newest first
//	EXCLUDES: password hashes
func ProjectEntries(envelopes shell.EventEnvelopes, query Query) (Entries, error) {
	entries := make([]Entry, 0, min(len(envelopes), query.Limit))

	for _, envelope := range slices.Backward(envelopes) {
		if len(entries) == query.Limit {
			break
		}

		entry, err := entryFrom(envelope)
		if err != nil {
			return Entries{}, err
		}

		entries = append(entries, entry)
	}

	return Entries{Entries: entries, Count: len(entries)}, nil
}

func entryFrom(envelope shell.EventEnvelope) (Entry, error) {
	event := envelope.DomainEvent
	action, table, recordID := classify(event)

	values, err := valuesOf(event)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		AuditID:   uint(envelope.SequenceNumber),
		UserID:    envelope.EventMetadata.ActorID,
		Action:    action,
		TableName: table,
		RecordID:  recordID,
		NewValues: values,
		Timestamp: event.HasOccurredAt(),
	}, nil
}

func classify(event core.DomainEvent) (Action, string, string) {
	switch e := event.(type) {
	case core.BookRegisteredInCatalog:
		return ActionInsert, "books", e.ISBN
	case core.CopyAddedToCirculation:
		return ActionInsert, "book_copies", e.CopyID
	case core.CopyRetired:
		return ActionUpdate, "book_copies", e.CopyID
	case core.MemberRegistered:
		return ActionInsert, "members", e.MemberID
	case core.CopyLentToMember:
		return ActionBorrow, "borrows", e.BorrowID
	case core.CopyReturnedByMember:
		return ActionReturn, "borrows", e.BorrowID
	case core.OverdueFineSettled:
		return ActionInsert, "fines", e.FineID
	case core.StaffAccountOpened:
		return ActionInsert, "users", e.UserID
	case core.StaffAccountUpdated:
		return ActionUpdate, "users", e.UserID
	case core.StaffAccountClosed:
		return ActionDelete, "users", e.UserID
	case core.OperationFailed:
		return ActionRejected, rejectedTable(e.EventType), e.EntityID
	default:
		return ActionUpdate, "", ""
	}
}

func rejectedTable(eventType string) string {
	switch eventType {
	case core.BorrowingCopyFailedEventType, core.ReturningCopyFailedEventType:
		return "borrows"
	case core.AddingCopiesFailedEventType, core.RetiringCopyFailedEventType:
		return "book_copies"
	case core.RegisteringMemberFailedEventType:
		return "members"
	default:
		return "users"
	}
}

func valuesOf(event core.DomainEvent) (map[string]any, error) {
	payload, err := jsonAPI.Marshal(event)
	if err != nil {
		return nil, errors.Join(ErrAuditValuesFailed, err)
	}

	values := make(map[string]any)
	if err = jsonAPI.Unmarshal(payload, &values); err != nil {
		return nil, errors.Join(ErrAuditValuesFailed, err)
	}

	for _, field := range hiddenFields {
		delete(values, field)
	}

	return values, nil
}
