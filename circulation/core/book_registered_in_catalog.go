package core

import (
	"time"
)

// BookRegisteredInCatalogEventType is the event type identifier.
const BookRegisteredInCatalogEventType = "BookRegisteredInCatalog"

// BookRegisteredInCatalog represents when a book (identified by its ISBN) became known to the catalog.
type BookRegisteredInCatalog struct {
	EventType       EventTypeString
	ISBN            ISBNString
	Title           string
	Authors         []string
	Publisher       string
	Category        string
	PublicationYear int
	Description     string
	OccurredAt      OccurredAtTS
}

// BuildBookRegisteredInCatalog creates a new BookRegisteredInCatalog event.
func BuildBookRegisteredInCatalog(
	isbn ISBNString,
	title string,
	authors []string,
	publisher string,
	category string,
	publicationYear int,
	description string,
	occurredAt time.Time,
) BookRegisteredInCatalog {

	event := BookRegisteredInCatalog{
		EventType:       BookRegisteredInCatalogEventType,
		ISBN:            isbn,
		Title:           title,
		Authors:         authors,
		Publisher:       publisher,
		Category:        category,
		PublicationYear: publicationYear,
		Description:     description,
		OccurredAt:      ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e BookRegisteredInCatalog) IsEventType() string {
	return BookRegisteredInCatalogEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookRegisteredInCatalog) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e BookRegisteredInCatalog) IsErrorEvent() bool {
	return false
}
