package core

import (
	"time"
)

// Alias types instead of full value objects.

// CopyIDString identifies one physical copy.
type CopyIDString = string

// MemberIDString is supplied by the library (e.g. a student number), never generated.
type MemberIDString = string

// BorrowIDString identifies one loan.
type BorrowIDString = string

// ISBNString identifies a book.
type ISBNString = string

// UserIDString identifies a staff account.
type UserIDString = string

// EventTypeString is the name an event is stored under.
type EventTypeString = string

// OccurredAtTS is the moment an event happened, normalized by ToOccurredAt.
type OccurredAtTS = time.Time

// ToOccurredAt normalizes t to UTC with microsecond precision, which is what PostgreSQL keeps.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}

// Role is the role of a staff account and of the session it logs in with.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleLibrarian Role = "Librarian"
)

// IsKnown reports whether r is one of the two roles.
func (r Role) IsKnown() bool {
	return r == RoleAdmin || r == RoleLibrarian
}
