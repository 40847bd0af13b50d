package addcopies

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

const (
	commandType = "AddCopies"

	MinQuantity = 1
	MaxQuantity = 100
)

// Command represents the intent to add len(CopyIDs) copies of the book with ISBN.
type Command struct {
	ISBN        core.ISBNString
	Quantity    int
	CopyIDs     []core.CopyIDString
	LibrarianID core.UserIDString
	OccurredAt  core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with fresh copy ids. No ids are generated for a quantity
// outside the allowed range.
func BuildCommand(
	isbn core.ISBNString,
	quantity int,
	librarianID core.UserIDString,
	occurredAt time.Time,
) Command {

	var copyIDs []core.CopyIDString
	if quantity >= MinQuantity && quantity <= MaxQuantity {
		copyIDs = make([]core.CopyIDString, 0, quantity)
		for range quantity {
			copyIDs = append(copyIDs, uuid.Must(uuid.NewV7()).String())
		}
	}

	return BuildCommandWithCopyIDs(isbn, quantity, copyIDs, librarianID, occurredAt)
}

// BuildCommandWithCopyIDs creates a new Command with given copy ids.
func BuildCommandWithCopyIDs(
	isbn core.ISBNString,
	quantity int,
	copyIDs []core.CopyIDString,
	librarianID core.UserIDString,
	occurredAt time.Time,
) Command {

	return Command{
		ISBN:        strings.TrimSpace(isbn),
		Quantity:    quantity,
		CopyIDs:     copyIDs,
		LibrarianID: librarianID,
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}

// Validate checks the shape of the input before any event is read.
func (c Command) Validate() error {
	if c.ISBN == "" {
		return core.ErrValidation.WithDetail("isbn is required")
	}

	if c.Quantity < MinQuantity || c.Quantity > MaxQuantity || len(c.CopyIDs) != c.Quantity {
		return core.ErrInvalidQuantity
	}

	return nil
}
