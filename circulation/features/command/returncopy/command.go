package returncopy

import (
	"strings"
	"time"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

const (
	commandType = "ReturnCopy"
)

// Command represents the intent to return a copy, optionally confirming payment of its fine.
type Command struct {
	CopyID         core.CopyIDString
	LibrarianID    core.UserIDString
	ConfirmPayment bool
	FineID         string
	Today          core.CalendarDate
	OccurredAt     core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	copyID core.CopyIDString,
	librarianID core.UserIDString,
	confirmPayment bool,
	fineID string,
	today core.CalendarDate,
	occurredAt time.Time,
) Command {

	return Command{
		CopyID:         strings.TrimSpace(copyID),
		LibrarianID:    librarianID,
		ConfirmPayment: confirmPayment,
		FineID:         strings.TrimSpace(fineID),
		Today:          today,
		OccurredAt:     core.ToOccurredAt(occurredAt),
	}
}

// Validate checks the shape of the input before any event is read.
func (c Command) Validate() error {
	if c.CopyID == "" {
		return core.ErrValidation.WithDetail("copy_id is required")
	}

	if c.ConfirmPayment && c.FineID == "" {
		return core.ErrValidation.WithDetail("fine_id is required to confirm payment")
	}

	if c.Today.IsZero() {
		return core.ErrValidation.WithDetail("today's date must be set")
	}

	return nil
}
