package retirecopy

import (
	"strings"
	"time"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

const (
	commandType = "RetireCopy"
)

// Command represents the intent to retire a copy.
type Command struct {
	CopyID      core.CopyIDString
	LibrarianID core.UserIDString
	OccurredAt  core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(copyID core.CopyIDString, librarianID core.UserIDString, occurredAt time.Time) Command {
	return Command{
		CopyID:      strings.TrimSpace(copyID),
		LibrarianID: librarianID,
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}

// Validate checks the shape of the input before any event is read.
func (c Command) Validate() error {
	if c.CopyID == "" {
		return core.ErrValidation.WithDetail("copy_id is required")
	}

	return nil
}
