package closestaffaccount

import (
	"strings"
	"time"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

const (
	commandType = "CloseStaffAccount"
)

// Command represents the intent to close the staff account with UserID and Role.
type Command struct {
	UserID     core.UserIDString
	Role       core.Role
	ActorID    core.UserIDString
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(userID core.UserIDString, role core.Role, actorID core.UserIDString, occurredAt time.Time) Command {
	return Command{
		UserID:     strings.TrimSpace(userID),
		Role:       role,
		ActorID:    actorID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// Validate checks the shape of the input before any event is read.
func (c Command) Validate() error {
	if c.UserID == "" {
		return core.ErrValidation.WithDetail("user id is required")
	}

	return nil
}
