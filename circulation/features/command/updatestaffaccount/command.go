package updatestaffaccount

import (
	"strings"
	"time"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

const (
	commandType = "UpdateStaffAccount"
)

// Command represents the intent to update a staff account of the given Role.
type Command struct {
	UserID       core.UserIDString
	Role         core.Role
	Username     string
	PasswordHash string
	FullName     string
	Email        string
	ActorID      core.UserIDString
	OccurredAt   core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	userID core.UserIDString,
	role core.Role,
	username string,
	passwordHash string,
	fullName string,
	email string,
	actorID core.UserIDString,
	occurredAt time.Time,
) Command {

	return Command{
		UserID:       strings.TrimSpace(userID),
		Role:         role,
		Username:     strings.TrimSpace(username),
		PasswordHash: passwordHash,
		FullName:     strings.TrimSpace(fullName),
		Email:        strings.TrimSpace(email),
		ActorID:      actorID,
		OccurredAt:   core.ToOccurredAt(occurredAt),
	}
}

// Validate checks the shape of the input before any event is read.
func (c Command) Validate() error {
	if c.UserID == "" || c.Username == "" || c.FullName == "" || c.Email == "" {
		return core.ErrValidation.WithDetail("Username, full name, and email are required")
	}

	return nil
}
