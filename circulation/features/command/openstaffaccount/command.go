package openstaffaccount

import (
	"strings"
	"time"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

const (
	commandType = "OpenStaffAccount"
)

// Command represents the intent to open a staff account.
type Command struct {
	UserID       core.UserIDString
	Username     string
	PasswordHash string
	Role         core.Role
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
	username string,
	passwordHash string,
	role core.Role,
	fullName string,
	email string,
	actorID core.UserIDString,
	occurredAt time.Time,
) Command {

	return Command{
		UserID:       userID,
		Username:     strings.TrimSpace(username),
		PasswordHash: passwordHash,
		Role:         role,
		FullName:     strings.TrimSpace(fullName),
		Email:        strings.TrimSpace(email),
		ActorID:      actorID,
		OccurredAt:   core.ToOccurredAt(occurredAt),
	}
}

// Validate checks the shape of the input before any event is read.
func (c Command) Validate() error {
	if c.Username == "" || c.FullName == "" || c.Email == "" || c.PasswordHash == "" {
		return core.ErrValidation.WithDetail("All fields are required")
	}

	if !c.Role.IsKnown() {
		return core.ErrValidation.WithDetail("Unknown role")
	}

	if c.UserID == "" {
		return core.ErrValidation.WithDetail("user id must be set")
	}

	return nil
}
