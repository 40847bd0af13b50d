package registermember

import (
	"regexp"
	"strings"
	"time"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

const (
	commandType = "RegisterMember"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Command represents the intent to register a member.
type Command struct {
	MemberID    core.MemberIDString
	Name        string
	Email       string
	Phone       string
	Address     string
	LibrarianID core.UserIDString
	OccurredAt  core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with trimmed fields.
func BuildCommand(
	memberID core.MemberIDString,
	name string,
	email string,
	phone string,
	address string,
	librarianID core.UserIDString,
	occurredAt time.Time,
) Command {

	return Command{
		MemberID:    strings.TrimSpace(memberID),
		Name:        strings.TrimSpace(name),
		Email:       strings.TrimSpace(email),
		Phone:       strings.TrimSpace(phone),
		Address:     strings.TrimSpace(address),
		LibrarianID: librarianID,
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}

// Validate checks the shape of the input before any event is read.
func (c Command) Validate() error {
	if c.MemberID == "" || c.Name == "" || c.Email == "" || c.Phone == "" || c.Address == "" {
		return core.ErrValidation.WithDetail("All fields are required")
	}

	if !emailPattern.MatchString(c.Email) {
		return core.ErrValidation.WithDetail("Invalid email format")
	}

	return nil
}
