package borrowcopy

import (
	"strings"
	"time"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

const (
	commandType = "BorrowCopy"
)

// Command represents the intent to lend a copy to a member until DueDate.
// Today is the calendar date in the library's time zone at the time of the request.
type Command struct {
	BorrowID    core.BorrowIDString
	CopyID      core.CopyIDString
	MemberID    core.MemberIDString
	DueDate     core.CalendarDate
	Today       core.CalendarDate
	LibrarianID core.UserIDString
	OccurredAt  core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	borrowID core.BorrowIDString,
	copyID core.CopyIDString,
	memberID core.MemberIDString,
	dueDate core.CalendarDate,
	today core.CalendarDate,
	librarianID core.UserIDString,
	occurredAt time.Time,
) Command {

	return Command{
		BorrowID:    borrowID,
		CopyID:      strings.TrimSpace(copyID),
		MemberID:    strings.TrimSpace(memberID),
		DueDate:     dueDate,
		Today:       today,
		LibrarianID: librarianID,
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}

// Validate checks the shape of the input before any event is read.
func (c Command) Validate() error {
	if c.CopyID == "" || c.MemberID == "" || c.DueDate.IsZero() {
		return core.ErrValidation.WithDetail("copy_id, member_id and due_date are required")
	}

	if c.BorrowID == "" || c.Today.IsZero() {
		return core.ErrValidation.WithDetail("borrow id and today's date must be set")
	}

	return nil
}
