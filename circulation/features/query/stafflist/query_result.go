package stafflist

import (
	"time"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

// StaffMember is an open account without its credentials.
type StaffMember struct {
	UserID    core.UserIDString
	Username  string
	Role      core.Role
	FullName  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StaffMembers represents the query result in opening order.
type StaffMembers struct {
	Members        []StaffMember
	Count          int
	SequenceNumber uint
}
