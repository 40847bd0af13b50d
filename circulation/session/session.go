package session

import (
	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

// Session identifies the staff member a request acts for.
type Session struct {
	UserID   core.UserIDString
	Role     core.Role
	Username string
}

// Home returns the dashboard path of the session's role.
func (s Session) Home() string {
	if s.Role == core.RoleAdmin {
		return "/admin"
	}

	return "/librarian"
}

// Codec encodes sessions into cookie values and decodes them back.
type Codec interface {
	Encode(session Session) (string, error)
	Decode(token string) (Session, error)
}

func invalid(detail string) error {
	return core.ErrInvalidSession.WithDetail("Invalid Session: " + detail)
}

func validate(session Session) (Session, error) {
	if session.Role == "" {
		return Session{}, invalid("no role found")
	}

	if !session.Role.IsKnown() {
		return Session{}, invalid("unknown role")
	}

	return session, nil
}
