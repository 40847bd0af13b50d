package staffcredentials

import (
	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

// Credentials of one open account.
type Credentials struct {
	UserID       core.UserIDString
	Username     string
	Role         core.Role
	PasswordHash string
}
