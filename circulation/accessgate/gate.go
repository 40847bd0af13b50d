package accessgate

import (
	"net/http"
	"strings"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/session"
)

// Outcome is the terminal result of evaluating a request.
type Outcome int

const (
	Allow Outcome = iota
	Redirect
	Reject
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

const (
	LoginPath = "/login"

	MsgNoActiveSession   = "Unauthorized: No active session"
	MsgInvalidSession    = "Invalid Session"
	MsgAdminRequired     = "Forbidden: Admin access required"
	MsgLibrarianRequired = "Forbidden: Librarian access required"
)

var publicPaths = map[string]struct{}{
	LoginPath:          {},
	"/api/auth/login":  {},
	"/api/auth/logout": {},
}

// Decision is what the gate decided for one request.
type Decision struct {
	Outcome     Outcome
	Target      string
	Status      int
	Message     string
	ClearCookie bool

	// Session is set when the cookie decoded.
	Session       session.Session
	Authenticated bool
}

// Gate evaluates requests against the session codec. It holds no mutable state.
type Gate struct {
	codec session.Codec
}

// New returns a gate decoding cookies with codec.
func New(codec session.Codec) Gate {
	return Gate{codec: codec}
}

// Evaluate decides what happens to a request for path carrying token.
// hasToken tells a missing cookie apart from an empty one.
func (g Gate) Evaluate(path string, token string, hasToken bool) Decision {
	if isPublic(path) {
		if path == LoginPath && hasToken {
			if s, err := g.codec.Decode(token); err == nil {
				return redirect(s.Home(), s)
			}
		}

		return Decision{Outcome: Allow}
	}

	if !hasToken {
		if isAPI(path) {
			return reject(http.StatusUnauthorized, MsgNoActiveSession, false)
		}

		return Decision{Outcome: Redirect, Target: LoginPath}
	}

	s, err := g.codec.Decode(token)
	if err != nil {
		if isAPI(path) {
			return reject(http.StatusUnauthorized, MsgInvalidSession, true)
		}

		return Decision{Outcome: Redirect, Target: LoginPath, ClearCookie: true}
	}

	if path == "/" {
		return redirect(s.Home(), s)
	}

	if required, ok := requiredRole(path); ok && s.Role != required {
		if isAPI(path) {
			msg := MsgLibrarianRequired
			if required == core.RoleAdmin {
				msg = MsgAdminRequired
			}

			decision := reject(http.StatusForbidden, msg, false)
			decision.Session, decision.Authenticated = s, true

			return decision
		}

		return redirect(s.Home(), s)
	}

	return Decision{Outcome: Allow, Session: s, Authenticated: true}
}

func isPublic(path string) bool {
	_, ok := publicPaths[path]
	return ok
}

func isAPI(path string) bool {
	return strings.HasPrefix(path, "/api")
}

func requiredRole(path string) (core.Role, bool) {
	switch {
	case strings.HasPrefix(path, "/admin"), strings.HasPrefix(path, "/api/admin"):
		return core.RoleAdmin, true
	case strings.HasPrefix(path, "/librarian"), strings.HasPrefix(path, "/api/librarian"):
		return core.RoleLibrarian, true
	default:
		return "", false
	}
}

func redirect(target string, s session.Session) Decision {
	return Decision{Outcome: Redirect, Target: target, Session: s, Authenticated: true}
}

func reject(status int, msg string, clearCookie bool) Decision {
	return Decision{Outcome: Reject, Status: status, Message: msg, ClearCookie: clearCookie}
}
