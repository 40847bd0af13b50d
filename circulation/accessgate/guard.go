package accessgate

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-circulation/circulation/session"
)

// HandlerFunc is a handler that receives the session the gate decoded.
// The session is the zero value on public routes.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, s session.Session)

// Guard wraps handlers so that every request passes the gate first.
type Guard struct {
	gate    Gate
	cookies session.Cookies
}

// NewGuard returns a Guard that clears cookies with the given settings.
func NewGuard(gate Gate, cookies session.Cookies) Guard {
	return Guard{gate: gate, cookies: cookies}
}

// Wrap returns an http.Handler that evaluates the request and calls next only on Allow.
func (g Guard) Wrap(next HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, hasToken := session.TokenFrom(r)
		decision := g.gate.Evaluate(r.URL.Path, token, hasToken)

		if decision.ClearCookie {
			g.cookies.Clear(w)
		}

		switch decision.Outcome {
		case Allow:
			next(w, r, decision.Session)
		case Redirect:
			http.Redirect(w, r, decision.Target, http.StatusTemporaryRedirect)
		case Reject:
			writeError(w, decision.Status, decision.Message)
		}
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	body, _ := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(map[string]string{"error": msg})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
