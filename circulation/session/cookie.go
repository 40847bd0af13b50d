package session

import (
	"net/http"
	"time"
)

// CookieName is the name of the session cookie.
const CookieName = "user_session"

// Cookies builds and clears the session cookie.
type Cookies struct {
	Secure bool
	TTL    time.Duration
}

// Set writes the session cookie carrying token.
func (c Cookies) Set(w http.ResponseWriter, token string) {
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	if c.TTL > 0 {
		cookie.MaxAge = int(c.TTL.Seconds())
	}

	http.SetCookie(w, cookie)
}

// Clear deletes the session cookie in the browser.
func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFrom returns the session cookie value of r and whether the cookie was sent at all.
func TokenFrom(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}

	return cookie.Value, true
}
