package accessgate_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/accessgate"
	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/session"
)

func givenToken(t *testing.T, role core.Role) string {
	token, err := session.NewPlainCodec().Encode(session.Session{UserID: "u1", Role: role, Username: "someone"})
	require.NoError(t, err)

	return token
}

func Test_Gate_Evaluate(t *testing.T) {
	admin := givenToken(t, core.RoleAdmin)
	librarian := givenToken(t, core.RoleLibrarian)
	gate := accessgate.New(session.NewPlainCodec())

	testCases := []struct {
		name        string
		path        string
		token       string
		hasToken    bool
		outcome     accessgate.Outcome
		target      string
		status      int
		message     string
		clearCookie bool
	}{
		{name: "login without cookie", path: "/login", outcome: accessgate.Allow},
		{name: "login as admin", path: "/login", token: admin, hasToken: true, outcome: accessgate.Redirect, target: "/admin"},
		{name: "login as librarian", path: "/login", token: librarian, hasToken: true, outcome: accessgate.Redirect, target: "/librarian"},
		{name: "login with broken cookie", path: "/login", token: "broken", hasToken: true, outcome: accessgate.Allow},
		{name: "login api is public", path: "/api/auth/login", outcome: accessgate.Allow},
		{name: "logout api with broken cookie", path: "/api/auth/logout", token: "broken", hasToken: true, outcome: accessgate.Allow},
		{name: "api without cookie", path: "/api/librarian/borrow", outcome: accessgate.Reject, status: http.StatusUnauthorized, message: accessgate.MsgNoActiveSession},
		{name: "page without cookie", path: "/librarian", outcome: accessgate.Redirect, target: "/login"},
		{name: "api with broken cookie", path: "/api/admin/analytics", token: "broken", hasToken: true, outcome: accessgate.Reject, status: http.StatusUnauthorized, message: accessgate.MsgInvalidSession, clearCookie: true},
		{name: "page with empty cookie", path: "/admin", token: "", hasToken: true, outcome: accessgate.Redirect, target: "/login", clearCookie: true},
		{name: "root as admin", path: "/", token: admin, hasToken: true, outcome: accessgate.Redirect, target: "/admin"},
		{name: "root as librarian", path: "/", token: librarian, hasToken: true, outcome: accessgate.Redirect, target: "/librarian"},
		{name: "admin api as librarian", path: "/api/admin/librarians", token: librarian, hasToken: true, outcome: accessgate.Reject, status: http.StatusForbidden, message: accessgate.MsgAdminRequired},
		{name: "librarian api as admin", path: "/api/librarian/search", token: admin, hasToken: true, outcome: accessgate.Reject, status: http.StatusForbidden, message: accessgate.MsgLibrarianRequired},
		{name: "admin page as librarian", path: "/admin", token: librarian, hasToken: true, outcome: accessgate.Redirect, target: "/librarian"},
		{name: "librarian page as admin", path: "/librarian/anything", token: admin, hasToken: true, outcome: accessgate.Redirect, target: "/admin"},
		{name: "admin api as admin", path: "/api/admin/audit-log", token: admin, hasToken: true, outcome: accessgate.Allow},
		{name: "librarian api as librarian", path: "/api/librarian/borrow", token: librarian, hasToken: true, outcome: accessgate.Allow},
		{name: "other page with session", path: "/about", token: librarian, hasToken: true, outcome: accessgate.Allow},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			decision := gate.Evaluate(tc.path, tc.token, tc.hasToken)

			// assert
			assert.Equal(t, tc.outcome, decision.Outcome)
			assert.Equal(t, tc.target, decision.Target)
			assert.Equal(t, tc.status, decision.Status)
			assert.Equal(t, tc.message, decision.Message)
			assert.Equal(t, tc.clearCookie, decision.ClearCookie)
		})
	}
}

func Test_Gate_Evaluate_HandsOverSession(t *testing.T) {
	// arrange
	gate := accessgate.New(session.NewPlainCodec())

	// act
	decision := gate.Evaluate("/api/librarian/borrow", givenToken(t, core.RoleLibrarian), true)

	// assert
	require.True(t, decision.Authenticated)
	assert.Equal(t, session.Session{UserID: "u1", Role: core.RoleLibrarian, Username: "someone"}, decision.Session)
}

func Test_Guard_Wrap(t *testing.T) {
	// arrange
	guard := accessgate.NewGuard(accessgate.New(session.NewPlainCodec()), session.Cookies{})

	var received session.Session
	handler := guard.Wrap(func(w http.ResponseWriter, _ *http.Request, s session.Session) {
		received = s
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("allow passes the session", func(t *testing.T) {
		// arrange
		req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: givenToken(t, core.RoleAdmin)})
		rec := httptest.NewRecorder()

		// act
		handler.ServeHTTP(rec, req)

		// assert
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, core.RoleAdmin, received.Role)
	})

	t.Run("reject writes json and clears cookie", func(t *testing.T) {
		// arrange
		req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "garbage"})
		rec := httptest.NewRecorder()

		// act
		handler.ServeHTTP(rec, req)

		// assert
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid Session"}`, rec.Body.String())
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})

	t.Run("redirect page to login", func(t *testing.T) {
		// arrange
		req := httptest.NewRequest(http.MethodGet, "/librarian", nil)
		rec := httptest.NewRecorder()

		// act
		handler.ServeHTTP(rec, req)

		// assert
		assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})
}
