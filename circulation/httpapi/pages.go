package httpapi

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/AntonStoeckl/library-circulation/circulation/session"
)

var pages = template.Must(template.New("layout").Parse(`{{define "layout"}}<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}} | Library</title></head>
<body>
{{if .Username}}<p>Signed in as <strong>{{.Username}}</strong> ({{.Role}})
<button onclick="fetch('/api/auth/logout',{method:'POST'}).then(()=>location.href='/login')">Log out</button></p>{{end}}
<h1>{{.Title}}</h1>
{{if eq .Title "Login"}}
<form id="login">
<label>Username <input name="username" autocomplete="username" required></label>
<label>Password <input name="password" type="password" autocomplete="current-password" required></label>
<button type="submit">Log in</button>
<p id="error" role="alert"></p>
</form>
<script>
document.getElementById('login').addEventListener('submit', async (e) => {
  e.preventDefault();
  const form = new FormData(e.target);
  const res = await fetch('/api/auth/login', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({username: form.get('username'), password: form.get('password')}),
  });
  const data = await res.json();
  if (res.ok) { location.href = data.role === 'Admin' ? '/admin' : '/librarian'; return; }
  document.getElementById('error').textContent = data.error;
});
</script>
{{else}}
<ul>{{range .Links}}<li><code>{{.}}</code></li>{{end}}</ul>
{{end}}
</body>
</html>{{end}}`))

type pageData struct {
	Title    string
	Username string
	Role     string
	Links    []string
}

// renderPage renders into a buffer first, so a template error still yields a clean 500.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, data pageData) {
	var page bytes.Buffer
	if err := pages.ExecuteTemplate(&page, "layout", data); err != nil {
		s.logRenderFailure(r, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if _, err := page.WriteTo(w); err != nil {
		s.logRenderFailure(r, err)
	}
}

func (s *Server) logRenderFailure(r *http.Request, err error) {
	if s.logger == nil {
		return
	}

	s.logger.ErrorContext(r.Context(), LogMsgRenderFailed,
		LogAttrPath, r.URL.Path,
		LogAttrError, err.Error(),
	)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request, _ session.Session) {
	http.Redirect(w, r, "/login", http.StatusTemporaryRedirect)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request, _ session.Session) {
	s.renderPage(w, r, pageData{Title: "Login"})
}

func (s *Server) handleAdminPage(w http.ResponseWriter, r *http.Request, caller session.Session) {
	s.renderPage(w, r, pageData{
		Title:    "Admin",
		Username: caller.Username,
		Role:     string(caller.Role),
		Links: []string{
			"GET|POST /api/admin/librarians",
			"PUT|DELETE /api/admin/librarians/{id}",
			"GET /api/admin/audit-log?limit=",
			"GET /api/admin/analytics?type=overview|overdue-today|top-borrowed-books|fines-collected",
		},
	})
}

func (s *Server) handleLibrarianPage(w http.ResponseWriter, r *http.Request, caller session.Session) {
	s.renderPage(w, r, pageData{
		Title:    "Librarian",
		Username: caller.Username,
		Role:     string(caller.Role),
		Links: []string{
			"POST /api/librarian/borrow",
			"POST /api/librarian/return",
			"GET /api/librarian/check-status?copy_id=",
			"GET /api/librarian/search?q=&category=&available=",
			"GET /api/librarian/categories",
			"POST /api/librarian/add-book",
			"POST /api/librarian/add-copies",
			"POST /api/librarian/remove-book",
			"POST /api/librarian/add-member",
		},
	})
}
