package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/AntonStoeckl/library-circulation/circulation/accessgate"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/addbook"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/addcopies"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/borrowcopy"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/closestaffaccount"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/openstaffaccount"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/registermember"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/retirecopy"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/returncopy"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/updatestaffaccount"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/analytics"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/auditlog"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/categories"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/checkstatus"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/searchcatalog"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/stafflist"
	"github.com/AntonStoeckl/library-circulation/circulation/session"
	"github.com/AntonStoeckl/library-circulation/circulation/shell"
)

// CommandHandlers holds one handler per command slice, plain or wrapped with observability.
type CommandHandlers struct {
	BorrowCopy         shell.CoreCommandHandler[borrowcopy.Command, borrowcopy.Result]
	ReturnCopy         shell.CoreCommandHandler[returncopy.Command, returncopy.Result]
	AddBook            shell.CoreCommandHandler[addbook.Command, addbook.Result]
	AddCopies          shell.CoreCommandHandler[addcopies.Command, addcopies.Result]
	RetireCopy         shell.CoreCommandHandler[retirecopy.Command, retirecopy.Result]
	RegisterMember     shell.CoreCommandHandler[registermember.Command, shell.HandlerResult]
	OpenStaffAccount   shell.CoreCommandHandler[openstaffaccount.Command, shell.HandlerResult]
	UpdateStaffAccount shell.CoreCommandHandler[updatestaffaccount.Command, shell.HandlerResult]
	CloseStaffAccount  shell.CoreCommandHandler[closestaffaccount.Command, shell.HandlerResult]
}

// QueryHandlers holds one handler per query slice.
type QueryHandlers struct {
	CheckStatus   shell.CoreQueryHandler[checkstatus.Query, checkstatus.CopyStatus]
	SearchCatalog shell.CoreQueryHandler[searchcatalog.Query, searchcatalog.SearchResults]
	Categories    shell.CoreQueryHandler[categories.Query, categories.Categories]
	StaffList     shell.CoreQueryHandler[stafflist.Query, stafflist.StaffMembers]
	AuditLog      shell.CoreQueryHandler[auditlog.Query, auditlog.Entries]
	Analytics     shell.CoreQueryHandler[analytics.Query, analytics.Report]
}

// Authenticator checks credentials and returns the session to issue.
type Authenticator interface {
	Login(ctx context.Context, username, password, clientIP string) (session.Session, error)
}

// Dependencies is everything the router needs.
type Dependencies struct {
	Commands      CommandHandlers
	Queries       QueryHandlers
	Authenticator Authenticator
	Codec         session.Codec
	Cookies       session.Cookies
	Clock         shell.Clock
	Logger        shell.ContextualLogger
}

// Server serves the HTTP API.
type Server struct {
	commands      CommandHandlers
	queries       QueryHandlers
	authenticator Authenticator
	codec         session.Codec
	cookies       session.Cookies
	clock         shell.Clock
	logger        shell.ContextualLogger
}

// NewServer returns a Server for deps.
func NewServer(deps Dependencies) *Server {
	return &Server{
		commands:      deps.Commands,
		queries:       deps.Queries,
		authenticator: deps.Authenticator,
		codec:         deps.Codec,
		cookies:       deps.Cookies,
		clock:         deps.Clock,
		logger:        deps.Logger,
	}
}

// Handler returns the chi router with all routes behind the access gate.
func (s *Server) Handler() http.Handler {
	guard := accessgate.NewGuard(accessgate.New(s.codec), s.cookies)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.accessLog)
	r.Use(s.recoverer)
	r.Use(correlate)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Method(http.MethodGet, "/", guard.Wrap(s.handleRoot))
	r.Method(http.MethodGet, "/login", guard.Wrap(s.handleLoginPage))
	r.Method(http.MethodGet, "/admin", guard.Wrap(s.handleAdminPage))
	r.Method(http.MethodGet, "/librarian", guard.Wrap(s.handleLibrarianPage))

	r.Route("/api/auth", func(r chi.Router) {
		r.Method(http.MethodPost, "/login", guard.Wrap(s.handleLogin))
		r.Method(http.MethodPost, "/logout", guard.Wrap(s.handleLogout))
	})

	r.Route("/api/librarian", func(r chi.Router) {
		r.Method(http.MethodPost, "/borrow", guard.Wrap(s.handleBorrow))
		r.Method(http.MethodPost, "/return", guard.Wrap(s.handleReturn))
		r.Method(http.MethodGet, "/check-status", guard.Wrap(s.handleCheckStatus))
		r.Method(http.MethodGet, "/search", guard.Wrap(s.handleSearch))
		r.Method(http.MethodGet, "/categories", guard.Wrap(s.handleCategories))
		r.Method(http.MethodPost, "/add-book", guard.Wrap(s.handleAddBook))
		r.Method(http.MethodPost, "/add-copies", guard.Wrap(s.handleAddCopies))
		r.Method(http.MethodPost, "/remove-book", guard.Wrap(s.handleRemoveBook))
		r.Method(http.MethodPost, "/add-member", guard.Wrap(s.handleAddMember))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Method(http.MethodGet, "/librarians", guard.Wrap(s.handleListLibrarians))
		r.Method(http.MethodPost, "/librarians", guard.Wrap(s.handleCreateLibrarian))
		r.Method(http.MethodPut, "/librarians/{id}", guard.Wrap(s.handleUpdateLibrarian))
		r.Method(http.MethodDelete, "/librarians/{id}", guard.Wrap(s.handleDeleteLibrarian))
		r.Method(http.MethodGet, "/audit-log", guard.Wrap(s.handleAuditLog))
		r.Method(http.MethodGet, "/analytics", guard.Wrap(s.handleAnalytics))
	})

	// Unknown paths still pass the gate so that protected areas never leak a 404.
	r.NotFound(guard.Wrap(func(w http.ResponseWriter, _ *http.Request, _ session.Session) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found", Kind: "not_found", Code: "NotFound"})
	}).ServeHTTP)

	return r
}

// NewHTTPServer returns an http.Server with the timeouts every listener should have.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
