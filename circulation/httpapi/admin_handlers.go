package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation/circulation/auth"
	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/closestaffaccount"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/openstaffaccount"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/updatestaffaccount"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/analytics"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/auditlog"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/stafflist"
	"github.com/AntonStoeckl/library-circulation/circulation/session"
)

func (s *Server) handleListLibrarians(w http.ResponseWriter, r *http.Request, _ session.Session) {
	members, err := s.queries.StaffList.Handle(r.Context(), stafflist.BuildQuery(core.RoleLibrarian))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, librariansFrom(members))
}

func (s *Server) handleCreateLibrarian(w http.ResponseWriter, r *http.Request, caller session.Session) {
	var req librarianRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if req.Username == "" || req.Password == "" || req.FullName == "" || req.Email == "" {
		s.writeError(w, r, core.ErrValidation.WithDetail("All fields are required"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	command := openstaffaccount.BuildCommand(
		uuid.Must(uuid.NewV7()).String(),
		req.Username,
		hash,
		core.RoleLibrarian,
		req.FullName,
		req.Email,
		caller.UserID,
		s.clock.Now(),
	)

	if _, err := s.commands.OpenStaffAccount.Handle(r.Context(), command); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createLibrarianResponse{
		Message: "Librarian created successfully",
		UserID:  command.UserID,
	})
}

func (s *Server) handleUpdateLibrarian(w http.ResponseWriter, r *http.Request, caller session.Session) {
	var req librarianRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var hash string
	if req.Password != "" {
		var err error
		if hash, err = auth.HashPassword(req.Password); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	command := updatestaffaccount.BuildCommand(
		chi.URLParam(r, "id"),
		core.RoleLibrarian,
		req.Username,
		hash,
		req.FullName,
		req.Email,
		caller.UserID,
		s.clock.Now(),
	)

	if _, err := s.commands.UpdateStaffAccount.Handle(r.Context(), command); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Librarian updated successfully"})
}

func (s *Server) handleDeleteLibrarian(w http.ResponseWriter, r *http.Request, caller session.Session) {
	command := closestaffaccount.BuildCommand(chi.URLParam(r, "id"), core.RoleLibrarian, caller.UserID, s.clock.Now())

	if _, err := s.commands.CloseStaffAccount.Handle(r.Context(), command); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Librarian deleted successfully"})
}

func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request, _ session.Session) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := s.queries.AuditLog.Handle(r.Context(), auditlog.BuildQuery(limit))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, auditLogFrom(entries))
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request, _ session.Session) {
	query := analytics.BuildQuery(r.URL.Query().Get("type"), s.clock.Today())

	report, err := s.queries.Analytics.Handle(r.Context(), query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, analyticsFrom(report))
}
