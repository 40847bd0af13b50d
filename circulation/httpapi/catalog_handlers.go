package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/addbook"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/addcopies"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/registermember"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/retirecopy"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/categories"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/searchcatalog"
	"github.com/AntonStoeckl/library-circulation/circulation/session"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, _ session.Session) {
	params := r.URL.Query()

	var available *bool
	if raw := params.Get("available"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeError(w, r, core.ErrValidation.WithDetail("available must be true or false"))
			return
		}
		available = &value
	}

	query := searchcatalog.BuildQuery(params.Get("q"), params.Get("category"), available)

	results, err := s.queries.SearchCatalog.Handle(r.Context(), query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseFrom(results))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request, _ session.Session) {
	result, err := s.queries.Categories.Handle(r.Context(), categories.BuildQuery())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	response := categoriesResponse{Categories: make([]categoryResponse, 0, len(result.Categories))}
	for _, c := range result.Categories {
		response.Categories = append(response.Categories, categoryResponse{CategoryID: c.CategoryID, Name: c.Name})
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleAddBook(w http.ResponseWriter, r *http.Request, caller session.Session) {
	var req addBookRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	category := req.Category
	if strings.TrimSpace(category) == "" {
		category = string(req.CategoryID)
	}

	command := addbook.BuildCommand(
		uuid.Must(uuid.NewV7()).String(),
		req.ISBN,
		req.Title,
		req.Authors,
		req.Publisher,
		category,
		req.PublicationYear,
		req.Description,
		caller.UserID,
		s.clock.Now(),
	)

	result, err := s.commands.AddBook.Handle(r.Context(), command)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, addBookResponse{
		Message:        "Book added successfully",
		CopyID:         result.CopyID,
		ISBN:           command.ISBN,
		BookRegistered: result.BookRegistered,
	})
}

func (s *Server) handleAddCopies(w http.ResponseWriter, r *http.Request, caller session.Session) {
	var req addCopiesRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	command := addcopies.BuildCommand(req.ISBN, req.Quantity, caller.UserID, s.clock.Now())

	result, err := s.commands.AddCopies.Handle(r.Context(), command)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, addCopiesResponse{
		Message: fmt.Sprintf("%d copies added successfully", len(result.CopyIDs)),
		CopyIDs: result.CopyIDs,
	})
}

func (s *Server) handleRemoveBook(w http.ResponseWriter, r *http.Request, caller session.Session) {
	var req removeBookRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	command := retirecopy.BuildCommand(string(req.CopyID), caller.UserID, s.clock.Now())

	result, err := s.commands.RetireCopy.Handle(r.Context(), command)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, removeBookResponse{
		Message: "Book copy marked as lost",
		ISBN:    result.ISBN,
	})
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request, caller session.Session) {
	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	command := registermember.BuildCommand(
		string(req.MemberID),
		req.Name,
		req.Email,
		req.Phone,
		req.Address,
		caller.UserID,
		s.clock.Now(),
	)

	if _, err := s.commands.RegisterMember.Handle(r.Context(), command); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, addMemberResponse{
		Message:  "Member added successfully",
		MemberID: command.MemberID,
	})
}
