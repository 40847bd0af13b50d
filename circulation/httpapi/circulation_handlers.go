package httpapi

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/borrowcopy"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/returncopy"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/checkstatus"
	"github.com/AntonStoeckl/library-circulation/circulation/session"
)

func (s *Server) handleBorrow(w http.ResponseWriter, r *http.Request, caller session.Session) {
	var req borrowRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var dueDate core.CalendarDate
	if req.DueDate != "" {
		parsed, err := core.ParseCalendarDate(req.DueDate)
		if err != nil {
			s.writeError(w, r, core.ErrValidation.WithDetail("Invalid due date format, expected YYYY-MM-DD"))
			return
		}
		dueDate = parsed
	}

	borrowID := string(req.BorrowID)
	if borrowID == "" {
		borrowID = uuid.Must(uuid.NewV7()).String()
	}

	command := borrowcopy.BuildCommand(
		borrowID,
		string(req.CopyID),
		string(req.MemberID),
		dueDate,
		s.clock.Today(),
		caller.UserID,
		s.clock.Now(),
	)

	result, err := s.commands.BorrowCopy.Handle(r.Context(), command)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, borrowResponse{
		Message:    "Book borrowed successfully",
		BorrowID:   result.Borrow.BorrowID,
		CopyID:     result.Borrow.CopyID,
		MemberID:   result.Borrow.MemberID,
		MemberName: result.Borrow.MemberName,
		BorrowDate: result.Borrow.BorrowDate,
		DueDate:    result.Borrow.DueDate,
	})
}

func (s *Server) handleReturn(w http.ResponseWriter, r *http.Request, caller session.Session) {
	var req returnRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	command := returncopy.BuildCommand(
		string(req.CopyID),
		caller.UserID,
		req.ConfirmPayment,
		req.FineID,
		s.clock.Today(),
		s.clock.Now(),
	)

	result, err := s.commands.ReturnCopy.Handle(r.Context(), command)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch result.Outcome {
	case returncopy.OutcomePaymentRequired:
		details := fineDetailsFrom(result.Fine)
		writeJSON(w, http.StatusPaymentRequired, returnResponse{
			Message: fmt.Sprintf(
				"Book is %d day(s) overdue. A fine of %s must be paid before the return.",
				result.Fine.DaysOverdue, result.Fine.Amount,
			),
			RequiresPayment: true,
			BorrowID:        result.Fine.BorrowID,
			FineDetails:     &details,
		})
	case returncopy.OutcomeSettled:
		details := fineDetailsFrom(result.Fine)
		returnDate := result.Returned.ReturnDate
		writeJSON(w, http.StatusOK, returnResponse{
			Message:     fmt.Sprintf("Fine of %s paid and book returned successfully", result.Fine.Amount),
			BorrowID:    result.Returned.BorrowID,
			ReturnDate:  &returnDate,
			FineDetails: &details,
		})
	default:
		returnDate := result.Returned.ReturnDate
		writeJSON(w, http.StatusOK, returnResponse{
			Message:    "Book returned successfully",
			BorrowID:   result.Returned.BorrowID,
			ReturnDate: &returnDate,
		})
	}
}

func (s *Server) handleCheckStatus(w http.ResponseWriter, r *http.Request, _ session.Session) {
	query := checkstatus.BuildQuery(r.URL.Query().Get("copy_id"), s.clock.Today())

	status, err := s.queries.CheckStatus.Handle(r.Context(), query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, copyStatusFrom(status))
}
