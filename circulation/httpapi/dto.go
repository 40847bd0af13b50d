package httpapi

import (
	"time"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/analytics"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/auditlog"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/checkstatus"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/searchcatalog"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/stafflist"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message  string `json:"message"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type borrowRequest struct {
	BorrowID    flexibleID `json:"borrow_id"`
	CopyID      flexibleID `json:"copy_id"`
	MemberID    flexibleID `json:"member_id"`
	DueDate     string     `json:"due_date"`
	LibrarianID flexibleID `json:"librarian_id"`
}

type borrowResponse struct {
	Message    string            `json:"message"`
	BorrowID   string            `json:"borrow_id"`
	CopyID     string            `json:"copy_id"`
	MemberID   string            `json:"member_id"`
	MemberName string            `json:"member_name"`
	BorrowDate core.CalendarDate `json:"borrow_date"`
	DueDate    core.CalendarDate `json:"due_date"`
}

type returnRequest struct {
	CopyID         flexibleID `json:"copy_id"`
	LibrarianID    flexibleID `json:"librarian_id"`
	ConfirmPayment bool       `json:"confirm_payment"`
	FineID         string     `json:"fine_id"`
}

type fineDetails struct {
	FineID      string            `json:"fine_id"`
	BorrowID    string            `json:"borrow_id"`
	CopyID      string            `json:"copy_id"`
	MemberID    string            `json:"member_id"`
	MemberName  string            `json:"member_name"`
	MemberEmail string            `json:"member_email"`
	BorrowDate  core.CalendarDate `json:"borrow_date"`
	DueDate     core.CalendarDate `json:"due_date"`
	DaysOverdue int               `json:"days_overdue"`
	FineAmount  float64           `json:"fine_amount"`
}

func fineDetailsFrom(fine core.Fine) fineDetails {
	return fineDetails{
		FineID:      fine.FineID,
		BorrowID:    fine.BorrowID,
		CopyID:      fine.CopyID,
		MemberID:    fine.MemberID,
		MemberName:  fine.MemberName,
		MemberEmail: fine.MemberEmail,
		BorrowDate:  fine.BorrowDate,
		DueDate:     fine.DueDate,
		DaysOverdue: fine.DaysOverdue,
		FineAmount:  fine.Amount.Float64(),
	}
}

type returnResponse struct {
	Message         string             `json:"message"`
	RequiresPayment bool               `json:"requires_payment"`
	BorrowID        string             `json:"borrow_id,omitempty"`
	ReturnDate      *core.CalendarDate `json:"return_date,omitempty"`
	FineDetails     *fineDetails       `json:"fine_details,omitempty"`
}

type borrowInfo struct {
	BorrowID    string            `json:"borrow_id"`
	MemberID    string            `json:"member_id"`
	MemberName  string            `json:"member_name"`
	MemberEmail string            `json:"member_email"`
	BorrowDate  core.CalendarDate `json:"borrow_date"`
	DueDate     core.CalendarDate `json:"due_date"`
	DaysOverdue int               `json:"days_overdue"`
}

type copyStatusResponse struct {
	CopyID          string      `json:"copy_id"`
	ISBN            string      `json:"isbn"`
	Title           string      `json:"title"`
	Authors         []string    `json:"authors"`
	Publisher       string      `json:"publisher"`
	Category        string      `json:"category"`
	PublicationYear int         `json:"publication_year,omitempty"`
	Status          string      `json:"status"`
	IsAvailable     bool        `json:"is_available"`
	BorrowInfo      *borrowInfo `json:"borrow_info,omitempty"`
}

func copyStatusFrom(status checkstatus.CopyStatus) copyStatusResponse {
	response := copyStatusResponse{
		CopyID:          status.CopyID,
		ISBN:            status.ISBN,
		Title:           status.Title,
		Authors:         nonNil(status.Authors),
		Publisher:       status.Publisher,
		Category:        status.Category,
		PublicationYear: status.PublicationYear,
		Status:          string(status.Status),
		IsAvailable:     status.IsAvailable,
	}

	if b := status.Borrow; b != nil {
		response.BorrowInfo = &borrowInfo{
			BorrowID:    b.BorrowID,
			MemberID:    b.MemberID,
			MemberName:  b.MemberName,
			MemberEmail: b.MemberEmail,
			BorrowDate:  b.BorrowDate,
			DueDate:     b.DueDate,
			DaysOverdue: b.DaysOverdue,
		}
	}

	return response
}

type searchResult struct {
	ISBN            string   `json:"isbn"`
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	Publisher       string   `json:"publisher"`
	Category        string   `json:"category"`
	AvailableCopies int      `json:"available_copies"`
	TotalCopies     int      `json:"total_copies"`
	IsAvailable     bool     `json:"is_available"`
	PublicationYear int      `json:"publication_year,omitempty"`
}

type searchResponse struct {
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Results []searchResult `json:"results"`
}

func searchResponseFrom(results searchcatalog.SearchResults) searchResponse {
	response := searchResponse{
		Query:   results.Query,
		Count:   results.Count,
		Results: make([]searchResult, 0, len(results.Results)),
	}

	for _, match := range results.Results {
		response.Results = append(response.Results, searchResult{
			ISBN:            match.ISBN,
			Title:           match.Title,
			Authors:         nonNil(match.Authors),
			Publisher:       match.Publisher,
			Category:        match.Category,
			AvailableCopies: match.AvailableCopies,
			TotalCopies:     match.TotalCopies,
			IsAvailable:     match.IsAvailable,
			PublicationYear: match.PublicationYear,
		})
	}

	return response
}

type categoryResponse struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
}

type categoriesResponse struct {
	Categories []categoryResponse `json:"categories"`
}

type addBookRequest struct {
	ISBN            string     `json:"isbn"`
	Title           string     `json:"title"`
	Authors         []string   `json:"authors"`
	Publisher       string     `json:"publisher"`
	Category        string     `json:"category"`
	CategoryID      flexibleID `json:"category_id"`
	PublicationYear int        `json:"publication_year"`
	Description     string     `json:"description"`
}

type addBookResponse struct {
	Message        string `json:"message"`
	CopyID         string `json:"copy_id"`
	ISBN           string `json:"isbn"`
	BookRegistered bool   `json:"book_registered"`
}

type addCopiesRequest struct {
	ISBN     string `json:"isbn"`
	Quantity int    `json:"quantity"`
}

type addCopiesResponse struct {
	Message string   `json:"message"`
	CopyIDs []string `json:"copy_ids"`
}

type removeBookRequest struct {
	CopyID flexibleID `json:"copy_id"`
}

type removeBookResponse struct {
	Message string `json:"message"`
	ISBN    string `json:"isbn"`
}

type addMemberRequest struct {
	MemberID flexibleID `json:"member_id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone"`
	Address  string     `json:"address"`
}

type addMemberResponse struct {
	Message  string `json:"message"`
	MemberID string `json:"member_id"`
}

type librarianRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type librarianResponse struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type librariansResponse struct {
	Librarians []librarianResponse `json:"librarians"`
	Count      int                 `json:"count"`
}

func librariansFrom(members stafflist.StaffMembers) librariansResponse {
	response := librariansResponse{
		Librarians: make([]librarianResponse, 0, len(members.Members)),
		Count:      members.Count,
	}

	for _, m := range members.Members {
		response.Librarians = append(response.Librarians, librarianResponse{
			UserID:    m.UserID,
			Username:  m.Username,
			Role:      string(m.Role),
			FullName:  m.FullName,
			Email:     m.Email,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		})
	}

	return response
}

type createLibrarianResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type auditEntry struct {
	AuditID   uint           `json:"audit_id"`
	UserID    string         `json:"user_id"`
	Action    string         `json:"action"`
	TableName string         `json:"table_name"`
	RecordID  string         `json:"record_id"`
	NewValues map[string]any `json:"new_values"`
	Timestamp time.Time      `json:"timestamp"`
}

type auditLogResponse struct {
	Logs  []auditEntry `json:"logs"`
	Count int          `json:"count"`
}

func auditLogFrom(entries auditlog.Entries) auditLogResponse {
	response := auditLogResponse{
		Logs:  make([]auditEntry, 0, len(entries.Entries)),
		Count: entries.Count,
	}

	for _, e := range entries.Entries {
		response.Logs = append(response.Logs, auditEntry{
			AuditID:   e.AuditID,
			UserID:    e.UserID,
			Action:    string(e.Action),
			TableName: e.TableName,
			RecordID:  e.RecordID,
			NewValues: e.NewValues,
			Timestamp: e.Timestamp,
		})
	}

	return response
}

type overviewResponse struct {
	TotalBooks    int     `json:"total_books"`
	TotalMembers  int     `json:"total_members"`
	ActiveBorrows int     `json:"active_borrows"`
	OverdueBooks  int     `json:"overdue_books"`
	TotalFines    float64 `json:"total_fines"`
}

type overdueLoanResponse struct {
	BorrowID    string            `json:"borrow_id"`
	CopyID      string            `json:"copy_id"`
	ISBN        string            `json:"isbn"`
	Title       string            `json:"title"`
	MemberID    string            `json:"member_id"`
	MemberName  string            `json:"member_name"`
	MemberEmail string            `json:"member_email"`
	BorrowDate  core.CalendarDate `json:"borrow_date"`
	DueDate     core.CalendarDate `json:"due_date"`
	DaysOverdue int               `json:"days_overdue"`
	FineAmount  float64           `json:"fine_amount"`
}

type topBorrowedResponse struct {
	ISBN        string   `json:"isbn"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	BorrowCount int      `json:"borrow_count"`
}

type monthlyFinesResponse struct {
	Month       string  `json:"month"`
	FineCount   int     `json:"fine_count"`
	TotalAmount float64 `json:"total_amount"`
}

type analyticsResponse struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func analyticsFrom(report analytics.Report) analyticsResponse {
	response := analyticsResponse{Type: string(report.Type)}

	switch report.Type {
	case analytics.ReportOverview:
		if o := report.Overview; o != nil {
			response.Data = overviewResponse{
				TotalBooks:    o.TotalBooks,
				TotalMembers:  o.TotalMembers,
				ActiveBorrows: o.ActiveBorrows,
				OverdueBooks:  o.OverdueBooks,
				TotalFines:    o.TotalFines.Float64(),
			}
		}
	case analytics.ReportOverdueToday:
		loans := make([]overdueLoanResponse, 0, len(report.OverdueToday))
		for _, l := range report.OverdueToday {
			loans = append(loans, overdueLoanResponse{
				BorrowID:    l.BorrowID,
				CopyID:      l.CopyID,
				ISBN:        l.ISBN,
				Title:       l.Title,
				MemberID:    l.MemberID,
				MemberName:  l.MemberName,
				MemberEmail: l.MemberEmail,
				BorrowDate:  l.BorrowDate,
				DueDate:     l.DueDate,
				DaysOverdue: l.DaysOverdue,
				FineAmount:  l.FineAmount.Float64(),
			})
		}
		response.Data = loans
	case analytics.ReportTopBorrowedBooks:
		books := make([]topBorrowedResponse, 0, len(report.TopBorrowed))
		for _, b := range report.TopBorrowed {
			books = append(books, topBorrowedResponse{
				ISBN:        b.ISBN,
				Title:       b.Title,
				Authors:     nonNil(b.Authors),
				BorrowCount: b.BorrowCount,
			})
		}
		response.Data = books
	case analytics.ReportFinesCollected:
		months := make([]monthlyFinesResponse, 0, len(report.FinesCollected))
		for _, m := range report.FinesCollected {
			months = append(months, monthlyFinesResponse{
				Month:       m.Month,
				FineCount:   m.FineCount,
				TotalAmount: m.TotalAmount.Float64(),
			})
		}
		response.Data = months
	}

	return response
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}

	return values
}
