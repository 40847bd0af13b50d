package analytics

import (
	"strings"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

const (
	queryType = "Analytics"

	TopBorrowedLimit = 10
)

// ReportType selects the report.
type ReportType string

const (
	ReportOverview         ReportType = "overview"
	ReportOverdueToday     ReportType = "overdue-today"
	ReportTopBorrowedBooks ReportType = "top-borrowed-books"
	ReportFinesCollected   ReportType = "fines-collected"
)

// Query represents the intent to build one report as of Today.
type Query struct {
	Type  ReportType
	Today core.CalendarDate
}

// BuildQuery creates a new Query. The type defaults to overview.
func BuildQuery(reportType string, today core.CalendarDate) Query {
	reportType = strings.TrimSpace(reportType)
	if reportType == "" {
		reportType = string(ReportOverview)
	}

	return Query{
		Type:  ReportType(reportType),
		Today: today,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}

// Validate rejects unknown report types.
func (q Query) Validate() error {
	switch q.Type {
	case ReportOverview, ReportOverdueToday, ReportTopBorrowedBooks, ReportFinesCollected:
		return nil
	default:
		return core.ErrValidation.WithDetail("Invalid analytics type")
	}
}
