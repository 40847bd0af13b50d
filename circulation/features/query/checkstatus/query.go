package checkstatus

import (
	"strings"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

const (
	queryType = "CheckStatus"
)

// Query represents the intent to look up one copy. Today is used for days overdue.
type Query struct {
	CopyID core.CopyIDString
	Today  core.CalendarDate
}

// BuildQuery creates a new Query.
func BuildQuery(copyID core.CopyIDString, today core.CalendarDate) Query {
	return Query{
		CopyID: strings.TrimSpace(copyID),
		Today:  today,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
