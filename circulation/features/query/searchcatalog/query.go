package searchcatalog

import (
	"strings"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

const (
	queryType = "SearchCatalog"

	minQueryLength = 2
)

// Query represents a catalog search. Category matches the category name or its slug.
// A nil Available does not filter on availability.
type Query struct {
	Text      string
	Category  string
	Available *bool
}

// BuildQuery creates a new Query with trimmed input.
func BuildQuery(text string, category string, available *bool) Query {
	return Query{
		Text:      strings.TrimSpace(text),
		Category:  strings.TrimSpace(category),
		Available: available,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}

// Validate requires a text of at least two characters unless a filter is given.
func (q Query) Validate() error {
	if q.Category != "" || q.Available != nil {
		return nil
	}

	if len([]rune(q.Text)) < minQueryLength {
		return core.ErrValidation.WithDetail("Search query must be at least 2 characters")
	}

	return nil
}
