package auditlog

const (
	queryType = "AuditLog"

	DefaultLimit = 100
	MaxLimit     = 500
)

// Query represents the intent to read the newest Limit audit entries.
type Query struct {
	Limit int
}

// BuildQuery creates a new Query. A limit below 1 falls back to DefaultLimit, one above
// MaxLimit is capped.
func BuildQuery(limit int) Query {
	switch {
	case limit < 1:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	return Query{Limit: limit}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
