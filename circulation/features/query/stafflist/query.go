package stafflist

import (
	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

const (
	queryType = "StaffList"
)

// Query represents the intent to list the open accounts with Role.
type Query struct {
	Role core.Role
}

// BuildQuery creates a new Query.
func BuildQuery(role core.Role) Query {
	return Query{Role: role}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
