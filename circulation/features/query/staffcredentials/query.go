package staffcredentials

import (
	"strings"
)

const (
	queryType = "StaffCredentials"
)

// Query represents the intent to look up the account holding Username.
type Query struct {
	Username string
}

// BuildQuery creates a new Query.
func BuildQuery(username string) Query {
	return Query{Username: strings.TrimSpace(username)}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
