package searchcatalog

import (
	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

// BookMatch is one ranked search hit.
type BookMatch struct {
	ISBN            core.ISBNString
	Title           string
	Authors         []string
	Publisher       string
	Category        string
	AvailableCopies int
	TotalCopies     int
	IsAvailable     bool
	PublicationYear int
}

// SearchResults represents the query result.
type SearchResults struct {
	Query          string
	Count          int
	Results        []BookMatch
	SequenceNumber uint
}
