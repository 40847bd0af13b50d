package searchcatalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/eventstore"
)

const (
	rankExactISBN = iota
	rankTitlePrefix
	rankTitleSubstring
	rankOtherField
	noMatch
)

type copyState struct {
	isbn    core.ISBNString
	onLoan  bool
	retired bool
}

// ProjectSearchResults implements the catalog search over the full catalog history.
//
// Query Logic:
//
//	GIVEN: registered books and their copies
//	WHEN: SearchCatalog is executed
//	THEN: matching books are returned with copy counts, ranked
//	RANKING: exact ISBN, then title prefix, then title substring, then other fields; ties by title
//	EXCLUDES: retired copies from both counts
func ProjectSearchResults(history core.DomainEvents, query Query) SearchResults {
	books := make(map[core.ISBNString]core.BookRegisteredInCatalog)
	copies := make(map[core.CopyIDString]*copyState)

	for _, event := range history {
		switch e := event.(type) {
		case core.BookRegisteredInCatalog:
			books[e.ISBN] = e

		case core.CopyAddedToCirculation:
			copies[e.CopyID] = &copyState{isbn: e.ISBN}

		case core.CopyRetired:
			if c, ok := copies[e.CopyID]; ok {
				c.retired = true
			}

		case core.CopyLentToMember:
			if c, ok := copies[e.CopyID]; ok {
				c.onLoan = true
			}

		case core.CopyReturnedByMember:
			if c, ok := copies[e.CopyID]; ok {
				c.onLoan = false
			}
		}
	}

	total := make(map[core.ISBNString]int)
	available := make(map[core.ISBNString]int)
	for _, c := range copies {
		if c.retired {
			continue
		}

		total[c.isbn]++
		if !c.onLoan {
			available[c.isbn]++
		}
	}

	type rankedMatch struct {
		rank  int
		match BookMatch
	}

	needle := strings.ToLower(query.Text)
	ranked := make([]rankedMatch, 0)

	for isbn, book := range books {
		if query.Category != "" && !matchesCategory(book.Category, query.Category) {
			continue
		}

		match := BookMatch{
			ISBN:            isbn,
			Title:           book.Title,
			Authors:         book.Authors,
			Publisher:       book.Publisher,
			Category:        book.Category,
			AvailableCopies: available[isbn],
			TotalCopies:     total[isbn],
			IsAvailable:     available[isbn] > 0,
			PublicationYear: book.PublicationYear,
		}

		if query.Available != nil && match.IsAvailable != *query.Available {
			continue
		}

		rank := rankOf(book, needle)
		if rank == noMatch {
			continue
		}

		ranked = append(ranked, rankedMatch{rank: rank, match: match})
	}

	slices.SortFunc(ranked, func(a, b rankedMatch) int {
		return cmp.Or(
			cmp.Compare(a.rank, b.rank),
			cmp.Compare(strings.ToLower(a.match.Title), strings.ToLower(b.match.Title)),
			cmp.Compare(a.match.ISBN, b.match.ISBN),
		)
	})

	results := make([]BookMatch, 0, len(ranked))
	for _, r := range ranked {
		results = append(results, r.match)
	}

	return SearchResults{
		Query:   query.Text,
		Count:   len(results),
		Results: results,
	}
}

func rankOf(book core.BookRegisteredInCatalog, needle string) int {
	if needle == "" {
		return rankOtherField
	}

	title := strings.ToLower(book.Title)

	switch {
	case strings.ToLower(book.ISBN) == needle:
		return rankExactISBN
	case strings.HasPrefix(title, needle):
		return rankTitlePrefix
	case strings.Contains(title, needle):
		return rankTitleSubstring
	case strings.Contains(strings.ToLower(book.ISBN), needle),
		strings.Contains(strings.ToLower(book.Publisher), needle),
		slices.ContainsFunc(book.Authors, func(author string) bool {
			return strings.Contains(strings.ToLower(author), needle)
		}):
		return rankOtherField
	default:
		return noMatch
	}
}

func matchesCategory(bookCategory string, wanted string) bool {
	if bookCategory == "" {
		bookCategory = core.UncategorizedCategory
	}

	return strings.EqualFold(bookCategory, wanted) || core.CategorySlug(bookCategory) == core.CategorySlug(wanted)
}

// BuildEventFilter creates the filter for the whole catalog with all copy state changes.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookRegisteredInCatalogEventType,
			core.CopyAddedToCirculationEventType,
			core.CopyRetiredEventType,
			core.CopyLentToMemberEventType,
			core.CopyReturnedByMemberEventType,
		).
		Finalize()
}
