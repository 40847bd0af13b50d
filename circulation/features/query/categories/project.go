package categories

import (
	"slices"
	"strings"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/eventstore"
)

// ProjectCategories returns the distinct categories of all registered books.
// Books without a category are listed under Uncategorized. Names that only differ in case
// or punctuation share a slug and are listed once, under the first name seen.
func ProjectCategories(history core.DomainEvents) Categories {
	seen := make(map[string]bool)
	result := make([]Category, 0)

	for _, event := range history {
		e, ok := event.(core.BookRegisteredInCatalog)
		if !ok {
			continue
		}

		name := e.Category
		if name == "" {
			name = core.UncategorizedCategory
		}

		slug := core.CategorySlug(name)
		if seen[slug] {
			continue
		}

		seen[slug] = true
		result = append(result, Category{CategoryID: slug, Name: name})
	}

	slices.SortFunc(result, func(a, b Category) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	return Categories{Categories: result}
}

// BuildEventFilter creates the filter for all catalog registrations.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookRegisteredInCatalogEventType).
		Finalize()
}
