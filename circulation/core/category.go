package core

import (
	"strings"
	"unicode"
)

// UncategorizedCategory is used for books registered without a category.
const UncategorizedCategory = "Uncategorized"

// CategorySlug turns a category name into its id, e.g. "Science Fiction" -> "science-fiction".
func CategorySlug(name string) string {
	var b strings.Builder
	pendingDash := false

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}

			b.WriteRune(r)
			pendingDash = false

			continue
		}

		pendingDash = true
	}

	return b.String()
}
