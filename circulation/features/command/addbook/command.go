package addbook

import (
	"strings"
	"time"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

const (
	commandType = "AddBook"

	defaultPublisher = "Unknown"
)

// Command represents the intent to add a copy of the book with ISBN to the collection.
type Command struct {
	CopyID          core.CopyIDString
	ISBN            core.ISBNString
	Title           string
	Authors         []string
	Publisher       string
	Category        string
	PublicationYear int
	Description     string
	LibrarianID     core.UserIDString
	OccurredAt      core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. Author entries are trimmed and blank ones dropped.
func BuildCommand(
	copyID core.CopyIDString,
	isbn core.ISBNString,
	title string,
	authors []string,
	publisher string,
	category string,
	publicationYear int,
	description string,
	librarianID core.UserIDString,
	occurredAt time.Time,
) Command {

	cleanAuthors := make([]string, 0, len(authors))
	for _, author := range authors {
		if author = strings.TrimSpace(author); author != "" {
			cleanAuthors = append(cleanAuthors, author)
		}
	}

	publisher = strings.TrimSpace(publisher)
	if publisher == "" {
		publisher = defaultPublisher
	}

	return Command{
		CopyID:          copyID,
		ISBN:            strings.TrimSpace(isbn),
		Title:           strings.TrimSpace(title),
		Authors:         cleanAuthors,
		Publisher:       publisher,
		Category:        strings.TrimSpace(category),
		PublicationYear: publicationYear,
		Description:     strings.TrimSpace(description),
		LibrarianID:     librarianID,
		OccurredAt:      core.ToOccurredAt(occurredAt),
	}
}

// Validate checks the shape of the input before any event is read.
func (c Command) Validate() error {
	if c.ISBN == "" || c.Title == "" || len(c.Authors) == 0 {
		return core.ErrValidation.WithDetail("ISBN, title, and at least one author are required")
	}

	if c.CopyID == "" {
		return core.ErrValidation.WithDetail("copy id must be set")
	}

	return nil
}
