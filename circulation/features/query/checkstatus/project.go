package checkstatus

import (
	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/eventstore"
)

// ProjectCopyStatus implements the query logic for the status of one copy.
//
// Query Logic:
//
//	GIVEN: a copy with CopyID
//	WHEN: CheckStatus is executed
//	THEN: the copy with its book metadata and status is returned
//	INCLUDES: the open borrow with days overdue as of Today, if the copy is borrowed
//	ERROR: CopyNotFound if the copy was never added
func ProjectCopyStatus(history core.DomainEvents, query Query) (CopyStatus, error) {
	result := CopyStatus{CopyID: query.CopyID}
	copyExists := false
	retired := false
	var openBorrow *core.CopyLentToMember

	for _, event := range history {
		switch e := event.(type) {
		case core.CopyAddedToCirculation:
			if e.CopyID == query.CopyID {
				copyExists = true
				result.ISBN = e.ISBN
			}

		case core.CopyRetired:
			if e.CopyID == query.CopyID {
				retired = true
			}

		case core.CopyLentToMember:
			if e.CopyID == query.CopyID {
				lent := e
				openBorrow = &lent
			}

		case core.CopyReturnedByMember:
			if e.CopyID == query.CopyID {
				openBorrow = nil
			}

		case core.BookRegisteredInCatalog:
			if e.ISBN == result.ISBN {
				result.Title = e.Title
				result.Authors = e.Authors
				result.Publisher = e.Publisher
				result.Category = e.Category
				result.PublicationYear = e.PublicationYear
			}
		}
	}

	if !copyExists {
		return CopyStatus{}, core.ErrCopyNotFound
	}

	switch {
	case openBorrow != nil:
		result.Status = core.CopyBorrowed
		result.Borrow = &BorrowInfo{
			BorrowID:    openBorrow.BorrowID,
			MemberID:    openBorrow.MemberID,
			MemberName:  openBorrow.MemberName,
			MemberEmail: openBorrow.MemberEmail,
			BorrowDate:  openBorrow.BorrowDate,
			DueDate:     openBorrow.DueDate,
			DaysOverdue: core.DaysOverdue(openBorrow.DueDate, query.Today),
		}
	case retired:
		result.Status = core.CopyLost
	default:
		result.Status = core.CopyAvailable
		result.IsAvailable = true
	}

	return result, nil
}

// BuildCopyEventFilter creates the filter for all events of one copy.
func BuildCopyEventFilter(copyID core.CopyIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CopyAddedToCirculationEventType,
			core.CopyRetiredEventType,
			core.CopyLentToMemberEventType,
			core.CopyReturnedByMemberEventType,
		).
		AndAnyPredicateOf(eventstore.P("CopyID", copyID)).
		Finalize()
}

// BuildBookEventFilter creates the filter for the catalog entry of one ISBN.
func BuildBookEventFilter(isbn core.ISBNString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookRegisteredInCatalogEventType).
		AndAnyPredicateOf(eventstore.P("ISBN", isbn)).
		Finalize()
}
