package core

import (
	"errors"
)

// FailureKind groups failures by how a caller can react to them.
type FailureKind string

const (
	KindValidation FailureKind = "validation"
	KindNotFound   FailureKind = "not_found"
	KindConflict   FailureKind = "conflict"
	KindAuth       FailureKind = "auth"
)

// Failure is a business failure with a stable kind and code plus a human-readable detail.
// Two failures are the same for errors.Is when their codes match, whatever the detail says.
type Failure struct {
	Kind   FailureKind
	Code   string
	Detail string
}

func (f Failure) Error() string {
	if f.Detail == "" {
		return f.Code
	}

	return f.Detail
}

// Is makes errors.Is match on the code.
func (f Failure) Is(target error) bool {
	var other Failure
	if !errors.As(target, &other) {
		return false
	}

	return other.Code == f.Code
}

// WithDetail returns a copy of f with another detail text.
func (f Failure) WithDetail(detail string) Failure {
	f.Detail = detail
	return f
}

// AsFailure extracts a Failure from err.
func AsFailure(err error) (Failure, bool) {
	var failure Failure
	if errors.As(err, &failure) {
		return failure, true
	}

	return Failure{}, false
}

var (
	ErrValidation      = Failure{Kind: KindValidation, Code: "ValidationError", Detail: "invalid input"}
	ErrInvalidDueDate  = Failure{Kind: KindValidation, Code: "InvalidDueDate", Detail: "Due date cannot be in the past"}
	ErrInvalidQuantity = Failure{Kind: KindValidation, Code: "InvalidQuantity", Detail: "Quantity must be between 1 and 100"}

	ErrCopyNotFound         = Failure{Kind: KindNotFound, Code: "CopyNotFound", Detail: "Book copy not found"}
	ErrBookNotFound         = Failure{Kind: KindNotFound, Code: "BookNotFound", Detail: "Book not found"}
	ErrMemberNotFound       = Failure{Kind: KindNotFound, Code: "MemberNotFound", Detail: "Member not found"}
	ErrNoActiveBorrow       = Failure{Kind: KindNotFound, Code: "NoActiveBorrow", Detail: "No active borrow found for this copy"}
	ErrStaffAccountNotFound = Failure{Kind: KindNotFound, Code: "StaffAccountNotFound", Detail: "Librarian not found"}

	ErrCopyUnavailable   = Failure{Kind: KindConflict, Code: "CopyUnavailable", Detail: "Book copy is not available"}
	ErrStaleFineState    = Failure{Kind: KindConflict, Code: "StaleFineState", Detail: "Fine is no longer valid, restart the return"}
	ErrDuplicateMember   = Failure{Kind: KindConflict, Code: "DuplicateMember", Detail: "Member ID already exists"}
	ErrCopyOnLoan        = Failure{Kind: KindConflict, Code: "CopyOnLoan", Detail: "Book copy is currently borrowed, return it first"}
	ErrDuplicateUsername = Failure{Kind: KindConflict, Code: "DuplicateUsername", Detail: "Username already exists"}
	ErrDuplicateBorrowID = Failure{Kind: KindConflict, Code: "DuplicateBorrowID", Detail: "Borrow ID was already used for another loan"}

	ErrInvalidSession       = Failure{Kind: KindAuth, Code: "InvalidSession", Detail: "Invalid Session"}
	ErrInvalidCredentials   = Failure{Kind: KindAuth, Code: "InvalidCredentials", Detail: "Invalid username or password"}
	ErrTooManyLoginAttempts = Failure{Kind: KindAuth, Code: "TooManyLoginAttempts", Detail: "Too many login attempts, try again later"}
)
