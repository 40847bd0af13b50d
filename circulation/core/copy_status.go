package core

// CopyStatus is the circulation status of a physical copy.
type CopyStatus string

const (
	CopyAvailable CopyStatus = "Available"
	CopyBorrowed  CopyStatus = "Borrowed"
	CopyLost      CopyStatus = "Lost"
)
