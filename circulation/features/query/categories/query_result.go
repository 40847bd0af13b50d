package categories

// Category is one category with its slug as id.
type Category struct {
	CategoryID string
	Name       string
}

// Categories represents the query result, sorted by name.
type Categories struct {
	Categories     []Category
	SequenceNumber uint
}
