package entity

// ItemError describes why one item of a batch operation failed.
// ID is set for bulk updates, Title for imports.
type ItemError struct {
	ID      uint
	Title   string
	Message string
}

// BulkUpdateResult is the outcome of applying one patch to many todos.
// Every requested ID ends up either in UpdatedIDs or in Errors.
type BulkUpdateResult struct {
	UpdatedCount int
	UpdatedIDs   []uint
	Errors       []ItemError
}

// ImportResult is the outcome of creating many todos at once.
type ImportResult struct {
	ImportedCount int
	ImportedIDs   []uint
	Errors        []ItemError
}
