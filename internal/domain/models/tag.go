package models

// Tag is a case-insensitive label attached to documents. Names are unique
// ignoring case; the stored casing is whichever spelling was seen first.
type Tag struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	// DocumentCount is computed on list queries, not stored.
	DocumentCount int `json:"document_count,omitempty"`
}
