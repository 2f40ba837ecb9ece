package models

import (
	"time"
)

type Document struct {
	ID         string    `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Slug       string    `json:"slug" db:"slug"` // unique across all documents
	Content    string    `json:"content,omitempty" db:"content"`
	CategoryID *string   `json:"category_id" db:"category_id"` // NULL = uncategorized
	AuthorID   string    `json:"author_id" db:"author_id"`
	IsPublic   bool      `json:"is_public" db:"is_public"`
	Views      int64     `json:"views" db:"views"` // monotonically non-decreasing
	ParentID   *string   `json:"parent_id" db:"parent_id"` // NULL = top-level
	Order      int       `json:"order" db:"sort_order"`
	IsIndex    bool      `json:"is_index" db:"is_index"` // main page of its section
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`

	// Assembled by the service layer, not stored on the documents row.
	Category    *Category    `json:"category,omitempty"`
	Tags        []string     `json:"tags"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Children    []Document   `json:"children,omitempty"`
}

// Hierarchy is the one-level parent/siblings/children view of a document's
// position in the tree. Siblings are the parent's other direct children (all
// other top-level documents when the document has no parent); the document
// itself is excluded. No deeper ancestor path or subtree is computed.
type Hierarchy struct {
	Parent   *Document  `json:"parent"`
	Siblings []Document `json:"siblings"`
	Children []Document `json:"children"`
}
