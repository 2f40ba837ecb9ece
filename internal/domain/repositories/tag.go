package repositories

import (
	"context"

	"dochive/internal/domain/models"
)

// TagRepository defines data access operations for tags. Tag names are
// unique ignoring case; the first-seen spelling is kept.
type TagRepository interface {
	// SetDocumentTags replaces a document's tag set with the given names,
	// creating tags that don't exist yet.
	SetDocumentTags(ctx context.Context, documentID string, names []string) error

	// ListForDocument returns a document's tag names.
	ListForDocument(ctx context.Context, documentID string) ([]string, error)

	// ListForDocuments returns tag names for a batch of documents, keyed by
	// document ID.
	ListForDocuments(ctx context.Context, documentIDs []string) (map[string][]string, error)

	// List returns all tags ordered by name, with document counts.
	List(ctx context.Context) ([]models.Tag, error)
}
