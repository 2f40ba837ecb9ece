package repositories

import (
	"context"

	"dochive/internal/domain/models"
)

// DocumentRepository defines data access operations for documents.
type DocumentRepository interface {
	// Create inserts a new document. A slug collision returns a
	// domain.ConflictError carrying the existing document's ID.
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document by ID.
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// GetBySlug retrieves a document by slug.
	GetBySlug(ctx context.Context, slug string) (*models.Document, error)

	// Update updates an existing document's mutable fields.
	Update(ctx context.Context, doc *models.Document) error

	// Delete removes a document. Attachment rows cascade in storage.
	Delete(ctx context.Context, id string) error

	// SlugExists reports whether any document already uses the slug.
	SlugExists(ctx context.Context, slug string) (bool, error)

	// IncrementViews bumps the view counter atomically in storage
	// (views = views + 1, never read-modify-write) and returns the new count.
	IncrementViews(ctx context.Context, id string) (int64, error)

	// ListChildren lists the direct children of a document, or all top-level
	// documents when parentID is nil, narrowed to what the viewer may see.
	// Ordered by sort_order then title.
	ListChildren(ctx context.Context, parentID *string, viewer models.Viewer) ([]models.Document, error)

	// Search runs the filter/rank pipeline and returns an ordered,
	// deduplicated page of documents.
	Search(ctx context.Context, opts *models.SearchOptions) (*models.SearchResults, error)
}
