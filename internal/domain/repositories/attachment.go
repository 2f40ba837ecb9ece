package repositories

import (
	"context"

	"dochive/internal/domain/models"
)

// AttachmentRepository defines data access operations for attachment rows.
// The binary payloads live in the storage layer, keyed by FileKey.
type AttachmentRepository interface {
	// Create inserts a new attachment row.
	Create(ctx context.Context, att *models.Attachment) error

	// GetByID retrieves an attachment by ID.
	GetByID(ctx context.Context, id string) (*models.Attachment, error)

	// ListForDocument lists a document's attachments, newest upload first.
	ListForDocument(ctx context.Context, documentID string) ([]models.Attachment, error)

	// ListForDocuments batch-loads attachments for a set of documents. The
	// result map has an entry for every requested ID.
	ListForDocuments(ctx context.Context, documentIDs []string) (map[string][]models.Attachment, error)

	// Delete removes an attachment row. The caller deletes the stored binary
	// only after this succeeds.
	Delete(ctx context.Context, id string) error
}
