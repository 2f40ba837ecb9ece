package services

import (
	"context"
	"io"

	"dochive/internal/domain/models"
)

// CreateAttachmentRequest uploads one file onto an existing document. Only
// the document's author (or staff) may attach files.
type CreateAttachmentRequest struct {
	DocumentSlug string
	File         UploadedFile
	Name         string // display name; defaults to the file's base name

	Viewer models.Viewer
}

// AttachmentService is the business logic around attachments.
type AttachmentService interface {
	Create(ctx context.Context, req *CreateAttachmentRequest) (*models.Attachment, error)

	// ListForDocument lists attachments of a document visible to the viewer.
	ListForDocument(ctx context.Context, documentSlug string, viewer models.Viewer) ([]models.Attachment, error)

	// Open returns the attachment metadata and a reader over its binary.
	Open(ctx context.Context, id string, viewer models.Viewer) (*models.Attachment, io.ReadCloser, error)

	// Delete removes the row first, then the stored binary.
	Delete(ctx context.Context, id string, viewer models.Viewer) error
}
