package services

import (
	"context"
	"io"

	"dochive/internal/domain/models"
)

// UploadedFile is one file submitted alongside a document or attachment
// request. Open returns a fresh reader over the payload.
type UploadedFile struct {
	FileName    string
	ContentType string // as declared by the client; may be empty or wrong
	Open        func() (io.ReadCloser, error)
}

// OptionalRef tracks tri-state semantics for nullable reference updates
// (RFC 7396 PATCH). Transport-agnostic - the handler maps from
// httputil.OptionalString.
//   - Present=false: field absent from request (don't change)
//   - Present=true, Value=nil: field is null (clear the reference)
//   - Present=true, Value=&id: set the reference
type OptionalRef struct {
	Present bool
	Value   *string
}

// CreateDocumentRequest carries the writable document fields. The author is
// always the authenticated caller, never client input.
type CreateDocumentRequest struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug,omitempty"` // derived from title when empty
	Content    string   `json:"content"`
	CategoryID *string  `json:"category_id"`
	IsPublic   *bool    `json:"is_public"` // defaults to true
	ParentID   *string  `json:"parent_id"`
	Order      int      `json:"order"`
	IsIndex    bool     `json:"is_index"`
	Tags       []string `json:"tags"`

	// Attachments are persisted atomically with the document row.
	Attachments []UploadedFile `json:"-"`

	Viewer models.Viewer `json:"-"`
}

// UpdateDocumentRequest carries partial updates. Nullable references use
// tri-state optionals so PATCH can distinguish "absent" from "clear".
type UpdateDocumentRequest struct {
	Title      *string     `json:"title"`
	Content    *string     `json:"content"`
	CategoryID OptionalRef `json:"-"`
	IsPublic   *bool       `json:"is_public"`
	ParentID   OptionalRef `json:"-"`
	Order      *int        `json:"order"`
	IsIndex    *bool       `json:"is_index"`
	Tags       *[]string   `json:"tags"`

	Viewer models.Viewer `json:"-"`
}

// DocumentService is the business logic around documents.
type DocumentService interface {
	// Create persists a new document (and its attachments, atomically) owned
	// by the requesting viewer.
	Create(ctx context.Context, req *CreateDocumentRequest) (*models.Document, error)

	// Get returns the full representation visible to the viewer and bumps
	// the view counter as a side effect.
	Get(ctx context.Context, slug string, viewer models.Viewer) (*models.Document, error)

	// Update applies a partial update. Documents outside the viewer's owned
	// set report not-found, never forbidden.
	Update(ctx context.Context, slug string, req *UpdateDocumentRequest) (*models.Document, error)

	// Delete removes a document, its attachment rows, and their binaries.
	Delete(ctx context.Context, slug string, viewer models.Viewer) error

	// Search runs the filter/sort pipeline over the viewer's visible set.
	// A category, when given, is referenced by slug.
	Search(ctx context.Context, opts *models.SearchOptions, categorySlug string) (*models.SearchResults, error)

	// Hierarchy returns the one-level parent/siblings/children view.
	Hierarchy(ctx context.Context, slug string, viewer models.Viewer) (*models.Hierarchy, error)

	// IncrementViews bumps the view counter and returns the new count.
	IncrementViews(ctx context.Context, slug string, viewer models.Viewer) (int64, error)
}
