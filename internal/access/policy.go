// Package access implements the visibility and mutation policy for
// documents and attachments. List queries apply the same rules as a SQL
// predicate via the repository layer; this package is the single-object
// side, used by services after loading a row.
package access

import (
	"fmt"

	"dochive/internal/domain"
	"dochive/internal/domain/models"
)

// RequireVisible returns ErrNotFound when the viewer may not see the
// document. Invisible documents are indistinguishable from missing ones so
// their existence never leaks.
func RequireVisible(viewer models.Viewer, doc *models.Document) error {
	if viewer.CanSee(doc) {
		return nil
	}
	return fmt.Errorf("document %s: %w", doc.Slug, domain.ErrNotFound)
}

// RequireMutable authorizes update/delete of a document. Only the author
// (or staff, the administrative path) may mutate; everything else reports
// not-found - even for public documents - so ownership probing is
// indistinguishable from a missing slug.
func RequireMutable(viewer models.Viewer, doc *models.Document) error {
	if viewer.Staff || viewer.Owns(doc) {
		return nil
	}
	return fmt.Errorf("document %s: %w", doc.Slug, domain.ErrNotFound)
}

// RequireAttachTo authorizes creating an attachment on a document. Unlike
// document mutation this distinguishes two failure modes: an invisible
// document is not-found, while a visible document owned by someone else is
// a permission violation.
func RequireAttachTo(viewer models.Viewer, doc *models.Document) error {
	if err := RequireVisible(viewer, doc); err != nil {
		return err
	}
	if viewer.Staff || viewer.Owns(doc) {
		return nil
	}
	return fmt.Errorf("attachments can only be added to your own documents: %w", domain.ErrForbidden)
}
