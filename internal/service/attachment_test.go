package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"dochive/internal/domain"
	"dochive/internal/domain/models"
	"dochive/internal/domain/services"
	"dochive/internal/sanitize"
)

type attachmentFixture struct {
	docs  *fakeDocumentRepo
	atts  *fakeAttachmentRepo
	store *fakeStore
	svc   services.AttachmentService
	doc   *models.Document
}

func newAttachmentFixture(t *testing.T) *attachmentFixture {
	t.Helper()
	f := &attachmentFixture{
		docs:  newFakeDocumentRepo(),
		atts:  newFakeAttachmentRepo(),
		store: newFakeStore(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewAttachmentService(f.atts, f.docs, f.store, logger)

	// Seed one owned document to attach to.
	docSvc := NewDocumentService(f.docs, newFakeCategoryRepo(), newFakeTagRepo(), f.atts, fakeTxManager{}, f.store, sanitize.NewHTML(), logger)
	doc, err := docSvc.Create(context.Background(), &services.CreateDocumentRequest{Title: "Host Doc", Viewer: author})
	if err != nil {
		t.Fatalf("seed document: %v", err)
	}
	f.doc = doc
	return f
}

func TestAttachmentService_Create(t *testing.T) {
	f := newAttachmentFixture(t)

	att, err := f.svc.Create(context.Background(), &services.CreateAttachmentRequest{
		DocumentSlug: f.doc.Slug,
		File:         textUpload("notes.txt", "hello world"),
		Viewer:       author,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if att.Name != "notes.txt" {
		t.Errorf("Name = %q, want the file's base name", att.Name)
	}
	if att.FileSize != int64(len("hello world")) {
		t.Errorf("FileSize = %d, want %d", att.FileSize, len("hello world"))
	}
	if att.ContentType != "text/plain" {
		t.Errorf("ContentType = %q, want text/plain", att.ContentType)
	}
	if ok, _ := f.store.Exists(context.Background(), att.FileKey); !ok {
		t.Error("binary missing from storage")
	}
}

func TestAttachmentService_CreateHonorsDisplayName(t *testing.T) {
	f := newAttachmentFixture(t)

	att, err := f.svc.Create(context.Background(), &services.CreateAttachmentRequest{
		DocumentSlug: f.doc.Slug,
		File:         textUpload("raw-export-final-v3.txt", "x"),
		Name:         "Quarterly Report",
		Viewer:       author,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if att.Name != "Quarterly Report" {
		t.Errorf("Name = %q, want the display name", att.Name)
	}
}

func TestAttachmentService_CreateKeyCollisionGetsFreshKey(t *testing.T) {
	f := newAttachmentFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, &services.CreateAttachmentRequest{
		DocumentSlug: f.doc.Slug,
		File:         textUpload("notes.txt", "first"),
		Viewer:       author,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := f.svc.Create(ctx, &services.CreateAttachmentRequest{
		DocumentSlug: f.doc.Slug,
		File:         textUpload("notes.txt", "second"),
		Viewer:       author,
	})
	if err != nil {
		t.Fatalf("Create() second error = %v", err)
	}

	if first.FileKey == second.FileKey {
		t.Errorf("same storage key for both uploads: %q", first.FileKey)
	}

	// The first upload's payload must survive the second.
	r, err := f.store.Open(ctx, first.FileKey)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()
	payload, _ := io.ReadAll(r)
	if string(payload) != "first" {
		t.Errorf("first payload = %q, want untouched", payload)
	}
}

func TestAttachmentService_CreateAuthorization(t *testing.T) {
	f := newAttachmentFixture(t)

	tests := []struct {
		name    string
		viewer  models.Viewer
		wantErr error
	}{
		{name: "anonymous is unauthorized", viewer: models.Anonymous(), wantErr: domain.ErrUnauthorized},
		// The host document is public, so a stranger sees it exists but may
		// not attach to it.
		{name: "non-owner is forbidden", viewer: models.Viewer{Authenticated: true, UserID: "user-2"}, wantErr: domain.ErrForbidden},
		{name: "staff may attach", viewer: models.Viewer{Authenticated: true, UserID: "admin", Staff: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), &services.CreateAttachmentRequest{
				DocumentSlug: f.doc.Slug,
				File:         textUpload("x.txt", "x"),
				Viewer:       tt.viewer,
			})
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Create() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAttachmentService_OpenStreamsPayload(t *testing.T) {
	f := newAttachmentFixture(t)
	ctx := context.Background()

	created, _ := f.svc.Create(ctx, &services.CreateAttachmentRequest{
		DocumentSlug: f.doc.Slug,
		File:         textUpload("notes.txt", "payload"),
		Viewer:       author,
	})

	att, reader, err := f.svc.Open(ctx, created.ID, models.Anonymous())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer reader.Close()

	if att.ID != created.ID {
		t.Errorf("ID = %q, want %q", att.ID, created.ID)
	}
	payload, _ := io.ReadAll(reader)
	if string(payload) != "payload" {
		t.Errorf("payload = %q, want %q", payload, "payload")
	}
}

func TestAttachmentService_OpenOnPrivateDocumentIsNotFound(t *testing.T) {
	f := newAttachmentFixture(t)
	ctx := context.Background()

	// Make the host document private after attaching.
	created, _ := f.svc.Create(ctx, &services.CreateAttachmentRequest{
		DocumentSlug: f.doc.Slug,
		File:         textUpload("secret.txt", "s"),
		Viewer:       author,
	})
	doc, _ := f.docs.GetBySlug(ctx, f.doc.Slug)
	doc.IsPublic = false
	if err := f.docs.Update(ctx, doc); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if _, _, err := f.svc.Open(ctx, created.ID, models.Anonymous()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if _, _, err := f.svc.Open(ctx, created.ID, author); err != nil {
		t.Errorf("owner should still open it, got %v", err)
	}
}

func TestAttachmentService_DeleteRemovesRowThenBinary(t *testing.T) {
	f := newAttachmentFixture(t)
	ctx := context.Background()

	created, _ := f.svc.Create(ctx, &services.CreateAttachmentRequest{
		DocumentSlug: f.doc.Slug,
		File:         textUpload("gone.txt", "x"),
		Viewer:       author,
	})

	if err := f.svc.Delete(ctx, created.ID, author); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := f.atts.GetByID(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Error("row survived delete")
	}
	if ok, _ := f.store.Exists(ctx, created.FileKey); ok {
		t.Error("binary survived delete")
	}
}

func TestAttachmentService_DeleteByNonOwnerReadsAsMissing(t *testing.T) {
	f := newAttachmentFixture(t)
	ctx := context.Background()

	created, _ := f.svc.Create(ctx, &services.CreateAttachmentRequest{
		DocumentSlug: f.doc.Slug,
		File:         textUpload("keep.txt", "x"),
		Viewer:       author,
	})

	err := f.svc.Delete(ctx, created.ID, models.Viewer{Authenticated: true, UserID: "user-2"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
