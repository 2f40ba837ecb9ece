package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"dochive/internal/config"
	"dochive/internal/domain"
	"dochive/internal/domain/models"
	"dochive/internal/domain/repositories"
	"dochive/internal/domain/services"
	"dochive/internal/storage"
)

// persistAttachment writes one uploaded file to storage and records its row.
// The row insert joins any transaction on the context; the binary write does
// not, so callers that fail later must clean up via the returned FileKey.
func persistAttachment(ctx context.Context, store storage.Store, repo repositories.AttachmentRepository, documentID string, file services.UploadedFile, displayName string) (*models.Attachment, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = path.Base(file.FileName)
	}
	if name == "" || name == "." || name == "/" {
		return nil, fmt.Errorf("%w: attachment has no usable name", domain.ErrValidation)
	}
	if len(name) > config.MaxAttachmentNameLength {
		name = name[:config.MaxAttachmentNameLength]
	}

	key, err := attachmentKey(ctx, store, documentID, path.Base(file.FileName))
	if err != nil {
		return nil, err
	}

	reader, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	// One byte past the limit is enough to detect oversize without
	// spooling an unbounded payload to disk.
	size, err := store.Save(ctx, key, io.LimitReader(reader, config.MaxAttachmentSize+1))
	reader.Close()
	if err != nil {
		return nil, fmt.Errorf("store attachment: %w", err)
	}
	if size > config.MaxAttachmentSize {
		_ = store.Delete(ctx, key)
		return nil, fmt.Errorf("%w: attachment exceeds the %d byte limit", domain.ErrValidation, config.MaxAttachmentSize)
	}

	contentType, err := resolveContentType(file)
	if err != nil {
		_ = store.Delete(ctx, key)
		return nil, err
	}

	attachment := &models.Attachment{
		DocumentID:  documentID,
		FileKey:     key,
		Name:        name,
		FileSize:    size,
		ContentType: contentType,
	}
	if err := repo.Create(ctx, attachment); err != nil {
		_ = store.Delete(ctx, key)
		return nil, err
	}

	return attachment, nil
}

// attachmentKey builds the storage key for an upload. Keys are scoped under
// the document ID; a name collision within a document gets a random prefix
// instead of overwriting the existing binary.
func attachmentKey(ctx context.Context, store storage.Store, documentID, fileName string) (string, error) {
	base := path.Base(fileName)
	if base == "" || base == "." || base == "/" {
		base = "upload"
	}

	key := documentID + "/" + base
	taken, err := store.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("check storage key: %w", err)
	}
	if !taken {
		return key, nil
	}
	return documentID + "/" + uuid.NewString()[:8] + "-" + base, nil
}

// resolveContentType picks the attachment content type: the client's
// declared type when present, otherwise by extension, otherwise by sniffing
// the payload. Unresolvable payloads land on application/octet-stream.
func resolveContentType(file services.UploadedFile) (string, error) {
	if ct := strings.TrimSpace(file.ContentType); ct != "" && ct != "application/octet-stream" {
		return ct, nil
	}

	if ext := path.Ext(file.FileName); ext != "" {
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct, nil
		}
	}

	reader, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer reader.Close()

	detected, err := mimetype.DetectReader(reader)
	if err != nil {
		return "application/octet-stream", nil
	}
	return detected.String(), nil
}
