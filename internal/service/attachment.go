package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"dochive/internal/access"
	"dochive/internal/config"
	"dochive/internal/domain"
	"dochive/internal/domain/models"
	"dochive/internal/domain/repositories"
	"dochive/internal/domain/services"
	"dochive/internal/storage"
)

type attachmentService struct {
	attachmentRepo repositories.AttachmentRepository
	documentRepo   repositories.DocumentRepository
	store          storage.Store
	logger         *slog.Logger
}

// NewAttachmentService creates a new attachment service
func NewAttachmentService(
	attachmentRepo repositories.AttachmentRepository,
	documentRepo repositories.DocumentRepository,
	store storage.Store,
	logger *slog.Logger,
) services.AttachmentService {
	return &attachmentService{
		attachmentRepo: attachmentRepo,
		documentRepo:   documentRepo,
		store:          store,
		logger:         logger,
	}
}

func (s *attachmentService) Create(ctx context.Context, req *services.CreateAttachmentRequest) (*models.Attachment, error) {
	if !req.Viewer.Authenticated {
		return nil, fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}

	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Length(0, config.MaxAttachmentNameLength)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if req.File.Open == nil {
		return nil, fmt.Errorf("%w: no file provided", domain.ErrValidation)
	}

	doc, err := s.documentRepo.GetBySlug(ctx, req.DocumentSlug)
	if err != nil {
		return nil, err
	}
	if err := access.RequireAttachTo(req.Viewer, doc); err != nil {
		return nil, err
	}

	attachment, err := persistAttachment(ctx, s.store, s.attachmentRepo, doc.ID, req.File, req.Name)
	if err != nil {
		return nil, err
	}

	s.logger.Info("attachment created", "attachment_id", attachment.ID, "document_id", doc.ID, "name", attachment.Name)
	return attachment, nil
}

func (s *attachmentService) ListForDocument(ctx context.Context, documentSlug string, viewer models.Viewer) ([]models.Attachment, error) {
	doc, err := s.documentRepo.GetBySlug(ctx, documentSlug)
	if err != nil {
		return nil, err
	}
	if err := access.RequireVisible(viewer, doc); err != nil {
		return nil, err
	}

	return s.attachmentRepo.ListForDocument(ctx, doc.ID)
}

func (s *attachmentService) Open(ctx context.Context, id string, viewer models.Viewer) (*models.Attachment, io.ReadCloser, error) {
	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	doc, err := s.documentRepo.GetByID(ctx, attachment.DocumentID)
	if err != nil {
		return nil, nil, err
	}
	if err := access.RequireVisible(viewer, doc); err != nil {
		// Hide the attachment the same way its document is hidden.
		return nil, nil, fmt.Errorf("attachment %s: %w", id, domain.ErrNotFound)
	}

	reader, err := s.store.Open(ctx, attachment.FileKey)
	if err != nil {
		return nil, nil, fmt.Errorf("open attachment binary: %w", err)
	}
	return attachment, reader, nil
}

func (s *attachmentService) Delete(ctx context.Context, id string, viewer models.Viewer) error {
	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	doc, err := s.documentRepo.GetByID(ctx, attachment.DocumentID)
	if err != nil {
		return err
	}
	if err := access.RequireMutable(viewer, doc); err != nil {
		return fmt.Errorf("attachment %s: %w", id, domain.ErrNotFound)
	}

	if err := s.attachmentRepo.Delete(ctx, attachment.ID); err != nil {
		return err
	}

	// The row is authoritative; a failed binary delete leaks space only.
	if err := s.store.Delete(ctx, attachment.FileKey); err != nil {
		s.logger.Error("orphaned attachment binary", "key", attachment.FileKey, "error", err)
	}

	s.logger.Info("attachment deleted", "attachment_id", attachment.ID, "document_id", attachment.DocumentID)
	return nil
}
