package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"dochive/internal/access"
	"dochive/internal/config"
	"dochive/internal/domain"
	"dochive/internal/domain/models"
	"dochive/internal/domain/repositories"
	"dochive/internal/domain/services"
	"dochive/internal/sanitize"
	"dochive/internal/storage"
	"dochive/internal/utils"
)

// maxHierarchyDepth bounds the ancestor walk during cycle checks so a
// corrupted chain cannot loop forever.
const maxHierarchyDepth = 100

type documentService struct {
	documentRepo   repositories.DocumentRepository
	categoryRepo   repositories.CategoryRepository
	tagRepo        repositories.TagRepository
	attachmentRepo repositories.AttachmentRepository
	txManager      repositories.TransactionManager
	store          storage.Store
	sanitizer      *sanitize.HTML
	logger         *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	documentRepo repositories.DocumentRepository,
	categoryRepo repositories.CategoryRepository,
	tagRepo repositories.TagRepository,
	attachmentRepo repositories.AttachmentRepository,
	txManager repositories.TransactionManager,
	store storage.Store,
	sanitizer *sanitize.HTML,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		documentRepo:   documentRepo,
		categoryRepo:   categoryRepo,
		tagRepo:        tagRepo,
		attachmentRepo: attachmentRepo,
		txManager:      txManager,
		store:          store,
		sanitizer:      sanitizer,
		logger:         logger,
	}
}

func validateTags(tags []string) error {
	if len(tags) > config.MaxTagsPerDocument {
		return fmt.Errorf("%w: at most %d tags per document", domain.ErrValidation, config.MaxTagsPerDocument)
	}
	for _, tag := range tags {
		if tag == "" {
			return fmt.Errorf("%w: tags must not be empty", domain.ErrValidation)
		}
		if len(tag) > config.MaxTagLength {
			return fmt.Errorf("%w: tag '%s' exceeds %d characters", domain.ErrValidation, tag, config.MaxTagLength)
		}
	}
	return nil
}

// normalizeTags drops duplicates case-insensitively, keeping first spelling
// and order of arrival.
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return out
}

func (s *documentService) Create(ctx context.Context, req *services.CreateDocumentRequest) (*models.Document, error) {
	if !req.Viewer.Authenticated {
		return nil, fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}

	err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxDocumentTitleLength)),
		validation.Field(&req.Slug, validation.Length(0, config.MaxSlugLength)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := validateTags(req.Tags); err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Title)
		if slug == "" {
			return nil, fmt.Errorf("%w: title yields an empty slug", domain.ErrValidation)
		}
		slug, err = uniqueSlug(ctx, slug, s.documentRepo.SlugExists)
		if err != nil {
			return nil, err
		}
	} else if slug != utils.Slugify(slug) {
		return nil, fmt.Errorf("%w: slug may only contain lowercase letters, digits, hyphens and underscores", domain.ErrValidation)
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
			return nil, fmt.Errorf("%w: category does not exist", domain.ErrValidation)
		}
	}
	if req.ParentID != nil {
		parent, err := s.documentRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("%w: parent document does not exist", domain.ErrValidation)
		}
		if !req.Viewer.CanSee(parent) {
			return nil, fmt.Errorf("%w: parent document does not exist", domain.ErrValidation)
		}
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	doc := &models.Document{
		Title:      req.Title,
		Slug:       slug,
		Content:    s.sanitizer.Clean(req.Content),
		CategoryID: req.CategoryID,
		AuthorID:   req.Viewer.UserID,
		IsPublic:   isPublic,
		ParentID:   req.ParentID,
		Order:      req.Order,
		IsIndex:    req.IsIndex,
	}

	tags := normalizeTags(req.Tags)
	var savedKeys []string

	txErr := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.documentRepo.Create(txCtx, doc); err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := s.tagRepo.SetDocumentTags(txCtx, doc.ID, tags); err != nil {
				return err
			}
		}
		for _, file := range req.Attachments {
			attachment, err := persistAttachment(txCtx, s.store, s.attachmentRepo, doc.ID, file, "")
			if err != nil {
				return err
			}
			savedKeys = append(savedKeys, attachment.FileKey)
			doc.Attachments = append(doc.Attachments, *attachment)
		}
		return nil
	})
	if txErr != nil {
		// Binary writes do not participate in the transaction; undo them
		// by hand when the row inserts roll back.
		for _, key := range savedKeys {
			if err := s.store.Delete(ctx, key); err != nil {
				s.logger.Error("orphaned attachment binary", "key", key, "error", err)
			}
		}
		return nil, txErr
	}

	doc.Tags = tags
	if doc.Attachments == nil {
		doc.Attachments = []models.Attachment{}
	}
	if err := s.assembleCategory(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document created", "document_id", doc.ID, "slug", doc.Slug, "author_id", doc.AuthorID)
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, slug string, viewer models.Viewer) (*models.Document, error) {
	doc, err := s.documentRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := access.RequireVisible(viewer, doc); err != nil {
		return nil, err
	}

	views, err := s.documentRepo.IncrementViews(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	doc.Views = views

	if err := s.assemble(ctx, doc, viewer); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Update(ctx context.Context, slug string, req *services.UpdateDocumentRequest) (*models.Document, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, config.MaxDocumentTitleLength)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if req.Tags != nil {
		if err := validateTags(*req.Tags); err != nil {
			return nil, err
		}
	}

	doc, err := s.documentRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := access.RequireMutable(req.Viewer, doc); err != nil {
		return nil, err
	}

	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.Content != nil {
		doc.Content = s.sanitizer.Clean(*req.Content)
	}
	if req.IsPublic != nil {
		doc.IsPublic = *req.IsPublic
	}
	if req.Order != nil {
		doc.Order = *req.Order
	}
	if req.IsIndex != nil {
		doc.IsIndex = *req.IsIndex
	}
	if req.CategoryID.Present {
		if req.CategoryID.Value != nil {
			if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID.Value); err != nil {
				return nil, fmt.Errorf("%w: category does not exist", domain.ErrValidation)
			}
		}
		doc.CategoryID = req.CategoryID.Value
	}
	if req.ParentID.Present {
		if req.ParentID.Value != nil {
			if err := s.checkParent(ctx, doc, *req.ParentID.Value, req.Viewer); err != nil {
				return nil, err
			}
		}
		doc.ParentID = req.ParentID.Value
	}

	txErr := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.documentRepo.Update(txCtx, doc); err != nil {
			return err
		}
		if req.Tags != nil {
			return s.tagRepo.SetDocumentTags(txCtx, doc.ID, normalizeTags(*req.Tags))
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := s.assemble(ctx, doc, req.Viewer); err != nil {
		return nil, err
	}

	s.logger.Info("document updated", "document_id", doc.ID, "slug", doc.Slug)
	return doc, nil
}

// checkParent validates a reparent target: it must exist, be visible, not be
// the document itself, and not sit below it in the tree.
func (s *documentService) checkParent(ctx context.Context, doc *models.Document, parentID string, viewer models.Viewer) error {
	if parentID == doc.ID {
		return fmt.Errorf("%w: a document cannot be its own parent", domain.ErrValidation)
	}

	parent, err := s.documentRepo.GetByID(ctx, parentID)
	if err != nil {
		return fmt.Errorf("%w: parent document does not exist", domain.ErrValidation)
	}
	if !viewer.CanSee(parent) {
		return fmt.Errorf("%w: parent document does not exist", domain.ErrValidation)
	}

	// Walk the target's ancestor chain; finding the document there means
	// the reparent would close a cycle.
	current := parent
	for depth := 0; depth < maxHierarchyDepth; depth++ {
		if current.ParentID == nil {
			return nil
		}
		if *current.ParentID == doc.ID {
			return fmt.Errorf("%w: reparenting would create a cycle", domain.ErrValidation)
		}
		current, err = s.documentRepo.GetByID(ctx, *current.ParentID)
		if err != nil {
			return fmt.Errorf("walk ancestors: %w", err)
		}
	}
	return fmt.Errorf("%w: hierarchy too deep", domain.ErrValidation)
}

func (s *documentService) Delete(ctx context.Context, slug string, viewer models.Viewer) error {
	doc, err := s.documentRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := access.RequireMutable(viewer, doc); err != nil {
		return err
	}

	attachments, err := s.attachmentRepo.ListForDocument(ctx, doc.ID)
	if err != nil {
		return err
	}

	if err := s.documentRepo.Delete(ctx, doc.ID); err != nil {
		return err
	}

	// Rows are gone; orphaned binaries are only a space leak, so failures
	// here are logged, not surfaced.
	for _, attachment := range attachments {
		if err := s.store.Delete(ctx, attachment.FileKey); err != nil {
			s.logger.Error("orphaned attachment binary", "key", attachment.FileKey, "error", err)
		}
	}

	s.logger.Info("document deleted", "document_id", doc.ID, "slug", doc.Slug)
	return nil
}

func (s *documentService) Search(ctx context.Context, opts *models.SearchOptions, categorySlug string) (*models.SearchResults, error) {
	if categorySlug != "" {
		category, err := s.categoryRepo.GetBySlug(ctx, categorySlug)
		if err != nil {
			return nil, err
		}
		opts.CategoryID = category.ID
	}

	results, err := s.documentRepo.Search(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := s.assembleSummaries(ctx, results.Results); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *documentService) Hierarchy(ctx context.Context, slug string, viewer models.Viewer) (*models.Hierarchy, error) {
	doc, err := s.documentRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := access.RequireVisible(viewer, doc); err != nil {
		return nil, err
	}

	h := &models.Hierarchy{}

	if doc.ParentID != nil {
		parent, err := s.documentRepo.GetByID(ctx, *doc.ParentID)
		if err == nil && viewer.CanSee(parent) {
			h.Parent = parent
		}
	}

	siblings, err := s.documentRepo.ListChildren(ctx, doc.ParentID, viewer)
	if err != nil {
		return nil, err
	}
	h.Siblings = []models.Document{}
	for _, sibling := range siblings {
		if sibling.ID != doc.ID {
			h.Siblings = append(h.Siblings, sibling)
		}
	}

	h.Children, err = s.documentRepo.ListChildren(ctx, &doc.ID, viewer)
	if err != nil {
		return nil, err
	}

	if err := s.assembleSummaries(ctx, h.Siblings); err != nil {
		return nil, err
	}
	if err := s.assembleSummaries(ctx, h.Children); err != nil {
		return nil, err
	}

	return h, nil
}

func (s *documentService) IncrementViews(ctx context.Context, slug string, viewer models.Viewer) (int64, error) {
	doc, err := s.documentRepo.GetBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}
	if err := access.RequireVisible(viewer, doc); err != nil {
		return 0, err
	}
	return s.documentRepo.IncrementViews(ctx, doc.ID)
}

// assemble fills the relation fields for a detail response.
func (s *documentService) assemble(ctx context.Context, doc *models.Document, viewer models.Viewer) error {
	if err := s.assembleCategory(ctx, doc); err != nil {
		return err
	}

	tags, err := s.tagRepo.ListForDocument(ctx, doc.ID)
	if err != nil {
		return err
	}
	doc.Tags = tags

	attachments, err := s.attachmentRepo.ListForDocument(ctx, doc.ID)
	if err != nil {
		return err
	}
	doc.Attachments = attachments

	children, err := s.documentRepo.ListChildren(ctx, &doc.ID, viewer)
	if err != nil {
		return err
	}
	doc.Children = children

	return nil
}

func (s *documentService) assembleCategory(ctx context.Context, doc *models.Document) error {
	if doc.CategoryID == nil {
		return nil
	}
	category, err := s.categoryRepo.GetByID(ctx, *doc.CategoryID)
	if err != nil {
		// A category deleted between the document read and here is the
		// same as no category.
		return nil
	}
	doc.Category = category
	return nil
}

// assembleSummaries batch-loads tags and categories for list results.
func (s *documentService) assembleSummaries(ctx context.Context, docs []models.Document) error {
	if len(docs) == 0 {
		return nil
	}

	ids := make([]string, len(docs))
	for i := range docs {
		ids[i] = docs[i].ID
	}

	tagsByDoc, err := s.tagRepo.ListForDocuments(ctx, ids)
	if err != nil {
		return err
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return err
	}
	categoriesByID := make(map[string]*models.Category, len(categories))
	for i := range categories {
		categoriesByID[categories[i].ID] = &categories[i]
	}

	for i := range docs {
		docs[i].Tags = tagsByDoc[docs[i].ID]
		if docs[i].CategoryID != nil {
			docs[i].Category = categoriesByID[*docs[i].CategoryID]
		}
	}
	return nil
}
