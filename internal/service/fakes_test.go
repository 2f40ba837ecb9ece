package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"dochive/internal/domain"
	"dochive/internal/domain/models"
	"dochive/internal/domain/repositories"
)

// ============================================================================
// In-memory fakes for the repository and storage interfaces
// ============================================================================

type fakeDocumentRepo struct {
	mu    sync.Mutex
	seq   int
	docs  map[string]*models.Document // by ID
	fail  error                       // when set, every call fails with this
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: map[string]*models.Document{}}
}

func (r *fakeDocumentRepo) Create(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	for _, d := range r.docs {
		if d.Slug == doc.Slug {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("document slug '%s' already in use", doc.Slug),
				ResourceType: "document",
				ResourceID:   d.ID,
			}
		}
	}
	r.seq++
	doc.ID = fmt.Sprintf("doc-%d", r.seq)
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocumentRepo) GetByID(ctx context.Context, id string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocumentRepo) GetBySlug(ctx context.Context, slug string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, doc := range r.docs {
		if doc.Slug == slug {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("document %s: %w", slug, domain.ErrNotFound)
}

func (r *fakeDocumentRepo) Update(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	if _, ok := r.docs[doc.ID]; !ok {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}
	copied := *doc
	copied.UpdatedAt = time.Now()
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocumentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	delete(r.docs, id)
	return nil
}

func (r *fakeDocumentRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, doc := range r.docs {
		if doc.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDocumentRepo) IncrementViews(ctx context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return 0, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	doc.Views++
	return doc.Views, nil
}

func (r *fakeDocumentRepo) ListChildren(ctx context.Context, parentID *string, viewer models.Viewer) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Document{}
	for _, doc := range r.docs {
		sameParent := (parentID == nil && doc.ParentID == nil) ||
			(parentID != nil && doc.ParentID != nil && *parentID == *doc.ParentID)
		if sameParent && viewer.CanSee(doc) {
			out = append(out, *doc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (r *fakeDocumentRepo) Search(ctx context.Context, opts *models.SearchOptions) (*models.SearchResults, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Document{}
	for _, doc := range r.docs {
		if !opts.Viewer.CanSee(doc) {
			continue
		}
		if opts.CategoryID != "" && (doc.CategoryID == nil || *doc.CategoryID != opts.CategoryID) {
			continue
		}
		if opts.Query != "" && !strings.Contains(strings.ToLower(doc.Title), strings.ToLower(opts.Query)) {
			continue
		}
		out = append(out, *doc)
	}
	return models.NewSearchResults(out, len(out), opts), nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	seq        int
	categories map[string]*models.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[string]*models.Category{}}
}

func (r *fakeCategoryRepo) Create(ctx context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.Slug == c.Slug {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("category slug '%s' already in use", c.Slug),
				ResourceType: "category",
				ResourceID:   existing.ID,
			}
		}
	}
	r.seq++
	c.ID = fmt.Sprintf("cat-%d", r.seq)
	copied := *c
	r.categories[c.ID] = &copied
	return nil
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCategoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Slug == slug {
			copied := *c
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("category %s: %w", slug, domain.ErrNotFound)
}

func (r *fakeCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Category{}
	for _, c := range r.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCategoryRepo) Update(ctx context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[c.ID]; !ok {
		return fmt.Errorf("category %s: %w", c.ID, domain.ErrNotFound)
	}
	copied := *c
	r.categories[c.ID] = &copied
	return nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

type fakeTagRepo struct {
	mu   sync.Mutex
	tags map[string][]string // documentID -> tag names
	fail error
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{tags: map[string][]string{}}
}

func (r *fakeTagRepo) SetDocumentTags(ctx context.Context, documentID string, tags []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.tags[documentID] = append([]string{}, tags...)
	return nil
}

func (r *fakeTagRepo) ListForDocument(ctx context.Context, documentID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]string{}, r.tags[documentID]...)
	sort.Strings(out)
	return out, nil
}

func (r *fakeTagRepo) ListForDocuments(ctx context.Context, documentIDs []string) (map[string][]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string][]string{}
	for _, id := range documentIDs {
		out[id] = append([]string{}, r.tags[id]...)
	}
	return out, nil
}

func (r *fakeTagRepo) List(ctx context.Context) ([]models.Tag, error) {
	return nil, nil
}

type fakeAttachmentRepo struct {
	mu          sync.Mutex
	seq         int
	attachments map[string]*models.Attachment
	fail        error
}

func newFakeAttachmentRepo() *fakeAttachmentRepo {
	return &fakeAttachmentRepo{attachments: map[string]*models.Attachment{}}
}

func (r *fakeAttachmentRepo) Create(ctx context.Context, att *models.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.seq++
	att.ID = fmt.Sprintf("att-%d", r.seq)
	att.UploadedAt = time.Now()
	copied := *att
	r.attachments[att.ID] = &copied
	return nil
}

func (r *fakeAttachmentRepo) GetByID(ctx context.Context, id string) (*models.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	att, ok := r.attachments[id]
	if !ok {
		return nil, fmt.Errorf("attachment %s: %w", id, domain.ErrNotFound)
	}
	copied := *att
	return &copied, nil
}

func (r *fakeAttachmentRepo) ListForDocument(ctx context.Context, documentID string) ([]models.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Attachment{}
	for _, att := range r.attachments {
		if att.DocumentID == documentID {
			out = append(out, *att)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeAttachmentRepo) ListForDocuments(ctx context.Context, documentIDs []string) (map[string][]models.Attachment, error) {
	out := map[string][]models.Attachment{}
	for _, id := range documentIDs {
		atts, _ := r.ListForDocument(ctx, id)
		out[id] = atts
	}
	return out, nil
}

func (r *fakeAttachmentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.attachments[id]; !ok {
		return fmt.Errorf("attachment %s: %w", id, domain.ErrNotFound)
	}
	delete(r.attachments, id)
	return nil
}

// fakeTxManager runs the function directly; the fakes have no transactions
// to join.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// fakeStore keeps binaries in a map.
type fakeStore struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{blobs: map[string][]byte{}}
}

func (s *fakeStore) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	payload, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	s.blobs[key] = payload
	return int64(len(payload)), nil
}

func (s *fakeStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("no blob for key %q", key)
	}
	return io.NopCloser(bytes.NewReader(payload)), nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

func (s *fakeStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blobs[key]
	return ok, nil
}
