package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"dochive/internal/domain"
	"dochive/internal/domain/models"
	"dochive/internal/domain/repositories"
)

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	search TextSearch
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		search: config.Search,
		logger: config.Logger,
	}
}

const documentColumns = `id, title, slug, content, category_id, author_id, is_public, views, parent_id, sort_order, is_index, created_at, updated_at`

// summary columns leave content out; list queries never need the body.
const documentSummaryColumns = `d.id, d.title, d.slug, d.category_id, d.author_id, d.is_public, d.views, d.parent_id, d.sort_order, d.is_index, d.created_at, d.updated_at`

func scanDocument(row interface{ Scan(...interface{}) error }, doc *models.Document) error {
	return row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Slug,
		&doc.Content,
		&doc.CategoryID,
		&doc.AuthorID,
		&doc.IsPublic,
		&doc.Views,
		&doc.ParentID,
		&doc.Order,
		&doc.IsIndex,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
}

// Create inserts a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (title, slug, content, category_id, author_id, is_public, parent_id, sort_order, is_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, views, created_at, updated_at
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.Title,
		doc.Slug,
		doc.Content,
		doc.CategoryID,
		doc.AuthorID,
		doc.IsPublic,
		doc.ParentID,
		doc.Order,
		doc.IsIndex,
	).Scan(&doc.ID, &doc.Views, &doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			existingID, queryErr := r.getIDBySlug(ctx, doc.Slug)
			if queryErr != nil {
				return fmt.Errorf("document slug '%s' already in use: %w", doc.Slug, domain.ErrConflict)
			}
			return &domain.ConflictError{
				Message:      fmt.Sprintf("document slug '%s' already in use", doc.Slug),
				ResourceType: "document",
				ResourceID:   existingID,
			}
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("%w: referenced category or parent does not exist", domain.ErrValidation)
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, documentColumns, r.tables.Documents)

	var doc models.Document
	executor := GetExecutor(ctx, r.pool)
	if err := scanDocument(executor.QueryRow(ctx, query, id), &doc); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &doc, nil
}

// GetBySlug retrieves a document by slug
func (r *PostgresDocumentRepository) GetBySlug(ctx context.Context, slug string) (*models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE slug = $1`, documentColumns, r.tables.Documents)

	var doc models.Document
	executor := GetExecutor(ctx, r.pool)
	if err := scanDocument(executor.QueryRow(ctx, query, slug), &doc); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", slug, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &doc, nil
}

// Update updates an existing document's mutable fields. The slug and author
// are immutable and never rewritten.
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, content = $2, category_id = $3, is_public = $4, parent_id = $5, sort_order = $6, is_index = $7, updated_at = NOW()
		WHERE id = $8
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		doc.Title,
		doc.Content,
		doc.CategoryID,
		doc.IsPublic,
		doc.ParentID,
		doc.Order,
		doc.IsIndex,
		doc.ID,
	)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("%w: referenced category or parent does not exist", domain.ErrValidation)
		}
		return fmt.Errorf("update document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a document. Attachment and tag join rows cascade via
// foreign keys.
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SlugExists reports whether any document already uses the slug
func (r *PostgresDocumentRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE slug = $1)`, r.tables.Documents)

	var exists bool
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// IncrementViews bumps the view counter atomically in storage. The
// increment happens in SQL, never as read-modify-write in Go, so concurrent
// detail requests cannot lose updates.
func (r *PostgresDocumentRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET views = views + 1 WHERE id = $1 RETURNING views`, r.tables.Documents)

	var views int64
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, id).Scan(&views); err != nil {
		if IsPgNoRowsError(err) {
			return 0, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return 0, fmt.Errorf("increment views: %w", err)
	}
	return views, nil
}

// ListChildren lists the direct children of a document (or all top-level
// documents when parentID is nil), narrowed to the viewer's visible set and
// ordered by sort order then title.
func (r *PostgresDocumentRepository) ListChildren(ctx context.Context, parentID *string, viewer models.Viewer) ([]models.Document, error) {
	var b WhereBuilder
	if parentID == nil {
		b.Add("d.parent_id IS NULL")
	} else {
		b.Add("d.parent_id = ?", *parentID)
	}
	if c, ok := VisibilityClause(viewer); ok {
		b.AddClause(c)
	}

	where, args := b.Where()
	query := Rebind(fmt.Sprintf(`
		SELECT %s
		FROM %s d
		WHERE %s
		ORDER BY d.sort_order ASC, d.title ASC
	`, documentSummaryColumns, r.tables.Documents, where))

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	documents := []models.Document{}
	for rows.Next() {
		var doc models.Document
		if err := scanSummary(rows, &doc); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		documents = append(documents, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return documents, nil
}

func scanSummary(row interface{ Scan(...interface{}) error }, doc *models.Document) error {
	return row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Slug,
		&doc.CategoryID,
		&doc.AuthorID,
		&doc.IsPublic,
		&doc.Views,
		&doc.ParentID,
		&doc.Order,
		&doc.IsIndex,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
}

// getIDBySlug resolves the document holding a slug, for conflict reporting.
func (r *PostgresDocumentRepository) getIDBySlug(ctx context.Context, slug string) (string, error) {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE slug = $1`, r.tables.Documents)

	var id string
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, slug).Scan(&id); err != nil {
		return "", fmt.Errorf("get document by slug: %w", err)
	}
	return id, nil
}
