package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"dochive/internal/domain/models"
	"dochive/internal/domain/repositories"
)

// PostgresTagRepository implements the TagRepository interface
type PostgresTagRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewTagRepository creates a new tag repository
func NewTagRepository(config *RepositoryConfig) repositories.TagRepository {
	return &PostgresTagRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// SetDocumentTags replaces a document's tag set. Tags are upserted
// case-insensitively so "Go" and "go" resolve to one tag; the stored
// casing is whichever spelling arrived last. Tags left with no documents
// are not garbage collected here.
func (r *PostgresTagRepository) SetDocumentTags(ctx context.Context, documentID string, tags []string) error {
	executor := GetExecutor(ctx, r.pool)

	clearQuery := fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1`, r.tables.DocumentTags)
	if _, err := executor.Exec(ctx, clearQuery, documentID); err != nil {
		return fmt.Errorf("clear document tags: %w", err)
	}

	upsertQuery := fmt.Sprintf(`
		INSERT INTO %s (name)
		VALUES ($1)
		ON CONFLICT ((lower(name))) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, r.tables.Tags)
	linkQuery := fmt.Sprintf(`
		INSERT INTO %s (document_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, r.tables.DocumentTags)

	for _, tag := range tags {
		var tagID string
		if err := executor.QueryRow(ctx, upsertQuery, tag).Scan(&tagID); err != nil {
			return fmt.Errorf("upsert tag '%s': %w", tag, err)
		}
		if _, err := executor.Exec(ctx, linkQuery, documentID, tagID); err != nil {
			return fmt.Errorf("link tag '%s': %w", tag, err)
		}
	}

	return nil
}

// ListForDocument returns a document's tag names in alphabetical order
func (r *PostgresTagRepository) ListForDocument(ctx context.Context, documentID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT t.name
		FROM %s t
		JOIN %s dt ON dt.tag_id = t.id
		WHERE dt.document_id = $1
		ORDER BY lower(t.name) ASC
	`, r.tables.Tags, r.tables.DocumentTags)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}

	return tags, nil
}

// ListForDocuments batch-loads tag names for a set of documents in one
// query. The result map has an entry for every requested document, empty
// when it carries no tags.
func (r *PostgresTagRepository) ListForDocuments(ctx context.Context, documentIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(documentIDs))
	for _, id := range documentIDs {
		result[id] = []string{}
	}
	if len(documentIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`
		SELECT dt.document_id, t.name
		FROM %s t
		JOIN %s dt ON dt.tag_id = t.id
		WHERE dt.document_id = ANY($1)
		ORDER BY lower(t.name) ASC
	`, r.tables.Tags, r.tables.DocumentTags)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("batch list tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var documentID, name string
		if err := rows.Scan(&documentID, &name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		result[documentID] = append(result[documentID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}

	return result, nil
}

// List returns all tags with usage counts, most used first
func (r *PostgresTagRepository) List(ctx context.Context) ([]models.Tag, error) {
	query := fmt.Sprintf(`
		SELECT t.id, t.name, COUNT(dt.document_id) AS document_count
		FROM %s t
		LEFT JOIN %s dt ON dt.tag_id = t.id
		GROUP BY t.id
		ORDER BY document_count DESC, lower(t.name) ASC
	`, r.tables.Tags, r.tables.DocumentTags)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.DocumentCount); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}

	return tags, nil
}
