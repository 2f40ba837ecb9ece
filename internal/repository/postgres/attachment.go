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

// PostgresAttachmentRepository implements the AttachmentRepository interface
type PostgresAttachmentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewAttachmentRepository creates a new attachment repository
func NewAttachmentRepository(config *RepositoryConfig) repositories.AttachmentRepository {
	return &PostgresAttachmentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const attachmentColumns = `id, document_id, file_key, name, file_size, content_type, uploaded_at`

// Create inserts a new attachment record
func (r *PostgresAttachmentRepository) Create(ctx context.Context, attachment *models.Attachment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, file_key, name, file_size, content_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, uploaded_at
	`, r.tables.Attachments)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		attachment.DocumentID,
		attachment.FileKey,
		attachment.Name,
		attachment.FileSize,
		attachment.ContentType,
	).Scan(&attachment.ID, &attachment.UploadedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("document %s: %w", attachment.DocumentID, domain.ErrNotFound)
		}
		return fmt.Errorf("create attachment: %w", err)
	}

	return nil
}

// GetByID retrieves an attachment by ID
func (r *PostgresAttachmentRepository) GetByID(ctx context.Context, id string) (*models.Attachment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, attachmentColumns, r.tables.Attachments)

	var attachment models.Attachment
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&attachment.ID,
		&attachment.DocumentID,
		&attachment.FileKey,
		&attachment.Name,
		&attachment.FileSize,
		&attachment.ContentType,
		&attachment.UploadedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("attachment %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get attachment: %w", err)
	}

	return &attachment, nil
}

// ListForDocument returns a document's attachments, newest upload first
func (r *PostgresAttachmentRepository) ListForDocument(ctx context.Context, documentID string) ([]models.Attachment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE document_id = $1
		ORDER BY uploaded_at DESC
	`, attachmentColumns, r.tables.Attachments)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	attachments := []models.Attachment{}
	for rows.Next() {
		var attachment models.Attachment
		err := rows.Scan(
			&attachment.ID,
			&attachment.DocumentID,
			&attachment.FileKey,
			&attachment.Name,
			&attachment.FileSize,
			&attachment.ContentType,
			&attachment.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		attachments = append(attachments, attachment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments: %w", err)
	}

	return attachments, nil
}

// ListForDocuments batch-loads attachments for a set of documents
func (r *PostgresAttachmentRepository) ListForDocuments(ctx context.Context, documentIDs []string) (map[string][]models.Attachment, error) {
	result := make(map[string][]models.Attachment, len(documentIDs))
	for _, id := range documentIDs {
		result[id] = []models.Attachment{}
	}
	if len(documentIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE document_id = ANY($1)
		ORDER BY uploaded_at DESC
	`, attachmentColumns, r.tables.Attachments)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("batch list attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var attachment models.Attachment
		err := rows.Scan(
			&attachment.ID,
			&attachment.DocumentID,
			&attachment.FileKey,
			&attachment.Name,
			&attachment.FileSize,
			&attachment.ContentType,
			&attachment.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		result[attachment.DocumentID] = append(result[attachment.DocumentID], attachment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments: %w", err)
	}

	return result, nil
}

// Delete removes an attachment record
func (r *PostgresAttachmentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Attachments)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("attachment %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
