package postgres

import (
	"context"
	"fmt"

	"dochive/internal/domain/models"
)

// Search runs the filter/rank pipeline over documents: visibility narrowing,
// optional text match, category, per-tag AND filters, author, then sort and
// page. Results carry summary fields only.
func (r *PostgresDocumentRepository) Search(ctx context.Context, opts *models.SearchOptions) (*models.SearchResults, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var b WhereBuilder
	if c, ok := VisibilityClause(opts.Viewer); ok {
		b.AddClause(c)
	}
	if opts.Query != "" {
		b.AddClause(r.search.Match(opts.Query))
	}
	if opts.CategoryID != "" {
		b.Add("d.category_id = ?", opts.CategoryID)
	}
	for _, tag := range opts.Tags {
		// One EXISTS per tag so multiple tags narrow conjunctively.
		b.Add(fmt.Sprintf(`EXISTS (
			SELECT 1 FROM %s dt
			JOIN %s t ON t.id = dt.tag_id
			WHERE dt.document_id = d.id AND lower(t.name) = lower(?)
		)`, r.tables.DocumentTags, r.tables.Tags), tag)
	}
	if opts.AuthorID != "" {
		b.Add("d.author_id = ?", opts.AuthorID)
	}

	var rankClause Clause
	rankSupported := false
	if opts.Sort == models.SortRelevance {
		rankClause, rankSupported = r.search.Rank(opts.Query)
		if !rankSupported {
			opts.Sort = models.SortRecent
		}
	}

	where, whereArgs := b.Where()

	selectCols := documentSummaryColumns
	args := []interface{}{}
	if rankSupported {
		selectCols = rankClause.Expr + " AS rank_score, " + documentSummaryColumns
		args = append(args, rankClause.Args...)
	}
	args = append(args, whereArgs...)

	query := Rebind(fmt.Sprintf(`
		SELECT DISTINCT %s
		FROM %s d
		WHERE %s
		ORDER BY %s
		LIMIT %d OFFSET %d
	`, selectCols, r.tables.Documents, where, orderBy(opts.Sort), opts.Limit, opts.Offset))

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	documents := []models.Document{}
	for rows.Next() {
		var doc models.Document
		var scanErr error
		if rankSupported {
			var rank float64
			scanErr = rows.Scan(
				&rank,
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
		} else {
			scanErr = scanSummary(rows, &doc)
		}
		if scanErr != nil {
			return nil, fmt.Errorf("scan document: %w", scanErr)
		}
		documents = append(documents, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	total, err := r.countMatches(ctx, where, whereArgs)
	if err != nil {
		return nil, err
	}

	return models.NewSearchResults(documents, total, opts), nil
}

func (r *PostgresDocumentRepository) countMatches(ctx context.Context, where string, args []interface{}) (int, error) {
	query := Rebind(fmt.Sprintf(`SELECT COUNT(DISTINCT d.id) FROM %s d WHERE %s`, r.tables.Documents, where))

	var total int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return total, nil
}

// orderBy maps a sort mode to its ORDER BY expression. Every mode breaks
// ties on newest first so paging stays stable.
func orderBy(sort models.SortMode) string {
	switch sort {
	case models.SortViews:
		return "d.views DESC, d.created_at DESC"
	case models.SortTitle:
		return "d.title ASC, d.created_at DESC"
	case models.SortRelevance:
		return "rank_score DESC, d.created_at DESC"
	default:
		return "d.created_at DESC"
	}
}
