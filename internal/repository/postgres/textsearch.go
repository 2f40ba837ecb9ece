package postgres

import (
	"fmt"

	"dochive/internal/config"
)

// TextSearch is the capability-gated free-text strategy. The full-text
// implementation uses the database's native text-search index and can rank
// by relevance; the substring implementation is the portable fallback and
// cannot, so relevance sorting degrades to recency upstream.
type TextSearch interface {
	// Match returns the predicate clause selecting documents that match the
	// query across title, content, and tag names.
	Match(query string) Clause

	// Rank returns the relevance score expression for the query, or ok=false
	// when the strategy cannot rank.
	Rank(query string) (Clause, bool)
}

// NewTextSearch selects the strategy for the configured backend. Unknown
// backends fall back to substring matching, the always-available baseline.
func NewTextSearch(backend, language string, tables *TableNames) TextSearch {
	if backend == config.SearchBackendFullText {
		return &fullTextSearch{language: language, tables: tables}
	}
	return &substringSearch{tables: tables}
}

// fullTextSearch matches with websearch_to_tsquery (Google-like syntax:
// quoted phrases, OR, -exclusion) and ranks with ts_rank. Title matches
// weigh 2x over content matches; tag names participate in matching only.
type fullTextSearch struct {
	language string
	tables   *TableNames
}

func (s *fullTextSearch) tagText() string {
	return fmt.Sprintf(
		`(SELECT coalesce(string_agg(t.name, ' '), '') FROM %s dt JOIN %s t ON t.id = dt.tag_id WHERE dt.document_id = d.id)`,
		s.tables.DocumentTags, s.tables.Tags)
}

func (s *fullTextSearch) Match(query string) Clause {
	expr := fmt.Sprintf(`to_tsvector(?, d.title) @@ websearch_to_tsquery(?, ?)
		OR to_tsvector(?, d.content) @@ websearch_to_tsquery(?, ?)
		OR to_tsvector(?, %s) @@ websearch_to_tsquery(?, ?)`, s.tagText())
	return Clause{
		Expr: expr,
		Args: []interface{}{
			s.language, s.language, query,
			s.language, s.language, query,
			s.language, s.language, query,
		},
	}
}

func (s *fullTextSearch) Rank(query string) (Clause, bool) {
	expr := `ts_rank(to_tsvector(?, d.title), websearch_to_tsquery(?, ?)) * 2.0
		+ ts_rank(to_tsvector(?, d.content), websearch_to_tsquery(?, ?))`
	return Clause{
		Expr: expr,
		Args: []interface{}{
			s.language, s.language, query,
			s.language, s.language, query,
		},
	}, true
}

// substringSearch is the fallback for storage without a usable text-search
// index: case-insensitive substring match OR-combined across title,
// content, and tag names.
type substringSearch struct {
	tables *TableNames
}

func (s *substringSearch) Match(query string) Clause {
	pattern := "%" + escapeLike(query) + "%"
	expr := fmt.Sprintf(`d.title ILIKE ? OR d.content ILIKE ?
		OR EXISTS (SELECT 1 FROM %s dt JOIN %s t ON t.id = dt.tag_id WHERE dt.document_id = d.id AND t.name ILIKE ?)`,
		s.tables.DocumentTags, s.tables.Tags)
	return Clause{
		Expr: expr,
		Args: []interface{}{pattern, pattern, pattern},
	}
}

func (s *substringSearch) Rank(query string) (Clause, bool) {
	return Clause{}, false
}

// escapeLike escapes LIKE wildcards in user input so they match literally.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
