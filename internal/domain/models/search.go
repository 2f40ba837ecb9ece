package models

import (
	"fmt"

	"dochive/internal/domain"
)

// SortMode selects the ordering of search results.
type SortMode string

const (
	// SortRecent orders by creation time, newest first. This is the default.
	SortRecent SortMode = "recent"

	// SortViews orders by view count descending, ties broken by newest first.
	SortViews SortMode = "views"

	// SortTitle orders alphabetically ascending, ties broken by newest first.
	SortTitle SortMode = "title"

	// SortRelevance orders by descending text-search rank. Only applied when
	// a query was given and the full-text backend is available; otherwise it
	// degrades to SortRecent.
	SortRelevance SortMode = "relevance"
)

// Default search configuration values
const (
	DefaultSearchLimit  = 20
	MaxSearchLimit      = 100
	DefaultSearchOffset = 0
)

// SearchOptions configures a document search. All filters are optional; an
// empty query returns the full visibility-filtered set.
type SearchOptions struct {
	// Query is the free-text query. Empty = no text filtering.
	Query string

	// CategoryID filters to documents in this exact category.
	CategoryID string

	// Tags filters to documents carrying ALL listed tags (case-insensitive).
	Tags []string

	// AuthorID filters to documents by this author.
	AuthorID string

	// Sort selects the ordering. Unrecognized values normalize to SortRecent.
	Sort SortMode

	// Viewer is the visibility context the result set is narrowed by.
	Viewer Viewer

	// Pagination, layered on top of the ordered result set.
	Limit  int
	Offset int
}

// ApplyDefaults fills in defaults and normalizes the sort mode. Unknown sort
// values silently fall back to SortRecent rather than erroring.
func (opts *SearchOptions) ApplyDefaults() {
	if opts.Limit <= 0 {
		opts.Limit = DefaultSearchLimit
	}
	if opts.Offset < 0 {
		opts.Offset = DefaultSearchOffset
	}
	switch opts.Sort {
	case SortRecent, SortViews, SortTitle, SortRelevance:
	default:
		opts.Sort = SortRecent
	}
	// Relevance needs a query to rank against.
	if opts.Sort == SortRelevance && opts.Query == "" {
		opts.Sort = SortRecent
	}
}

// Validate checks that option values are within bounds.
func (opts *SearchOptions) Validate() error {
	if opts.Limit < 0 {
		return fmt.Errorf("%w: limit cannot be negative", domain.ErrValidation)
	}
	if opts.Limit > MaxSearchLimit {
		return fmt.Errorf("%w: limit cannot exceed %d (requested: %d)", domain.ErrValidation, MaxSearchLimit, opts.Limit)
	}
	if opts.Offset < 0 {
		return fmt.Errorf("%w: offset cannot be negative", domain.ErrValidation)
	}
	return nil
}

// SearchResults is a page of matching documents with pagination metadata.
type SearchResults struct {
	Results []Document `json:"results"`

	// TotalCount is the number of matches regardless of limit/offset.
	TotalCount int `json:"total_count"`

	// HasMore indicates more results exist beyond this page.
	HasMore bool `json:"has_more"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`

	// Sort is the ordering actually applied, after normalization and
	// relevance degradation.
	Sort SortMode `json:"sort"`
}

// NewSearchResults builds a SearchResults with the HasMore flag computed.
func NewSearchResults(results []Document, totalCount int, opts *SearchOptions) *SearchResults {
	return &SearchResults{
		Results:    results,
		TotalCount: totalCount,
		HasMore:    (opts.Offset + len(results)) < totalCount,
		Offset:     opts.Offset,
		Limit:      opts.Limit,
		Sort:       opts.Sort,
	}
}
