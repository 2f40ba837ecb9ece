// Package sanitize strips dangerous markup from rich-text document content
// before it is persisted. Documents are authored in an HTML rich-text
// editor, so content arrives as user-generated HTML.
package sanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

// HTML removes script tags, event handlers, javascript: URLs, and other XSS
// vectors while preserving common formatting (headings, lists, links,
// images, tables, code blocks).
//
// Thread-safe for concurrent use.
type HTML struct {
	policy *bluemonday.Policy
}

// NewHTML creates a sanitizer with a UGC (user generated content) policy.
func NewHTML() *HTML {
	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()
	return &HTML{policy: policy}
}

// Clean returns the sanitized form of the given HTML fragment.
func (s *HTML) Clean(html string) string {
	return s.policy.Sanitize(html)
}
