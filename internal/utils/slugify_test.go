package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple title",
			input:    "Getting Started",
			expected: "getting-started",
		},
		{
			name:     "already a slug",
			input:    "getting-started",
			expected: "getting-started",
		},
		{
			name:     "collapses whitespace runs",
			input:    "API   Documentation \t Guide",
			expected: "api-documentation-guide",
		},
		{
			name:     "collapses hyphen runs",
			input:    "before -- after",
			expected: "before-after",
		},
		{
			name:     "drops punctuation",
			input:    "What's new? (v2.1!)",
			expected: "whats-new-v21",
		},
		{
			name:     "keeps underscores",
			input:    "snake_case_title",
			expected: "snake_case_title",
		},
		{
			name:     "transliterates accents",
			input:    "Café Déjà Vu",
			expected: "cafe-deja-vu",
		},
		{
			name:     "trims leading and trailing separators",
			input:    "  --hello--  ",
			expected: "hello",
		},
		{
			name:     "digits survive",
			input:    "Release Notes 2026",
			expected: "release-notes-2026",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "only punctuation yields empty",
			input:    "!!! ???",
			expected: "",
		},
		{
			name:     "non-latin characters are dropped",
			input:    "документы docs",
			expected: "docs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.input)
			if got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
