package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"dochive/internal/config"
	"dochive/internal/domain"
)

// takenSet builds an exists callback over a fixed set of slugs.
func takenSet(slugs ...string) func(context.Context, string) (bool, error) {
	set := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		set[s] = true
	}
	return func(_ context.Context, slug string) (bool, error) {
		return set[slug], nil
	}
}

func TestUniqueSlug(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		base  string
		taken []string
		want  string
	}{
		{name: "free base wins", base: "setup", want: "setup"},
		{name: "first collision gets -2", base: "setup", taken: []string{"setup"}, want: "setup-2"},
		{name: "suffix search skips taken", base: "setup", taken: []string{"setup", "setup-2", "setup-3"}, want: "setup-4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uniqueSlug(ctx, tt.base, takenSet(tt.taken...))
			if err != nil {
				t.Fatalf("uniqueSlug() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("uniqueSlug() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUniqueSlugTruncatesBeforeSuffixing(t *testing.T) {
	long := strings.Repeat("a", config.MaxSlugLength+50)
	trimmed := long[:config.MaxSlugLength]

	got, err := uniqueSlug(context.Background(), long, takenSet(trimmed))
	if err != nil {
		t.Fatalf("uniqueSlug() error = %v", err)
	}
	if len(got) > config.MaxSlugLength {
		t.Errorf("slug length = %d, want at most %d", len(got), config.MaxSlugLength)
	}
	if !strings.HasSuffix(got, "-2") {
		t.Errorf("uniqueSlug() = %q, want a -2 suffix", got)
	}
}

func TestUniqueSlugExhaustionIsConflict(t *testing.T) {
	everything := func(context.Context, string) (bool, error) { return true, nil }

	_, err := uniqueSlug(context.Background(), "setup", everything)
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestUniqueSlugPropagatesLookupError(t *testing.T) {
	boom := fmt.Errorf("connection reset")
	failing := func(context.Context, string) (bool, error) { return false, boom }

	_, err := uniqueSlug(context.Background(), "setup", failing)
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want the lookup error", err)
	}
}
