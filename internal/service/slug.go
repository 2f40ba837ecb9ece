package service

import (
	"context"
	"fmt"

	"dochive/internal/config"
	"dochive/internal/domain"
)

// uniqueSlug finds an unused slug starting from base, appending -2, -3 and
// so on until exists stops reporting a collision. The race between check and
// insert is closed by the unique index; a loser surfaces as a conflict.
func uniqueSlug(ctx context.Context, base string, exists func(context.Context, string) (bool, error)) (string, error) {
	if len(base) > config.MaxSlugLength {
		base = base[:config.MaxSlugLength]
	}

	candidate := base
	for i := 2; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		if i > config.MaxSlugAttempts {
			return "", fmt.Errorf("%w: could not find a free slug for '%s'", domain.ErrConflict, base)
		}

		suffix := fmt.Sprintf("-%d", i)
		trimmed := base
		if len(trimmed)+len(suffix) > config.MaxSlugLength {
			trimmed = trimmed[:config.MaxSlugLength-len(suffix)]
		}
		candidate = trimmed + suffix
	}
}
