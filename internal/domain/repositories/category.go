package repositories

import (
	"context"

	"dochive/internal/domain/models"
)

// CategoryRepository defines data access operations for categories.
type CategoryRepository interface {
	// Create inserts a new category. A slug collision returns a
	// domain.ConflictError carrying the existing category's ID.
	Create(ctx context.Context, cat *models.Category) error

	// GetByID retrieves a category by ID.
	GetByID(ctx context.Context, id string) (*models.Category, error)

	// GetBySlug retrieves a category by slug.
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)

	// List lists all categories ordered by name, with document counts.
	List(ctx context.Context) ([]models.Category, error)

	// Update updates a category's name and description. The slug is stable
	// once set and never rewritten.
	Update(ctx context.Context, cat *models.Category) error

	// Delete removes a category. Referencing documents are nullified, not
	// deleted (FK ON DELETE SET NULL).
	Delete(ctx context.Context, id string) error

	// SlugExists reports whether any category already uses the slug.
	SlugExists(ctx context.Context, slug string) (bool, error)
}
