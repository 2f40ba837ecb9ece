package services

import (
	"context"

	"dochive/internal/domain/models"
)

// CreateCategoryRequest carries the writable category fields.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"` // derived from name when empty
	Description string `json:"description"`
}

// UpdateCategoryRequest carries partial category updates. The slug is stable
// once set and cannot be changed.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// CategoryService is the business logic around categories.
type CategoryService interface {
	Create(ctx context.Context, req *CreateCategoryRequest) (*models.Category, error)
	Get(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, slug string, req *UpdateCategoryRequest) (*models.Category, error)

	// Delete removes a category; referencing documents lose the reference
	// but are kept.
	Delete(ctx context.Context, slug string) error
}
