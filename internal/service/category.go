package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"dochive/internal/config"
	"dochive/internal/domain"
	"dochive/internal/domain/models"
	"dochive/internal/domain/repositories"
	"dochive/internal/domain/services"
	"dochive/internal/utils"
)

type categoryService struct {
	categoryRepo repositories.CategoryRepository
	logger       *slog.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo repositories.CategoryRepository, logger *slog.Logger) services.CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

func (s *categoryService) Create(ctx context.Context, req *services.CreateCategoryRequest) (*models.Category, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxCategoryNameLength)),
		validation.Field(&req.Slug, validation.Length(0, config.MaxSlugLength)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Name)
		if slug == "" {
			return nil, fmt.Errorf("%w: name yields an empty slug", domain.ErrValidation)
		}
		slug, err = uniqueSlug(ctx, slug, s.categoryRepo.SlugExists)
		if err != nil {
			return nil, err
		}
	} else if slug != utils.Slugify(slug) {
		return nil, fmt.Errorf("%w: slug may only contain lowercase letters, digits, hyphens and underscores", domain.ErrValidation)
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category created", "category_id", category.ID, "slug", category.Slug)
	return category, nil
}

func (s *categoryService) Get(ctx context.Context, slug string) (*models.Category, error) {
	return s.categoryRepo.GetBySlug(ctx, slug)
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *categoryService) Update(ctx context.Context, slug string, req *services.UpdateCategoryRequest) (*models.Category, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, config.MaxCategoryNameLength)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category updated", "category_id", category.ID, "slug", category.Slug)
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}

	if err := s.categoryRepo.Delete(ctx, category.ID); err != nil {
		return err
	}

	s.logger.Info("category deleted", "category_id", category.ID, "slug", category.Slug)
	return nil
}
