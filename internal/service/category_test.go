package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"dochive/internal/domain"
	"dochive/internal/domain/services"
)

func newCategoryService() (services.CategoryService, *fakeCategoryRepo) {
	repo := newFakeCategoryRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCategoryService(repo, logger), repo
}

func TestCategoryService_Create(t *testing.T) {
	svc, _ := newCategoryService()

	cat, err := svc.Create(context.Background(), &services.CreateCategoryRequest{
		Name:        "Getting Started",
		Description: "First steps",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if cat.Slug != "getting-started" {
		t.Errorf("Slug = %q, want derived from the name", cat.Slug)
	}
	if cat.Description != "First steps" {
		t.Errorf("Description = %q", cat.Description)
	}
}

func TestCategoryService_CreateValidation(t *testing.T) {
	svc, _ := newCategoryService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  services.CreateCategoryRequest
	}{
		{name: "empty name", req: services.CreateCategoryRequest{Name: ""}},
		{name: "explicit slug with spaces", req: services.CreateCategoryRequest{Name: "Guides", Slug: "user guides"}},
		{name: "explicit slug with uppercase", req: services.CreateCategoryRequest{Name: "Guides", Slug: "Guides"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, &tt.req); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCategoryService_CreateDerivedSlugAvoidsCollision(t *testing.T) {
	svc, _ := newCategoryService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, &services.CreateCategoryRequest{Name: "Guides"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := svc.Create(ctx, &services.CreateCategoryRequest{Name: "Guides!"})
	if err != nil {
		t.Fatalf("Create() second error = %v", err)
	}
	if second.Slug != "guides-2" {
		t.Errorf("Slug = %q, want guides-2", second.Slug)
	}
}

func TestCategoryService_CreateExplicitSlugConflict(t *testing.T) {
	svc, _ := newCategoryService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, &services.CreateCategoryRequest{Name: "Guides", Slug: "guides"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	_, err := svc.Create(ctx, &services.CreateCategoryRequest{Name: "Other", Slug: "guides"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestCategoryService_UpdateKeepsSlug(t *testing.T) {
	svc, _ := newCategoryService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, &services.CreateCategoryRequest{Name: "Guides"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	name := "User Guides"
	updated, err := svc.Update(ctx, "guides", &services.UpdateCategoryRequest{Name: &name})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "User Guides" {
		t.Errorf("Name = %q", updated.Name)
	}
	// Renames never move the category; links keep working.
	if updated.Slug != "guides" {
		t.Errorf("Slug = %q, want unchanged", updated.Slug)
	}
}

func TestCategoryService_DeleteUnknownIsNotFound(t *testing.T) {
	svc, _ := newCategoryService()

	if err := svc.Delete(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
