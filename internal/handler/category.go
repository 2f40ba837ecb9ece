package handler

import (
	"log/slog"
	"net/http"

	"dochive/internal/domain/models"
	"dochive/internal/domain/services"
	"dochive/internal/httputil"
)

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	categoryService services.CategoryService
	logger          *slog.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService services.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// CreateCategory creates a new category
// POST /api/categories
// Returns 201 if created, 409 with the existing category on a slug collision
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	viewer := httputil.GetViewer(r)
	if !viewer.Staff {
		httputil.RespondError(w, http.StatusForbidden, "categories are managed by staff")
		return
	}

	var req services.CreateCategoryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.categoryService.Create(r.Context(), &req)
	if err != nil {
		HandleCreateConflict(w, err, func(resourceID string) (*models.Category, error) {
			return h.categoryService.Get(r.Context(), req.Slug)
		})
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, category)
}

// ListCategories lists all categories with document counts
// GET /api/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, categories)
}

// GetCategory retrieves a category by slug
// GET /api/categories/{slug}
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.categoryService.Get(r.Context(), r.PathValue("slug"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, category)
}

// UpdateCategory renames a category or changes its description
// PATCH /api/categories/{slug}
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	viewer := httputil.GetViewer(r)
	if !viewer.Staff {
		httputil.RespondError(w, http.StatusForbidden, "categories are managed by staff")
		return
	}

	var req services.UpdateCategoryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.categoryService.Update(r.Context(), r.PathValue("slug"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, category)
}

// DeleteCategory deletes a category; its documents become uncategorized
// DELETE /api/categories/{slug}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	viewer := httputil.GetViewer(r)
	if !viewer.Staff {
		httputil.RespondError(w, http.StatusForbidden, "categories are managed by staff")
		return
	}

	if err := h.categoryService.Delete(r.Context(), r.PathValue("slug")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
