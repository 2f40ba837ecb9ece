package handler

import (
	"log/slog"
	"net/http"

	"dochive/internal/domain/repositories"
	"dochive/internal/httputil"
)

// TagHandler handles tag HTTP requests. Tags have no business logic beyond
// what the repository offers, so the handler sits on it directly.
type TagHandler struct {
	tagRepo repositories.TagRepository
	logger  *slog.Logger
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagRepo repositories.TagRepository, logger *slog.Logger) *TagHandler {
	return &TagHandler{
		tagRepo: tagRepo,
		logger:  logger,
	}
}

// ListTags lists all tags with usage counts, most used first
// GET /api/tags
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagRepo.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tags)
}
