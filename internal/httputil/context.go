package httputil

import (
	"context"
	"net/http"

	"dochive/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const viewerKey contextKey = "viewer"

// WithViewer attaches the request's visibility context.
func WithViewer(r *http.Request, viewer models.Viewer) *http.Request {
	ctx := context.WithValue(r.Context(), viewerKey, viewer)
	return r.WithContext(ctx)
}

// GetViewer retrieves the viewer from the request context. Requests that
// never passed auth middleware read as anonymous.
func GetViewer(r *http.Request) models.Viewer {
	viewer, _ := r.Context().Value(viewerKey).(models.Viewer)
	return viewer
}
