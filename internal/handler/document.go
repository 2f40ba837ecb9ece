package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"dochive/internal/config"
	"dochive/internal/domain/models"
	"dochive/internal/domain/services"
	"dochive/internal/httputil"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService services.DocumentService
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService services.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// createDocumentBody is the JSON shape of a create request. Tri-state fields
// stay in the transport layer; the service request uses plain values.
type createDocumentBody struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Content    string   `json:"content"`
	CategoryID *string  `json:"category_id"`
	IsPublic   *bool    `json:"is_public"`
	ParentID   *string  `json:"parent_id"`
	Order      int      `json:"order"`
	IsIndex    bool     `json:"is_index"`
	Tags       []string `json:"tags"`
}

// updateDocumentBody is the JSON shape of a PATCH request.
type updateDocumentBody struct {
	Title      *string                 `json:"title"`
	Content    *string                 `json:"content"`
	CategoryID httputil.OptionalString `json:"category_id"`
	IsPublic   *bool                   `json:"is_public"`
	ParentID   httputil.OptionalString `json:"parent_id"`
	Order      *int                    `json:"order"`
	IsIndex    *bool                   `json:"is_index"`
	Tags       *[]string               `json:"tags"`
}

// CreateDocument creates a new document
// POST /api/documents
// Accepts JSON, or multipart/form-data with a "document" JSON part plus
// "files" parts persisted atomically with the document.
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var body createDocumentBody
	var files []services.UploadedFile

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(config.MaxAttachmentSize); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		if err := json.Unmarshal([]byte(r.FormValue("document")), &body); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "invalid document JSON part")
			return
		}
		if r.MultipartForm != nil {
			for _, header := range r.MultipartForm.File["files"] {
				files = append(files, uploadedFile(header))
			}
		}
	} else {
		if err := httputil.ParseJSON(w, r, &body); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	req := &services.CreateDocumentRequest{
		Title:       body.Title,
		Slug:        body.Slug,
		Content:     body.Content,
		CategoryID:  body.CategoryID,
		IsPublic:    body.IsPublic,
		ParentID:    body.ParentID,
		Order:       body.Order,
		IsIndex:     body.IsIndex,
		Tags:        body.Tags,
		Attachments: files,
		Viewer:      httputil.GetViewer(r),
	}

	// Slug conflicts surface as a plain 409; the holder is not embedded
	// because it may be a private document.
	doc, err := h.docService.Create(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// SearchDocuments lists documents through the search pipeline
// GET /api/documents?q=&category=&tags=&sort=&limit=&offset=
func (h *DocumentHandler) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	viewer := httputil.GetViewer(r)

	opts := &models.SearchOptions{
		Query:  strings.TrimSpace(q.Get("q")),
		Sort:   models.SortMode(q.Get("sort")),
		Viewer: viewer,
	}
	for _, raw := range q["tags"] {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				opts.Tags = append(opts.Tags, tag)
			}
		}
	}
	if q.Get("mine") == "true" && viewer.Authenticated {
		opts.AuthorID = viewer.UserID
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		opts.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "offset must be an integer")
			return
		}
		opts.Offset = offset
	}

	results, err := h.docService.Search(r.Context(), opts, strings.TrimSpace(q.Get("category")))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, results)
}

// GetDocument retrieves a document by slug and counts the view
// GET /api/documents/{slug}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	doc, err := h.docService.Get(r.Context(), slug, httputil.GetViewer(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// UpdateDocument applies a partial update
// PATCH /api/documents/{slug}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	var body updateDocumentBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := &services.UpdateDocumentRequest{
		Title:      body.Title,
		Content:    body.Content,
		CategoryID: services.OptionalRef{Present: body.CategoryID.Present, Value: body.CategoryID.Value},
		IsPublic:   body.IsPublic,
		ParentID:   services.OptionalRef{Present: body.ParentID.Present, Value: body.ParentID.Value},
		Order:      body.Order,
		IsIndex:    body.IsIndex,
		Tags:       body.Tags,
		Viewer:     httputil.GetViewer(r),
	}

	doc, err := h.docService.Update(r.Context(), slug, req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteDocument deletes a document
// DELETE /api/documents/{slug}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	if err := h.docService.Delete(r.Context(), slug, httputil.GetViewer(r)); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetHierarchy returns the one-level tree neighborhood of a document
// GET /api/documents/{slug}/hierarchy
func (h *DocumentHandler) GetHierarchy(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	hierarchy, err := h.docService.Hierarchy(r.Context(), slug, httputil.GetViewer(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, hierarchy)
}

// IncrementViews bumps the view counter without fetching the body
// POST /api/documents/{slug}/views
func (h *DocumentHandler) IncrementViews(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	views, err := h.docService.IncrementViews(r.Context(), slug, httputil.GetViewer(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int64{"views": views})
}

// uploadedFile adapts a multipart file header to the service upload type.
func uploadedFile(header *multipart.FileHeader) services.UploadedFile {
	return services.UploadedFile{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}
