package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"dochive/internal/config"
	"dochive/internal/domain/services"
	"dochive/internal/httputil"
)

// AttachmentHandler handles attachment HTTP requests
type AttachmentHandler struct {
	attachmentService services.AttachmentService
	logger            *slog.Logger
}

// NewAttachmentHandler creates a new attachment handler
func NewAttachmentHandler(attachmentService services.AttachmentService, logger *slog.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
		logger:            logger,
	}
}

// CreateAttachment uploads a file onto a document
// POST /api/documents/{slug}/attachments
// multipart/form-data with a "file" part and an optional "name" field.
func (h *AttachmentHandler) CreateAttachment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.MaxAttachmentSize); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["file"]) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "missing file part")
		return
	}
	header := r.MultipartForm.File["file"][0]

	req := &services.CreateAttachmentRequest{
		DocumentSlug: r.PathValue("slug"),
		File:         uploadedFile(header),
		Name:         r.FormValue("name"),
		Viewer:       httputil.GetViewer(r),
	}

	attachment, err := h.attachmentService.Create(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, attachment)
}

// ListAttachments lists a document's attachments
// GET /api/documents/{slug}/attachments
func (h *AttachmentHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	attachments, err := h.attachmentService.ListForDocument(r.Context(), r.PathValue("slug"), httputil.GetViewer(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, attachments)
}

// DownloadAttachment streams an attachment's binary
// GET /api/attachments/{id}/download
func (h *AttachmentHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	attachment, reader, err := h.attachmentService.Open(r.Context(), r.PathValue("id"), httputil.GetViewer(r))
	if err != nil {
		handleError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", attachment.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(attachment.FileSize, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.Name))

	if _, err := io.Copy(w, reader); err != nil {
		// Headers are out; the client sees a truncated body.
		h.logger.Error("attachment stream interrupted", "attachment_id", attachment.ID, "error", err)
	}
}

// DeleteAttachment removes an attachment and its binary
// DELETE /api/attachments/{id}
func (h *AttachmentHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	if err := h.attachmentService.Delete(r.Context(), r.PathValue("id"), httputil.GetViewer(r)); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
