package document

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/staffsync/staffsync-backend/internal"
	"github.com/staffsync/staffsync-backend/internal/core/common/validation"
	"github.com/staffsync/staffsync-backend/internal/storage"
	"github.com/staffsync/staffsync-backend/internal/transport"
)

// multipartOverhead is the allowance for form fields and boundaries on top
// of the file itself.
const multipartOverhead = 1 << 20

type Handler struct {
	*transport.BaseHandler
	Service     ServiceAPI
	maxFileSize int64
}

func NewHandler(svc ServiceAPI, cfg internal.StorageConfig, logger *slog.Logger) *Handler {
	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = internal.DefaultMaxFileSize
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Service:     svc,
		maxFileSize: maxSize,
	}
}

// List handles GET /employee/documents
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	_, employeeID, ok := h.EmployeePrincipal(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	category := strings.ToLower(strings.TrimSpace(q.Get("category")))
	v := validation.NewValidator()
	v.Field("category", category).OneOf(Categories...)
	if err := v.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	listing, err := h.Service.List(r.Context(), employeeID, Filter{
		Category: Category(category),
		Search:   strings.TrimSpace(q.Get("search")),
	})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, listing)
}

// Upload handles POST /employee/documents (multipart/form-data)
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	p, employeeID, ok := h.EmployeePrincipal(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.HandleServiceError(w, storage.ErrFileTooLarge)
			return
		}
		h.HandleServiceError(w, internal.ErrInvalidBody.WithMessage("Expected a multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.HandleServiceError(w, internal.NewValidationFieldError("file", "file is required", internal.ErrCodeValidationFailed))
		return
	}
	defer file.Close()

	dto := UploadDTO{
		Title:       r.FormValue("title"),
		Category:    r.FormValue("category"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}
	view, err := h.Service.Upload(r.Context(), employeeID, p, dto, file)
	if err != nil {
		h.Logger.Warn("Upload: failed", "error", err, "employee_id", employeeID, "file_name", header.Filename)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, view)
}

// Download handles GET /employee/documents/{id}/download
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	_, employeeID, ok := h.EmployeePrincipal(w, r)
	if !ok {
		return
	}

	id, err := h.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	doc, rc, err := h.Service.Open(r.Context(), employeeID, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	defer rc.Close()

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
	if doc.FileSize > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(doc.FileSize, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.Logger.Warn("Download: stream interrupted", "error", err, "document_id", id)
	}
}
