package employee

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/staffsync/staffsync-backend/internal/core/common/pagination"
	"github.com/staffsync/staffsync-backend/internal/core/common/validation"
	"github.com/staffsync/staffsync-backend/internal/transport"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Service:     svc,
	}
}

// List handles GET /hr/employees
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filter{
		Search:     strings.TrimSpace(q.Get("search")),
		Department: strings.TrimSpace(q.Get("department")),
		Status:     Status(strings.ToLower(strings.TrimSpace(q.Get("status")))),
		SortBy:     strings.ToLower(strings.TrimSpace(q.Get("sort_by"))),
		Descending: true,
	}
	order := strings.ToLower(strings.TrimSpace(q.Get("sort_order")))

	v := validation.NewValidator()
	v.Field("status", string(f.Status)).OneOf(Statuses...)
	v.Field("sort_by", f.SortBy).OneOf(SortFields...)
	v.Field("sort_order", order).OneOf("asc", "desc")
	if err := v.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if f.SortBy == "" {
		f.SortBy = SortByCreatedAt
	}
	if order == "asc" {
		f.Descending = false
	}

	page, err := h.Service.List(r.Context(), f, pagination.Parse(r, defaultPageSize, maxPageSize))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, page)
}

// Get handles GET /hr/employees/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	view, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

// Create handles POST /hr/employees
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	view, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("Create: failed", "error", err, "email", dto.Email)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, view)
}

// Update handles PUT /hr/employees/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto UpdateDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	view, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.Logger.Warn("Update: failed", "error", err, "employee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

// Deactivate handles DELETE /hr/employees/{id}
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.Deactivate(r.Context(), id); err != nil {
		h.Logger.Warn("Deactivate: failed", "error", err, "employee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Employee deactivated successfully"})
}
