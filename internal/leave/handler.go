package leave

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

// Submit handles POST /employee/leave-requests
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	_, employeeID, ok := h.EmployeePrincipal(w, r)
	if !ok {
		return
	}

	var dto SubmitDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	view, err := h.Service.Submit(r.Context(), employeeID, dto)
	if err != nil {
		h.Logger.Warn("Submit: failed", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, view)
}

// ListMine handles GET /employee/leave-requests
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	_, employeeID, ok := h.EmployeePrincipal(w, r)
	if !ok {
		return
	}

	views, err := h.Service.ListMine(r.Context(), employeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"leave_requests": views,
		"total":          len(views),
	})
}

// List handles GET /hr/leave-requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	v := validation.NewValidator()
	v.Field("status", status).OneOf(Statuses...)
	if err := v.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	listing, err := h.Service.List(r.Context(), Status(status), pagination.Parse(r, defaultPageSize, maxPageSize))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, listing)
}

// Review handles PUT /hr/leave-requests/{id}/status
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	id, err := h.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto ReviewDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	view, err := h.Service.Review(r.Context(), p, id, dto)
	if err != nil {
		h.Logger.Warn("Review: failed", "error", err, "leave_request_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}
