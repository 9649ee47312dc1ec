package announcement

import (
	"log/slog"
	"net/http"

	"github.com/staffsync/staffsync-backend/internal/core/common/pagination"
	"github.com/staffsync/staffsync-backend/internal/transport"
)

const (
	hrPageSize          = 20
	hrMaxPageSize       = 100
	employeePageSize    = 10
	employeeMaxPageSize = 50
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

// Create handles POST /hr/announcements
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	var dto CreateDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	view, err := h.Service.Create(r.Context(), p.UserID, p.Name, dto)
	if err != nil {
		h.Logger.Warn("Create: failed", "error", err, "user_id", p.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, view)
}

// ListAll handles GET /hr/announcements
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.ListAll(r.Context(), pagination.Parse(r, hrPageSize, hrMaxPageSize))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

// ListForEmployees handles GET /employee/announcements
func (h *Handler) ListForEmployees(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.ListForEmployees(r.Context(), pagination.Parse(r, employeePageSize, employeeMaxPageSize))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}
