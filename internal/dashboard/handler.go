package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/staffsync/staffsync-backend/internal/core/common/pagination"
	"github.com/staffsync/staffsync-backend/internal/transport"
)

const (
	defaultActivityLimit = 10
	maxActivityLimit     = 50
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

// HRStats handles GET /hr/dashboard/stats
func (h *Handler) HRStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.HRStats(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

// RecentActivity handles GET /hr/recent-activity
func (h *Handler) RecentActivity(w http.ResponseWriter, r *http.Request) {
	feed, err := h.Service.RecentActivity(r.Context(), pagination.Limit(r, defaultActivityLimit, maxActivityLimit))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, feed)
}

// EmployeeDashboard handles GET /employee/dashboard
func (h *Handler) EmployeeDashboard(w http.ResponseWriter, r *http.Request) {
	_, employeeID, ok := h.EmployeePrincipal(w, r)
	if !ok {
		return
	}

	d, err := h.Service.EmployeeDashboard(r.Context(), employeeID)
	if err != nil {
		h.Logger.Warn("EmployeeDashboard: failed", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, d)
}
