package analytics

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
	"github.com/staffsync/staffsync-backend/internal/transport"
)

const defaultWindowDays = 30

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

// Report handles GET /hr/analytics
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	window, err := dates.ParseRange(r, h.Service.Today(), dates.LastDays(defaultWindowDays))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	rep, err := h.Service.Report(r.Context(), window, strings.TrimSpace(r.URL.Query().Get("department")))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rep)
}
