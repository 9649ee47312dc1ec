package notification

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/staffsync/staffsync-backend/internal/core/common/pagination"
	"github.com/staffsync/staffsync-backend/internal/transport"
)

const (
	defaultInboxLimit = 10
	maxInboxLimit     = 50
	defaultSentLimit  = 20
	maxSentLimit      = 100
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

// Send handles POST /hr/notifications
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	var dto SendDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	view, err := h.Service.Send(r.Context(), p.UserID, dto)
	if err != nil {
		h.Logger.Warn("Send: failed", "error", err, "sender_id", p.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, view)
}

// ListSent handles GET /hr/notifications/sent
func (h *Handler) ListSent(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	outbox, err := h.Service.Sent(r.Context(), p.UserID, pagination.Limit(r, defaultSentLimit, maxSentLimit))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, outbox)
}

// ListMine handles GET /{hr,employee}/notifications
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	unreadOnly, _ := strconv.ParseBool(r.URL.Query().Get("unread_only"))
	limit := pagination.Limit(r, defaultInboxLimit, maxInboxLimit)

	inbox, err := h.Service.Inbox(r.Context(), p.UserID, unreadOnly, limit)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, inbox)
}

// MarkRead handles PUT /{hr,employee}/notifications/{id}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	id, err := h.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.MarkRead(r.Context(), p.UserID, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

// MarkAllRead handles PUT /{hr,employee}/notifications/read-all
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	updated, err := h.Service.MarkAllRead(r.Context(), p.UserID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "All notifications marked as read",
		"updated": updated,
	})
}
