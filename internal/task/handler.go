package task

import (
	"log/slog"
	"net/http"

	"github.com/staffsync/staffsync-backend/internal/core/common/validation"
	"github.com/staffsync/staffsync-backend/internal/transport"
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

// ListMyTasks handles GET /employee/tasks
func (h *Handler) ListMyTasks(w http.ResponseWriter, r *http.Request) {
	p, employeeID, ok := h.EmployeePrincipal(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	f := Filter{
		Status:   Status(q.Get("status")),
		Priority: Priority(q.Get("priority")),
		SortBy:   q.Get("sort_by"),
	}
	if f.SortBy == "" {
		f.SortBy = SortByDueDate
	}

	v := validation.NewValidator()
	v.Field("status", string(f.Status)).OneOf(Statuses...)
	v.Field("priority", string(f.Priority)).OneOf(Priorities...)
	v.Field("sort_by", f.SortBy).OneOf(SortByDueDate, SortByPriority, SortByCreatedAt)
	if err := v.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	listing, err := h.Service.ListMine(r.Context(), employeeID, p.UserID, f)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, listing)
}

// CreateMyTask handles POST /employee/tasks
func (h *Handler) CreateMyTask(w http.ResponseWriter, r *http.Request) {
	p, employeeID, ok := h.EmployeePrincipal(w, r)
	if !ok {
		return
	}

	var dto CreateTaskDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	view, err := h.Service.CreateMine(r.Context(), employeeID, p.UserID, dto)
	if err != nil {
		h.Logger.Warn("CreateMyTask: failed", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, view)
}

// UpdateMyTask handles PUT /employee/tasks/{id}
func (h *Handler) UpdateMyTask(w http.ResponseWriter, r *http.Request) {
	p, employeeID, ok := h.EmployeePrincipal(w, r)
	if !ok {
		return
	}

	taskID, err := h.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto UpdateTaskDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	view, err := h.Service.UpdateMine(r.Context(), employeeID, p.UserID, taskID, dto)
	if err != nil {
		h.Logger.Warn("UpdateMyTask: failed", "error", err, "task_id", taskID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

// AssignTask handles POST /hr/employees/{id}/tasks
func (h *Handler) AssignTask(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	employeeID, err := h.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto CreateTaskDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	view, err := h.Service.Assign(r.Context(), p, employeeID, dto)
	if err != nil {
		h.Logger.Warn("AssignTask: failed", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, view)
}
