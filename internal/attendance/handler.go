package attendance

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/staffsync/staffsync-backend/internal"
	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
	"github.com/staffsync/staffsync-backend/internal/core/common/pagination"
	"github.com/staffsync/staffsync-backend/internal/transport"
)

const (
	defaultListPageSize = 50
	maxListPageSize     = 100
	hrDefaultWindowDays = 30
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

// CheckIn handles POST /employee/attendance/checkin
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	_, employeeID, ok := h.EmployeePrincipal(w, r)
	if !ok {
		return
	}

	rec, err := h.Service.CheckIn(r.Context(), employeeID)
	if err != nil {
		h.Logger.Warn("CheckIn: failed", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, rec)
}

// CheckOut handles POST /employee/attendance/checkout
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	_, employeeID, ok := h.EmployeePrincipal(w, r)
	if !ok {
		return
	}

	rec, err := h.Service.CheckOut(r.Context(), employeeID)
	if err != nil {
		h.Logger.Warn("CheckOut: failed", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rec)
}

// GetMyAttendance handles GET /employee/attendance
func (h *Handler) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	_, employeeID, ok := h.EmployeePrincipal(w, r)
	if !ok {
		return
	}

	window, err := dates.ParseRange(r, h.Service.Today(), dates.MonthStart)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	history, err := h.Service.History(r.Context(), employeeID, window)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, history)
}

// ListAttendance handles GET /hr/attendance
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	params := pagination.Parse(r, defaultListPageSize, maxListPageSize)

	listing, err := h.Service.List(r.Context(), filter, params)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, listing)
}

// MarkAttendance handles POST /hr/attendance/mark
func (h *Handler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	var dto MarkDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	rec, err := h.Service.Mark(r.Context(), p.UserID, dto)
	if err != nil {
		h.Logger.Warn("MarkAttendance: failed", "error", err, "marked_by", p.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, rec)
}

// DownloadReport handles GET /hr/attendance/report.pdf
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	window, err := dates.ParseRange(r, h.Service.Today(), dates.LastDays(hrDefaultWindowDays))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	department := strings.TrimSpace(r.URL.Query().Get("department"))

	report, err := h.Service.Report(r.Context(), window, department)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WritePDF(&buf); err != nil {
		h.HandleServiceError(w, internal.NewInternalError("failed to render report", err))
		return
	}

	filename := fmt.Sprintf("attendance-%s-%s.pdf",
		window.Start.Format(dates.DateLayout), window.End.Format(dates.DateLayout))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.Logger.Error("DownloadReport: failed to write response", "error", err)
	}
}

func (h *Handler) parseFilter(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	window, err := dates.ParseRange(r, h.Service.Today(), dates.LastDays(hrDefaultWindowDays))
	if err != nil {
		return Filter{}, err
	}
	f := Filter{
		Range:      window,
		Department: strings.TrimSpace(q.Get("department")),
	}
	if raw := q.Get("employee_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return Filter{}, internal.ErrInvalidID
		}
		f.EmployeeID = &id
	}
	if raw := q.Get("status"); raw != "" {
		st, err := ParseStatus(raw)
		if err != nil {
			return Filter{}, internal.NewValidationFieldError("status", "status must be one of: "+strings.Join(Statuses, ", "), internal.ErrCodeInvalidEnum)
		}
		f.Status = st
	}
	return f, nil
}
