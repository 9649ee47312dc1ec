package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/google/uuid"

	"github.com/staffsync/staffsync-backend/internal"
	coreuser "github.com/staffsync/staffsync-backend/internal/core/user"
	"github.com/staffsync/staffsync-backend/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteAppError renders err in the {"error": {...}} envelope.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, err *internal.AppError) {
	status, body := err.ToHTTPResponse()
	if status == 0 {
		status = http.StatusInternalServerError
	}
	h.WriteJSON(w, status, body)
}

// WriteError writes an error response for failures that have no domain error.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Warn("http error", "status", status, "message", message)
	appErr := &internal.AppError{
		Type:       errorTypeForStatus(status),
		Code:       internal.ErrorCode(strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))),
		Message:    message,
		StatusCode: status,
	}
	h.WriteAppError(w, appErr)
}

// HandleServiceError renders AppErrors as-is. Anything else is logged and
// reported as an opaque internal error.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		if appErr.Type == internal.ErrorTypeInternal {
			h.Logger.Error("internal error", "error", err)
			h.WriteAppError(w, internal.NewInternalError("Internal server error", nil))
			return
		}
		h.WriteAppError(w, appErr)
		return
	}
	h.Logger.Error("unhandled service error", "error", err)
	h.WriteAppError(w, internal.NewInternalError("Internal server error", nil))
}

// DecodeJSON decodes the request body into dst, rejecting unknown payloads
// as INVALID_BODY.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return internal.ErrInvalidBody
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return internal.ErrInvalidBody.WithCause(io.EOF).WithMessage("Request body is empty")
		}
		return internal.ErrInvalidBody.WithCause(err)
	}
	return nil
}

// ParseUUIDParam reads a chi URL parameter as a UUID.
func (h *BaseHandler) ParseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, internal.ErrInvalidID
	}
	return id, nil
}

// Principal returns the authenticated caller, writing 401 when absent.
func (h *BaseHandler) Principal(w http.ResponseWriter, r *http.Request) (*coreuser.Principal, bool) {
	p, ok := coreuser.FromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrInvalidToken.WithMessage("Authentication required"))
		return nil, false
	}
	return p, true
}

// EmployeePrincipal is Principal for endpoints that act on the caller's own
// employee record.
func (h *BaseHandler) EmployeePrincipal(w http.ResponseWriter, r *http.Request) (*coreuser.Principal, uuid.UUID, bool) {
	p, ok := h.Principal(w, r)
	if !ok {
		return nil, uuid.Nil, false
	}
	if p.EmployeeID == nil {
		h.WriteAppError(w, internal.ErrEmployeeNotFound)
		return nil, uuid.Nil, false
	}
	return p, *p.EmployeeID, true
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	return BearerToken(r)
}

func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

func errorTypeForStatus(status int) internal.ErrorType {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return internal.ErrorTypeValidation
	case http.StatusUnauthorized:
		return internal.ErrorTypeUnauthorized
	case http.StatusForbidden:
		return internal.ErrorTypeForbidden
	case http.StatusNotFound:
		return internal.ErrorTypeNotFound
	case http.StatusConflict:
		return internal.ErrorTypeConflict
	default:
		return internal.ErrorTypeInternal
	}
}
