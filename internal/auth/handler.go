package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/staffsync/staffsync-backend/internal"
	coreuser "github.com/staffsync/staffsync-backend/internal/core/user"
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

// Signup handles POST /auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var dto SignupDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	tokens, err := h.Service.Signup(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("Signup: failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, tokens)
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	tokens, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("Login: authentication failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// RefreshToken handles POST /auth/refresh
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	tokens, err := h.Service.Refresh(r.Context(), dto.RefreshToken)
	if err != nil {
		h.Logger.Warn("RefreshToken: token refresh failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Logout handles POST /auth/logout. The body is optional.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteAppError(w, internal.ErrInvalidToken.WithMessage("Missing authorization token"))
		return
	}

	var dto LogoutDTO
	if err := h.DecodeJSON(r, &dto); err != nil && !errors.Is(err, io.EOF) {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.Logout(r.Context(), token, dto.RefreshToken); err != nil {
		h.Logger.Warn("Logout: failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware authenticates the bearer token and attaches the caller's
// principal to the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := h.Service.Authenticate(r.Context(), h.ExtractTokenFromHeader(r))
		if err != nil {
			h.Logger.Info("auth middleware: rejected request", "path", r.URL.Path, "error", err)
			h.HandleServiceError(w, err)
			return
		}

		ctx := coreuser.NewContext(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the principal set by AuthMiddleware.
func UserFromContext(r *http.Request) (*coreuser.Principal, bool) {
	return coreuser.FromContext(r.Context())
}
