package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	coreuser "github.com/staffsync/staffsync-backend/internal/core/user"
)

var _ = ginkgo.Describe("Auth HTTP", func() {
	var (
		repo   *mockRepository
		router *chi.Mux
	)

	ginkgo.BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		repo = newMockRepository()
		tokenGen := NewJWTTokenGenerator("test-access-secret-0123456789abcdef", "test-refresh-secret-0123456789abcdef", 15*time.Minute, 24*time.Hour)
		svc := NewService(repo, tokenGen, NewMemoryRevocationStore(), &recordingPublisher{}, bcrypt.MinCost, logger)
		h := NewHandler(svc, logger)
		rbac := NewRBACAuthorization(logger)

		router = chi.NewRouter()
		router.Post("/auth/signup", h.Signup)
		router.Post("/auth/login", h.Login)
		router.Post("/auth/refresh", h.RefreshToken)
		router.Post("/auth/logout", h.Logout)
		router.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)
			r.With(rbac.RequireHR()).Get("/hr/ping", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
			r.With(rbac.RequireEmployee()).Get("/employee/ping", func(w http.ResponseWriter, r *http.Request) {
				p, _ := UserFromContext(r)
				gomega.Expect(p.Role).To(gomega.Equal(coreuser.RoleEmployee))
				w.WriteHeader(http.StatusNoContent)
			})
		})
	})

	do := func(method, path, body, token string) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, path, reader)
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	login := func(email string) AuthTokens {
		rec := do(http.MethodPost, "/auth/login", `{"email":"`+email+`","password":"password1"}`, "")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		var tokens AuthTokens
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &tokens)).To(gomega.Succeed())
		return tokens
	}

	ginkgo.It("signs up with 201 and the user payload", func() {
		rec := do(http.MethodPost, "/auth/signup", `{"email":"new@example.com","password":"password1","name":"New"}`, "")

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"token_type":"bearer"`))
		gomega.Expect(rec.Body.String()).NotTo(gomega.ContainSubstring("password"))
	})

	ginkgo.It("maps a duplicate signup to 409", func() {
		repo.addUser("new@example.com", "password1", "EMPLOYEE", true)
		rec := do(http.MethodPost, "/auth/signup", `{"email":"new@example.com","password":"password1","name":"New"}`, "")

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusConflict))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("EMAIL_EXISTS"))
	})

	ginkgo.It("rejects bad credentials with 401", func() {
		rec := do(http.MethodPost, "/auth/login", `{"email":"nobody@example.com","password":"password1"}`, "")

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("INVALID_CREDENTIALS"))
	})

	ginkgo.It("rejects malformed JSON with 400", func() {
		rec := do(http.MethodPost, "/auth/login", `{"email":`, "")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
	})

	ginkgo.It("requires a token on protected routes", func() {
		rec := do(http.MethodGet, "/hr/ping", "", "")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("forbids employees from HR routes", func() {
		repo.addUser("emp@example.com", "password1", "EMPLOYEE", true)
		tokens := login("emp@example.com")

		gomega.Expect(do(http.MethodGet, "/hr/ping", "", tokens.AccessToken).Code).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(do(http.MethodGet, "/employee/ping", "", tokens.AccessToken).Code).To(gomega.Equal(http.StatusNoContent))
	})

	ginkgo.It("forbids HR accounts without an employee record from employee routes", func() {
		repo.addUser("hr@example.com", "password1", "HR_ADMINISTRATOR", true)
		tokens := login("hr@example.com")

		gomega.Expect(do(http.MethodGet, "/hr/ping", "", tokens.AccessToken).Code).To(gomega.Equal(http.StatusNoContent))
		gomega.Expect(do(http.MethodGet, "/employee/ping", "", tokens.AccessToken).Code).To(gomega.Equal(http.StatusForbidden))
	})

	ginkgo.It("logs out without a body and revokes the token", func() {
		repo.addUser("hr@example.com", "password1", "HR_ADMINISTRATOR", true)
		tokens := login("hr@example.com")

		gomega.Expect(do(http.MethodPost, "/auth/logout", "", tokens.AccessToken).Code).To(gomega.Equal(http.StatusNoContent))

		rec := do(http.MethodGet, "/hr/ping", "", tokens.AccessToken)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("TOKEN_REVOKED"))
	})

	ginkgo.It("refreshes tokens", func() {
		repo.addUser("emp@example.com", "password1", "EMPLOYEE", true)
		tokens := login("emp@example.com")

		rec := do(http.MethodPost, "/auth/refresh", `{"refresh_token":"`+tokens.RefreshToken+`"}`, "")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
	})
})
