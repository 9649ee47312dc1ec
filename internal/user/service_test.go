package user_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/staffsync/staffsync-backend/internal"
	"github.com/staffsync/staffsync-backend/internal/core/testdb"
	coreuser "github.com/staffsync/staffsync-backend/internal/core/user"
	"github.com/staffsync/staffsync-backend/internal/user"
	"github.com/staffsync/staffsync-backend/internal/user/postgres"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

var _ = Describe("User profile", func() {
	var (
		db      *gorm.DB
		service *user.Service
		handler *user.Handler
		ctx     context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = user.NewService(postgres.NewUserRepository(db), logger)
		handler = user.NewHandler(service, logger)
		ctx = context.Background()
	})

	It("returns the user with employee details", func() {
		emp, err := testdb.CreateEmployee(db, testdb.UserOpts{Name: "Jane Doe", Department: "Engineering"})
		Expect(err).NotTo(HaveOccurred())

		profile, err := service.GetProfile(ctx, emp.UserID)
		Expect(err).NotTo(HaveOccurred())
		Expect(profile.Name).To(Equal("Jane Doe"))
		Expect(*profile.Department).To(Equal("Engineering"))
		Expect(profile.Employee).NotTo(BeNil())
		Expect(profile.Employee.EmployeeID).To(Equal(emp.EmployeeCode))
		Expect(profile.Employee.HireDate).To(Equal("2023-01-02"))
	})

	It("returns a profile without employee details for HR accounts", func() {
		hr, err := testdb.CreateUser(db, testdb.UserOpts{Role: "HR_ADMINISTRATOR"})
		Expect(err).NotTo(HaveOccurred())

		profile, err := service.GetProfile(ctx, hr.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(profile.Role).To(Equal("HR_ADMINISTRATOR"))
		Expect(profile.Employee).To(BeNil())
	})

	It("reports unknown users as not found", func() {
		_, err := service.GetProfile(ctx, uuid.New())
		Expect(err).To(MatchError(internal.ErrUserNotFound))
	})

	Describe("GET /auth/me", func() {
		It("serves the caller's profile without the password hash", func() {
			emp, err := testdb.CreateEmployee(db, testdb.UserOpts{})
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			req = req.WithContext(coreuser.NewContext(req.Context(), &coreuser.Principal{UserID: emp.UserID, Role: coreuser.RoleEmployee}))
			rec := httptest.NewRecorder()

			handler.GetCurrentUser(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(emp.User.Email))
			Expect(rec.Body.String()).NotTo(ContainSubstring("not-a-real-hash"))
		})
	})
})
