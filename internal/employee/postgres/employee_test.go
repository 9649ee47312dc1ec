package postgres_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/staffsync/staffsync-backend/internal/core/common/pagination"
	employeeDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/employee"
	userDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/user"
	"github.com/staffsync/staffsync-backend/internal/core/events"
	"github.com/staffsync/staffsync-backend/internal/core/testdb"
	"github.com/staffsync/staffsync-backend/internal/employee"
	"github.com/staffsync/staffsync-backend/internal/employee/postgres"
)

func TestEmployeeRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Employee Suite")
}

var _ = Describe("Employee management", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
	)

	BeforeEach(func() {
		var err error
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc := employee.NewService(postgres.NewRepository(db), events.NewEventBus(logger), bcrypt.MinCost, logger)
		h := employee.NewHandler(svc, logger)

		router = chi.NewRouter()
		router.Get("/hr/employees", h.List)
		router.Post("/hr/employees", h.Create)
		router.Get("/hr/employees/{id}", h.Get)
		router.Put("/hr/employees/{id}", h.Update)
		router.Delete("/hr/employees/{id}", h.Deactivate)
	})

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	create := func(email, name, department string) employee.View {
		rec := do(http.MethodPost, "/hr/employees", map[string]interface{}{
			"email":      email,
			"password":   "Secret123",
			"name":       name,
			"department": department,
			"position":   "Analyst",
			"hire_date":  "2023-05-01",
			"salary":     62000.5,
		})
		Expect(rec.Code).To(Equal(http.StatusCreated), rec.Body.String())
		var v employee.View
		Expect(json.Unmarshal(rec.Body.Bytes(), &v)).To(Succeed())
		return v
	}

	It("creates an employee with a login and a sequential code", func() {
		first := create("Ana@Example.com", "Ana Lima", "Finance")
		second := create("ben@example.com", "Ben Ode", "Finance")

		Expect(first.Email).To(Equal("ana@example.com"))
		Expect(first.Status).To(Equal(employee.StatusActive))
		Expect(first.Salary).To(Equal(62000.5))
		Expect(first.EmployeeID).To(MatchRegexp(`^EMP-\d{8}-0001$`))
		Expect(second.EmployeeID).To(HaveSuffix("-0002"))

		var u userDatamodel.User
		Expect(db.First(&u, "id = ?", first.UserID).Error).To(Succeed())
		Expect(u.Role).To(Equal("EMPLOYEE"))
		Expect(u.IsActive).To(BeTrue())
		Expect(bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("Secret123"))).To(Succeed())
	})

	It("rejects a duplicate email with 409", func() {
		create("dup@example.com", "First Person", "Ops")
		rec := do(http.MethodPost, "/hr/employees", map[string]interface{}{
			"email": "dup@example.com", "password": "Secret123", "name": "Second Person",
			"position": "Analyst", "hire_date": "2023-05-01",
		})
		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(rec.Body.String()).To(ContainSubstring("EMAIL_EXISTS"))
	})

	It("validates the create payload", func() {
		rec := do(http.MethodPost, "/hr/employees", map[string]interface{}{
			"email": "not-an-email", "password": "short", "name": "A",
			"position": "Analyst", "hire_date": "2999-01-01", "salary": -1,
		})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		body := rec.Body.String()
		Expect(body).To(ContainSubstring("email"))
		Expect(body).To(ContainSubstring("password"))
		Expect(body).To(ContainSubstring("salary"))

		rec = do(http.MethodPost, "/hr/employees", map[string]interface{}{
			"email": "future@example.com", "password": "Secret123", "name": "Future Hire",
			"position": "Analyst", "hire_date": "2999-01-01",
		})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("hire_date"))
	})

	It("filters, searches and sorts the list", func() {
		create("zed@example.com", "Zed Stone", "Finance")
		create("amy@example.com", "Amy Park", "Sales")
		create("kim@example.com", "Kim Roe", "Finance")

		rec := do(http.MethodGet, "/hr/employees?department=Finance&sort_by=name&sort_order=asc", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var page pagination.Page[employee.View]
		Expect(json.Unmarshal(rec.Body.Bytes(), &page)).To(Succeed())
		Expect(page.Total).To(Equal(int64(2)))
		Expect(page.Items[0].Name).To(Equal("Kim Roe"))
		Expect(page.Items[1].Name).To(Equal("Zed Stone"))

		rec = do(http.MethodGet, "/hr/employees?search=AMY", nil)
		Expect(json.Unmarshal(rec.Body.Bytes(), &page)).To(Succeed())
		Expect(page.Items).To(HaveLen(1))
		Expect(page.Items[0].Email).To(Equal("amy@example.com"))

		rec = do(http.MethodGet, "/hr/employees?page=2&page_size=2&sort_by=name&sort_order=asc", nil)
		Expect(json.Unmarshal(rec.Body.Bytes(), &page)).To(Succeed())
		Expect(page.Total).To(Equal(int64(3)))
		Expect(page.Items).To(HaveLen(1))
		Expect(page.Items[0].Name).To(Equal("Zed Stone"))

		rec = do(http.MethodGet, "/hr/employees?sort_by=salary", nil)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("applies partial updates across both tables", func() {
		manager := create("boss@example.com", "Boss Person", "Finance")
		v := create("pat@example.com", "Pat Lee", "Finance")

		rec := do(http.MethodPut, "/hr/employees/"+v.ID.String(), map[string]interface{}{
			"department":        "Sales",
			"performance_score": 87,
			"manager_id":        manager.ID.String(),
		})
		Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
		var updated employee.View
		Expect(json.Unmarshal(rec.Body.Bytes(), &updated)).To(Succeed())
		Expect(*updated.Department).To(Equal("Sales"))
		Expect(*updated.PerformanceScore).To(Equal(87))
		Expect(*updated.ManagerID).To(Equal(manager.ID))
		Expect(updated.Name).To(Equal("Pat Lee"))
		Expect(updated.Position).To(Equal("Analyst"))

		rec = do(http.MethodPut, "/hr/employees/"+v.ID.String(), map[string]interface{}{"performance_score": 101})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))

		rec = do(http.MethodPut, "/hr/employees/"+v.ID.String(), map[string]interface{}{"manager_id": v.ID.String()})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("deactivates the employee and the login", func() {
		v := create("gone@example.com", "Gone Soon", "Ops")

		rec := do(http.MethodDelete, "/hr/employees/"+v.ID.String(), nil)
		Expect(rec.Code).To(Equal(http.StatusOK))

		var e employeeDatamodel.Employee
		Expect(db.Preload("User").First(&e, "id = ?", v.ID).Error).To(Succeed())
		Expect(e.Status).To(Equal("inactive"))
		Expect(e.User.IsActive).To(BeFalse())

		rec = do(http.MethodGet, "/hr/employees?status=inactive", nil)
		var page pagination.Page[employee.View]
		Expect(json.Unmarshal(rec.Body.Bytes(), &page)).To(Succeed())
		Expect(page.Items).To(HaveLen(1))
	})

	It("pages through a large roster with offset and limit", func() {
		for i := 1; i <= 95; i++ {
			_, err := testdb.CreateEmployee(db, testdb.UserOpts{Name: fmt.Sprintf("Person %02d", i)})
			Expect(err).NotTo(HaveOccurred())
		}

		repo := postgres.NewRepository(db)
		filter := employee.Filter{SortBy: employee.SortByName}
		items, total, err := repo.List(context.Background(), filter, pagination.Params{Page: 5, PageSize: 20})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(95)))
		Expect(items).To(HaveLen(15))
		Expect(items[0].Name).To(Equal("Person 81"))
		Expect(items[14].Name).To(Equal("Person 95"))
		Expect(pagination.TotalPages(total, 20)).To(Equal(5))

		items, _, err = repo.List(context.Background(), filter, pagination.Params{Page: 6, PageSize: 20})
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(BeEmpty())
	})

	It("returns 404 for unknown employees", func() {
		rec := do(http.MethodGet, "/hr/employees/7f0c1a52-8d8e-4c57-9a55-4f3f1d0c2b11", nil)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		rec = do(http.MethodDelete, "/hr/employees/7f0c1a52-8d8e-4c57-9a55-4f3f1d0c2b11", nil)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})
})
