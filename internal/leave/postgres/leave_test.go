package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/staffsync/staffsync-backend/internal/core/common/pagination"
	employeeDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/employee"
	notificationDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/notification"
	userDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/user"
	"github.com/staffsync/staffsync-backend/internal/core/testdb"
	"github.com/staffsync/staffsync-backend/internal/leave"
	"github.com/staffsync/staffsync-backend/internal/leave/postgres"
)

func TestLeaveRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Leave Repository Suite")
}

var _ = Describe("Leave Repository", func() {
	var (
		db       *gorm.DB
		repo     leave.RepositoryAPI
		ctx      context.Context
		emp      *employeeDatamodel.Employee
		reviewer *userDatamodel.User
	)

	BeforeEach(func() {
		var err error
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		repo = postgres.NewRepository(db)
		ctx = context.Background()

		emp, err = testdb.CreateEmployee(db, testdb.UserOpts{Name: "Erin", Department: "Engineering"})
		Expect(err).NotTo(HaveOccurred())
		reviewer, err = testdb.CreateUser(db, testdb.UserOpts{Name: "Hana", Role: "HR_ADMINISTRATOR"})
		Expect(err).NotTo(HaveOccurred())
	})

	create := func(start, end time.Time) *leave.Request {
		days, err := leave.DaysBetween(start, end)
		Expect(err).NotTo(HaveOccurred())
		r := &leave.Request{
			EmployeeID:  emp.ID,
			Type:        leave.TypeVacation,
			StartDate:   start,
			EndDate:     end,
			Days:        days,
			Reason:      "Holiday",
			Status:      leave.StatusPending,
			SubmittedAt: time.Now().UTC(),
		}
		Expect(repo.Create(ctx, r)).To(Succeed())
		return r
	}

	approve := func(status leave.Status) leave.ReviewFunc {
		return func(r *leave.Request) error {
			at := time.Now().UTC()
			r.Status = status
			r.ReviewedBy = &reviewer.ID
			r.ReviewedAt = &at
			return nil
		}
	}

	It("approves a five day request and notifies the employee once", func() {
		r := create(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC))
		Expect(r.Days).To(Equal(5))

		reviewed, err := repo.Review(ctx, r.ID, approve(leave.StatusApproved))
		Expect(err).NotTo(HaveOccurred())
		Expect(reviewed.Status).To(Equal(leave.StatusApproved))
		Expect(reviewed.EmployeeName).To(Equal("Erin"))

		var notes []notificationDatamodel.Notification
		Expect(db.Where("recipient_id = ?", emp.UserID).Find(&notes).Error).To(Succeed())
		Expect(notes).To(HaveLen(1))
		Expect(notes[0].Type).To(Equal("success"))
		Expect(notes[0].Message).To(ContainSubstring("2024-01-08 to 2024-01-12"))
		Expect(*notes[0].SenderID).To(Equal(reviewer.ID))

		mine, err := repo.ListByEmployee(ctx, emp.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(mine).To(HaveLen(1))
		Expect(mine[0].Status).To(Equal(leave.StatusApproved))
		Expect(*mine[0].ReviewerName).To(Equal("Hana"))
	})

	It("returns not found for unknown requests", func() {
		_, err := repo.Review(ctx, uuid.New(), approve(leave.StatusApproved))
		Expect(errors.Is(err, leave.ErrLeaveNotFound)).To(BeTrue())
	})

	It("lists with employee details and counts by status", func() {
		day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
		a := create(day, day)
		create(day, day.AddDate(0, 0, 1))
		create(day, day.AddDate(0, 0, 2))
		_, err := repo.Review(ctx, a.ID, approve(leave.StatusRejected))
		Expect(err).NotTo(HaveOccurred())

		items, total, err := repo.List(ctx, leave.StatusPending, pagination.Params{Page: 1, PageSize: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(2)))
		Expect(items).To(HaveLen(2))
		Expect(items[0].EmployeeName).To(Equal("Erin"))
		Expect(*items[0].EmployeeDepartment).To(Equal("Engineering"))

		summary, err := repo.CountByStatus(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(summary).To(Equal(leave.Summary{Total: 3, Pending: 2, Rejected: 1}))
	})
})
