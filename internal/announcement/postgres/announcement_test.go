package postgres_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/staffsync/staffsync-backend/internal/announcement"
	"github.com/staffsync/staffsync-backend/internal/announcement/postgres"
	"github.com/staffsync/staffsync-backend/internal/core/common/pagination"
	userDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/user"
	"github.com/staffsync/staffsync-backend/internal/core/testdb"
	coreuser "github.com/staffsync/staffsync-backend/internal/core/user"
)

func TestAnnouncementRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Announcement Suite")
}

var _ = Describe("Announcements", func() {
	var (
		repo announcement.RepositoryAPI
		svc  *announcement.Service
		ctx  context.Context
		hr   *userDatamodel.User
		base time.Time
	)

	BeforeEach(func() {
		db, err := testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		repo = postgres.NewRepository(db)
		svc = announcement.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctx = context.Background()
		base = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

		hr, err = testdb.CreateUser(db, testdb.UserOpts{Name: "Hana", Role: "HR_ADMINISTRATOR"})
		Expect(err).NotTo(HaveOccurred())
	})

	seed := func(title string, audience announcement.Audience, offset time.Duration) {
		a := &announcement.Announcement{
			CreatedBy:      hr.ID,
			Title:          title,
			Content:        "content",
			Priority:       announcement.PriorityNormal,
			TargetAudience: audience,
			CreatedAt:      base.Add(offset),
		}
		Expect(repo.Create(ctx, a)).To(Succeed())
	}

	It("shows employees only all and employees audiences, newest first", func() {
		seed("everyone", announcement.AudienceAll, time.Hour)
		seed("hr only", announcement.AudienceHR, 2*time.Hour)
		seed("staff", announcement.AudienceEmployees, 3*time.Hour)

		page, err := svc.ListForEmployees(ctx, pagination.Params{Page: 1, PageSize: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(page.Total).To(Equal(int64(2)))
		Expect(page.Items[0].Title).To(Equal("staff"))
		Expect(page.Items[1].Title).To(Equal("everyone"))
		Expect(page.Items[0].CreatedBy).To(Equal("Hana"))

		all, err := svc.ListAll(ctx, pagination.Params{Page: 1, PageSize: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(all.Total).To(Equal(int64(3)))
		Expect(all.Items[0].Title).To(Equal("staff"))
	})

	It("pages employee announcements", func() {
		for i := 0; i < 12; i++ {
			seed("note", announcement.AudienceAll, time.Duration(i)*time.Minute)
		}
		page, err := svc.ListForEmployees(ctx, pagination.Params{Page: 2, PageSize: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(page.Items).To(HaveLen(2))
		Expect(page.TotalPages).To(Equal(2))
	})

	It("shortens content in dashboard previews", func() {
		long := strings.Repeat("a", 250)
		_, err := svc.Create(ctx, hr.ID, hr.Name, announcement.CreateDTO{Title: "Long one", Content: long, TargetAudience: "employees"})
		Expect(err).NotTo(HaveOccurred())

		previews, err := svc.Recent(ctx, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(previews).To(HaveLen(1))
		Expect(previews[0].Content).To(Equal(strings.Repeat("a", 200) + "..."))
		Expect(previews[0].Priority).To(Equal(announcement.PriorityNormal))
	})

	It("creates announcements over HTTP with defaults and rejects bad enums", func() {
		h := announcement.NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
		post := func(body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/hr/announcements", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(coreuser.NewContext(req.Context(), &coreuser.Principal{UserID: hr.ID, Name: hr.Name, Role: coreuser.RoleHRAdministrator}))
			rec := httptest.NewRecorder()
			h.Create(rec, req)
			return rec
		}

		rec := post(`{"title":"Town hall","content":"Friday at 4pm"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		var v announcement.View
		Expect(json.Unmarshal(rec.Body.Bytes(), &v)).To(Succeed())
		Expect(v.Priority).To(Equal(announcement.PriorityNormal))
		Expect(v.TargetAudience).To(Equal(announcement.AudienceAll))
		Expect(v.CreatedBy).To(Equal("Hana"))

		rec = post(`{"title":"Town hall","content":"x","priority":"critical"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("INVALID_ENUM"))
	})
})
