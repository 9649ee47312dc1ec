package postgres_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	userDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/user"
	"github.com/staffsync/staffsync-backend/internal/core/testdb"
	"github.com/staffsync/staffsync-backend/internal/notification"
	"github.com/staffsync/staffsync-backend/internal/notification/postgres"
)

func TestNotificationRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Suite")
}

// The service runs against the real repository on SQLite so the
// addressed-to predicate is exercised end to end.
var _ = Describe("Notification service and repository", func() {
	var (
		db      *gorm.DB
		svc     *notification.Service
		ctx     context.Context
		hr      *userDatamodel.User
		alice   *userDatamodel.User
		bob     *userDatamodel.User
		aliceID string
	)

	BeforeEach(func() {
		var err error
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		svc = notification.NewService(postgres.NewRepository(db), slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctx = context.Background()

		hr, err = testdb.CreateUser(db, testdb.UserOpts{Name: "Hana", Role: "HR_ADMINISTRATOR"})
		Expect(err).NotTo(HaveOccurred())
		alice, err = testdb.CreateUser(db, testdb.UserOpts{Name: "Alice"})
		Expect(err).NotTo(HaveOccurred())
		bob, err = testdb.CreateUser(db, testdb.UserOpts{Name: "Bob"})
		Expect(err).NotTo(HaveOccurred())
		aliceID = alice.ID.String()
	})

	send := func(recipient *string, title string) *notification.View {
		v, err := svc.Send(ctx, hr.ID, notification.SendDTO{RecipientID: recipient, Title: title, Message: "body", Type: "info"})
		Expect(err).NotTo(HaveOccurred())
		return v
	}

	It("delivers targeted notifications only to their recipient and broadcasts to everyone", func() {
		send(&aliceID, "For Alice")
		send(nil, "For everyone")

		inbox, err := svc.Inbox(ctx, alice.ID, false, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(inbox.Total).To(Equal(2))
		Expect(inbox.UnreadCount).To(Equal(int64(2)))
		Expect(inbox.Notifications[0].SenderName).To(Equal("Hana"))

		inbox, err = svc.Inbox(ctx, bob.ID, false, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(inbox.Total).To(Equal(1))
		Expect(inbox.Notifications[0].Title).To(Equal("For everyone"))
	})

	It("refuses to mark someone else's notification", func() {
		v := send(&aliceID, "Private")
		err := svc.MarkRead(ctx, bob.ID, v.ID)
		Expect(errors.Is(err, notification.ErrNotificationAccess)).To(BeTrue())

		Expect(svc.MarkRead(ctx, alice.ID, v.ID)).To(Succeed())
		inbox, err := svc.Inbox(ctx, alice.ID, true, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(inbox.Notifications).To(BeEmpty())
		Expect(inbox.UnreadCount).To(BeZero())
	})

	It("reports unknown notifications as not found", func() {
		err := svc.MarkRead(ctx, alice.ID, uuid.New())
		Expect(errors.Is(err, notification.ErrNotificationNotFound)).To(BeTrue())
	})

	It("marks every addressed unread notification in one batch", func() {
		send(&aliceID, "one")
		send(&aliceID, "two")
		send(nil, "three")
		bobID := bob.ID.String()
		send(&bobID, "not alice")

		updated, err := svc.MarkAllRead(ctx, alice.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(updated).To(Equal(int64(3)))

		inbox, err := svc.Inbox(ctx, bob.ID, true, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(inbox.UnreadCount).To(Equal(int64(1)))

		inbox, err = svc.Inbox(ctx, alice.ID, false, 10)
		Expect(err).NotTo(HaveOccurred())
		for _, n := range inbox.Notifications {
			Expect(n.IsRead).To(BeTrue())
			Expect(n.ReadAt).NotTo(BeNil())
		}
	})

	It("labels recipients in the outbox", func() {
		send(&aliceID, "targeted")
		send(nil, "broadcast")

		outbox, err := svc.Sent(ctx, hr.ID, 20)
		Expect(err).NotTo(HaveOccurred())
		Expect(outbox.Total).To(Equal(2))
		names := []string{outbox.Notifications[0].RecipientName, outbox.Notifications[1].RecipientName}
		Expect(names).To(ConsistOf("Alice", "All Employees"))
	})

	It("only targets employee accounts", func() {
		hrID := hr.ID.String()
		_, err := svc.Send(ctx, hr.ID, notification.SendDTO{RecipientID: &hrID, Title: "x", Message: "y"})
		Expect(errors.Is(err, notification.ErrRecipientNotFound)).To(BeTrue())

		bad := "nope"
		_, err = svc.Send(ctx, hr.ID, notification.SendDTO{RecipientID: &bad, Title: "x", Message: "y"})
		Expect(err).To(HaveOccurred())
	})
})
