package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var bus *EventBus

	BeforeEach(func() {
		bus = NewEventBus(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	})

	It("delivers published events to every subscriber", func() {
		var calls int32
		for i := 0; i < 3; i++ {
			bus.Subscribe(EventTypeLeaveReviewed, func(ctx context.Context, e Event) error {
				atomic.AddInt32(&calls, 1)
				return nil
			})
		}
		Expect(bus.HandlerCount(EventTypeLeaveReviewed)).To(Equal(3))

		evt := NewLeaveReviewedEvent(uuid.New(), uuid.New(), uuid.New(), "approved", 5)
		Expect(bus.Publish(context.Background(), evt)).To(Succeed())
		bus.Wait()

		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(3)))
	})

	It("keeps running other handlers when one panics", func() {
		var calls int32
		bus.Subscribe(EventTypeEmployeeJoined, func(ctx context.Context, e Event) error {
			panic("boom")
		})
		bus.Subscribe(EventTypeEmployeeJoined, func(ctx context.Context, e Event) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})

		evt := NewEmployeeJoinedEvent(uuid.New(), uuid.New(), "EMP-20240101-0001", "Engineering")
		Expect(bus.Publish(context.Background(), evt)).To(Succeed())
		bus.Wait()

		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(1)))
	})

	It("returns handler errors from PublishSync", func() {
		bus.Subscribe(EventTypeAttendanceCheckedIn, func(ctx context.Context, e Event) error {
			return errors.New("handler failed")
		})

		err := bus.PublishSync(context.Background(), NewAttendanceCheckedInEvent(uuid.New(), "late", evtTime()))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring(EventTypeAttendanceCheckedIn))
	})

	It("is a no-op without subscribers", func() {
		Expect(bus.Publish(context.Background(), BaseEvent{ID: "1", Type: "unknown"})).To(Succeed())
		Expect(bus.PublishSync(context.Background(), BaseEvent{ID: "2", Type: "unknown"})).To(Succeed())
	})

	It("carries the payload on the event", func() {
		id := uuid.New()
		evt := NewLeaveReviewedEvent(uuid.New(), id, uuid.New(), "rejected", 2)
		payload, ok := evt.Payload().(map[string]interface{})
		Expect(ok).To(BeTrue())
		Expect(payload["employee_id"]).To(Equal(id.String()))
		Expect(payload["status"]).To(Equal("rejected"))
	})

	It("registers the audit log for every HR event type", func() {
		var buf bytes.Buffer
		RegisterAuditLog(bus, slog.New(slog.NewTextHandler(&buf, nil)))
		for _, t := range HREventTypes {
			Expect(bus.HandlerCount(t)).To(Equal(1))
		}

		Expect(bus.PublishSync(context.Background(), NewAttendanceCheckedInEvent(uuid.New(), "late", evtTime()))).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("event_type=attendance.checked_in"))
	})
})

func evtTime() time.Time {
	return time.Date(2024, 1, 2, 9, 45, 0, 0, time.UTC)
}
