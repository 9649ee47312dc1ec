package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeEmployeeJoined      = "employee.joined"
	EventTypeAttendanceCheckedIn = "attendance.checked_in"
	EventTypeLeaveReviewed       = "leave.reviewed"
)

type EmployeeJoinedEvent struct {
	BaseEvent
	UserID       uuid.UUID `json:"user_id"`
	EmployeeID   uuid.UUID `json:"employee_id"`
	EmployeeCode string    `json:"employee_code"`
	Department   string    `json:"department"`
}

func NewEmployeeJoinedEvent(userID, employeeID uuid.UUID, employeeCode, department string) *EmployeeJoinedEvent {
	return &EmployeeJoinedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeEmployeeJoined,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":       userID.String(),
				"employee_id":   employeeID.String(),
				"employee_code": employeeCode,
				"department":    department,
			},
		},
		UserID:       userID,
		EmployeeID:   employeeID,
		EmployeeCode: employeeCode,
		Department:   department,
	}
}

type AttendanceCheckedInEvent struct {
	BaseEvent
	EmployeeID uuid.UUID `json:"employee_id"`
	Status     string    `json:"status"`
}

func NewAttendanceCheckedInEvent(employeeID uuid.UUID, status string, at time.Time) *AttendanceCheckedInEvent {
	return &AttendanceCheckedInEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAttendanceCheckedIn,
			Timestamp: at,
			Data: map[string]interface{}{
				"employee_id": employeeID.String(),
				"status":      status,
			},
		},
		EmployeeID: employeeID,
		Status:     status,
	}
}

type LeaveReviewedEvent struct {
	BaseEvent
	LeaveRequestID uuid.UUID `json:"leave_request_id"`
	EmployeeID     uuid.UUID `json:"employee_id"`
	ReviewerID     uuid.UUID `json:"reviewer_id"`
	Status         string    `json:"status"`
	Days           int       `json:"days"`
}

func NewLeaveReviewedEvent(requestID, employeeID, reviewerID uuid.UUID, status string, days int) *LeaveReviewedEvent {
	return &LeaveReviewedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveReviewed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"leave_request_id": requestID.String(),
				"employee_id":      employeeID.String(),
				"reviewer_id":      reviewerID.String(),
				"status":           status,
				"days":             days,
			},
		},
		LeaveRequestID: requestID,
		EmployeeID:     employeeID,
		ReviewerID:     reviewerID,
		Status:         status,
		Days:           days,
	}
}

// HREventTypes lists every domain event the services publish.
var HREventTypes = []string{
	EventTypeEmployeeJoined,
	EventTypeAttendanceCheckedIn,
	EventTypeLeaveReviewed,
}

// RegisterAuditLog logs every HR event at info level.
func RegisterAuditLog(bus *EventBus, logger *slog.Logger) {
	for _, t := range HREventTypes {
		bus.Subscribe(t, func(ctx context.Context, e Event) error {
			logger.InfoContext(ctx, "hr event",
				"event_type", e.EventType(),
				"event_id", e.EventID(),
				"occurred_at", e.OccurredAt(),
				"payload", e.Payload())
			return nil
		})
	}
}
