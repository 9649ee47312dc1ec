package leave

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/staffsync/staffsync-backend/internal"
	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
	leaveDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/leave"
)

type Type string

const (
	TypeSick     Type = "sick"
	TypeVacation Type = "vacation"
	TypePersonal Type = "personal"
	TypeOther    Type = "other"
)

var Types = []string{string(TypeSick), string(TypeVacation), string(TypePersonal), string(TypeOther)}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var Statuses = []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}

var (
	ErrLeaveNotFound      = internal.NewNotFoundError("Leave request not found", internal.ErrCodeLeaveNotFound)
	ErrInvalidLeaveStatus = internal.NewValidationError("Status must be 'approved' or 'rejected'", internal.ErrCodeInvalidLeaveStatus)
)

type Request struct {
	ID                 uuid.UUID
	EmployeeID         uuid.UUID
	EmployeeUserID     uuid.UUID
	EmployeeName       string
	EmployeeDepartment *string
	Type               Type
	StartDate          time.Time
	EndDate            time.Time
	Days               int
	Reason             string
	Status             Status
	ReviewedBy         *uuid.UUID
	ReviewerName       *string
	ReviewedAt         *time.Time
	Notes              *string
	SubmittedAt        time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type View struct {
	ID                 uuid.UUID  `json:"id"`
	EmployeeID         uuid.UUID  `json:"employee_id"`
	EmployeeName       string     `json:"employee_name,omitempty"`
	EmployeeDepartment *string    `json:"employee_department,omitempty"`
	LeaveType          Type       `json:"leave_type"`
	StartDate          string     `json:"start_date"`
	EndDate            string     `json:"end_date"`
	Days               int        `json:"days"`
	Reason             string     `json:"reason"`
	Status             Status     `json:"status"`
	SubmittedAt        time.Time  `json:"submitted_at"`
	ReviewedAt         *time.Time `json:"reviewed_at"`
	ReviewedBy         *string    `json:"reviewed_by"`
	Notes              *string    `json:"notes"`
}

func (r *Request) ToView() View {
	return View{
		ID:                 r.ID,
		EmployeeID:         r.EmployeeID,
		EmployeeName:       r.EmployeeName,
		EmployeeDepartment: r.EmployeeDepartment,
		LeaveType:          r.Type,
		StartDate:          r.StartDate.Format(dates.DateLayout),
		EndDate:            r.EndDate.Format(dates.DateLayout),
		Days:               r.Days,
		Reason:             r.Reason,
		Status:             r.Status,
		SubmittedAt:        r.SubmittedAt,
		ReviewedAt:         r.ReviewedAt,
		ReviewedBy:         r.ReviewerName,
		Notes:              r.Notes,
	}
}

func ToViews(items []Request) []View {
	out := make([]View, len(items))
	for i := range items {
		out[i] = items[i].ToView()
	}
	return out
}

// DaysBetween counts the inclusive days of a leave. An end before the start
// is rejected.
func DaysBetween(start, end time.Time) (int, error) {
	if dates.DateOf(end).Before(dates.DateOf(start)) {
		return 0, internal.ErrInvalidDateRange
	}
	return dates.DaysInclusive(start, end), nil
}

type Summary struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

func (s *Summary) Add(status Status, n int64) {
	switch status {
	case StatusPending:
		s.Pending += n
	case StatusApproved:
		s.Approved += n
	case StatusRejected:
		s.Rejected += n
	}
	s.Total += n
}

// Notice is the notification the employee receives when a request is reviewed.
type Notice struct {
	Title   string
	Message string
	Type    string
}

func ReviewNotice(r *Request) Notice {
	n := Notice{
		Title: fmt.Sprintf("Leave Request %s", titleCase(string(r.Status))),
		Message: fmt.Sprintf("Your leave request from %s to %s has been %s.",
			r.StartDate.Format(dates.DateLayout), r.EndDate.Format(dates.DateLayout), r.Status),
		Type: "warning",
	}
	if r.Status == StatusApproved {
		n.Type = "success"
	}
	return n
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func ToDataModel(r *Request) *leaveDatamodel.LeaveRequest {
	return &leaveDatamodel.LeaveRequest{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		Type:        string(r.Type),
		StartDate:   dates.DateOf(r.StartDate),
		EndDate:     dates.DateOf(r.EndDate),
		Days:        r.Days,
		Reason:      r.Reason,
		Status:      string(r.Status),
		ReviewedBy:  r.ReviewedBy,
		ReviewedAt:  r.ReviewedAt,
		Notes:       r.Notes,
		SubmittedAt: r.SubmittedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func FromDataModel(m *leaveDatamodel.LeaveRequest) *Request {
	r := &Request{
		ID:          m.ID,
		EmployeeID:  m.EmployeeID,
		Type:        Type(m.Type),
		StartDate:   dates.DateOf(m.StartDate),
		EndDate:     dates.DateOf(m.EndDate),
		Days:        m.Days,
		Reason:      m.Reason,
		Status:      Status(m.Status),
		ReviewedBy:  m.ReviewedBy,
		ReviewedAt:  m.ReviewedAt,
		Notes:       m.Notes,
		SubmittedAt: m.SubmittedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Employee.ID != uuid.Nil {
		r.EmployeeUserID = m.Employee.UserID
		r.EmployeeName = m.Employee.User.Name
		r.EmployeeDepartment = m.Employee.User.Department
	}
	if m.Reviewer != nil {
		name := m.Reviewer.Name
		r.ReviewerName = &name
	}
	return r
}

func FromDataModelSlice(rows []leaveDatamodel.LeaveRequest) []Request {
	out := make([]Request, len(rows))
	for i := range rows {
		out[i] = *FromDataModel(&rows[i])
	}
	return out
}
