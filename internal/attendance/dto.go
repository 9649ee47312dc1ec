package attendance

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/staffsync/staffsync-backend/internal"
	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
	"github.com/staffsync/staffsync-backend/internal/core/common/validation"
)

// MarkDTO is the HR manual-mark payload.
type MarkDTO struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	CheckIn    *string `json:"check_in"`
	CheckOut   *string `json:"check_out"`
	Status     string  `json:"status"`
	Notes      *string `json:"notes"`
}

func (d MarkDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("employee_id", d.EmployeeID).Required().UUID()
	v.Field("date", d.Date).Required().Date()
	v.Field("check_in", d.CheckIn).Clock()
	v.Field("check_out", d.CheckOut).Clock()
	v.Field("status", d.Status).Required().OneOf(Statuses...)
	v.Field("notes", d.Notes).MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Mark is a validated MarkDTO resolved against the policy timezone.
type Mark struct {
	EmployeeID uuid.UUID
	Date       time.Time
	CheckIn    *time.Time
	CheckOut   *time.Time
	Status     Status
	Notes      *string
}

func (d MarkDTO) Resolve(loc *time.Location) (*Mark, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	m := &Mark{Status: Status(d.Status), Notes: trimmed(d.Notes)}
	m.EmployeeID, _ = uuid.Parse(d.EmployeeID)
	m.Date, _ = dates.ParseDate(d.Date)

	at := func(raw *string) *time.Time {
		if raw == nil || strings.TrimSpace(*raw) == "" {
			return nil
		}
		clock, _ := dates.ParseClock(strings.TrimSpace(*raw))
		t := dates.At(m.Date, clock, loc)
		return &t
	}
	m.CheckIn = at(d.CheckIn)
	m.CheckOut = at(d.CheckOut)

	if m.CheckIn != nil && m.CheckOut != nil && !m.CheckOut.After(*m.CheckIn) {
		return nil, internal.NewValidationFieldError("check_out", "Check-out time must be after check-in time", internal.ErrCodeInvalidTime)
	}
	return m, nil
}

// Filter narrows HR attendance listings.
type Filter struct {
	EmployeeID *uuid.UUID
	Department string
	Status     Status
	Range      dates.Range
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
