package attendance

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/staffsync/staffsync-backend/internal"
	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
	attendanceDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/attendance"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusOnLeave Status = "on_leave"
)

var Statuses = []string{
	string(StatusPresent),
	string(StatusAbsent),
	string(StatusLate),
	string(StatusOnLeave),
}

func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPresent, StatusAbsent, StatusLate, StatusOnLeave:
		return Status(raw), nil
	default:
		return "", fmt.Errorf("unknown attendance status %q", raw)
	}
}

// Attended reports whether the day counts towards the attendance rate.
func (s Status) Attended() bool {
	return s == StatusPresent || s == StatusLate
}

var (
	ErrAlreadyCheckedIn  = internal.NewConflictError("Already checked in today", internal.ErrCodeAlreadyCheckedIn)
	ErrNotCheckedIn      = internal.NewValidationError("You have not checked in today", internal.ErrCodeNotCheckedIn)
	ErrAlreadyCheckedOut = internal.NewConflictError("Already checked out today", internal.ErrCodeAlreadyCheckedOut)
	ErrDuplicateDay      = internal.NewConflictError("Attendance for this date was recorded concurrently", internal.ErrCodeAttendanceConflict)
)

// EmployeeRef identifies the employee on HR listings.
type EmployeeRef struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Department *string   `json:"department"`
}

// Attendance is one employee-day. CheckIn and CheckOut are instants; Date is
// the calendar day as midnight UTC.
type Attendance struct {
	ID          uuid.UUID
	EmployeeID  uuid.UUID
	Date        time.Time
	CheckIn     *time.Time
	CheckOut    *time.Time
	HoursWorked decimal.NullDecimal
	Status      Status
	Notes       *string
	MarkedBy    *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Employee    *EmployeeRef
}

// Record is the JSON view of an Attendance rendered in the policy timezone.
type Record struct {
	ID          uuid.UUID    `json:"id"`
	EmployeeID  uuid.UUID    `json:"employee_id"`
	Employee    *EmployeeRef `json:"employee,omitempty"`
	Date        string       `json:"date"`
	CheckIn     *string      `json:"check_in"`
	CheckOut    *string      `json:"check_out"`
	HoursWorked *float64     `json:"hours_worked"`
	Status      Status       `json:"status"`
	Notes       *string      `json:"notes"`
	MarkedBy    *uuid.UUID   `json:"marked_by,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

func (a *Attendance) View(loc *time.Location) Record {
	rec := Record{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		Employee:   a.Employee,
		Date:       a.Date.Format(dates.DateLayout),
		Status:     a.Status,
		Notes:      a.Notes,
		MarkedBy:   a.MarkedBy,
		CreatedAt:  a.CreatedAt,
	}
	if a.CheckIn != nil {
		s := dates.FormatClock(a.CheckIn.In(loc))
		rec.CheckIn = &s
	}
	if a.CheckOut != nil {
		s := dates.FormatClock(a.CheckOut.In(loc))
		rec.CheckOut = &s
	}
	if a.HoursWorked.Valid {
		h := a.HoursWorked.Decimal.InexactFloat64()
		rec.HoursWorked = &h
	}
	return rec
}

func Views(items []Attendance, loc *time.Location) []Record {
	out := make([]Record, len(items))
	for i := range items {
		out[i] = items[i].View(loc)
	}
	return out
}

// Policy decides lateness. LateAfter is a wall-clock offset from midnight in
// Location; a check-in strictly after it is late.
type Policy struct {
	LateAfter time.Duration
	Location  *time.Location
}

func NewPolicy(cfg internal.AttendanceConfig) (Policy, error) {
	threshold := cfg.LateThreshold
	if threshold == "" {
		threshold = internal.DefaultLateThreshold
	}
	lateAfter, err := dates.ParseClock(threshold)
	if err != nil {
		return Policy{}, fmt.Errorf("attendance late threshold %q: %w", threshold, err)
	}
	tz := cfg.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Policy{}, fmt.Errorf("attendance timezone %q: %w", tz, err)
	}
	return Policy{LateAfter: lateAfter, Location: loc}, nil
}

// Today is the calendar date of now in the policy timezone.
func (p Policy) Today(now time.Time) time.Time {
	return dates.DateOf(now.In(p.Location))
}

func (p Policy) StatusAt(checkIn time.Time) Status {
	if dates.ClockOf(checkIn.In(p.Location)) > p.LateAfter {
		return StatusLate
	}
	return StatusPresent
}

// HoursBetween is the elapsed time in hours, rounded to two places.
func HoursBetween(checkIn, checkOut time.Time) decimal.Decimal {
	seconds := decimal.NewFromInt(int64(checkOut.Sub(checkIn) / time.Second))
	return seconds.Div(decimal.NewFromInt(3600)).Round(2)
}

// Rate is (present + late) / total as a percentage with one decimal, and 0
// when there is nothing to rate.
func Rate(present, late, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(present+late) * 100 / float64(total)
	return math.Round(pct*10) / 10
}

// Counts tallies records by status.
type Counts struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	OnLeave int `json:"on_leave"`
}

func (c *Counts) Add(s Status, n int) {
	switch s {
	case StatusPresent:
		c.Present += n
	case StatusAbsent:
		c.Absent += n
	case StatusLate:
		c.Late += n
	case StatusOnLeave:
		c.OnLeave += n
	}
}

func (c Counts) Total() int {
	return c.Present + c.Absent + c.Late + c.OnLeave
}

func (c Counts) Rate() float64 {
	return Rate(c.Present, c.Late, c.Total())
}

func CountStatuses(items []Attendance) Counts {
	var c Counts
	for _, a := range items {
		c.Add(a.Status, 1)
	}
	return c
}

// Summary is the personal attendance digest over a date window.
type Summary struct {
	TotalDays      int     `json:"total_days"`
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
	Late           int     `json:"late"`
	OnLeave        int     `json:"on_leave"`
	TotalHours     float64 `json:"total_hours"`
	AttendanceRate float64 `json:"attendance_rate"`
}

func Summarize(items []Attendance) Summary {
	c := CountStatuses(items)
	hours := decimal.Zero
	for _, a := range items {
		if a.HoursWorked.Valid {
			hours = hours.Add(a.HoursWorked.Decimal)
		}
	}
	return Summary{
		TotalDays:      len(items),
		Present:        c.Present,
		Absent:         c.Absent,
		Late:           c.Late,
		OnLeave:        c.OnLeave,
		TotalHours:     hours.Round(2).InexactFloat64(),
		AttendanceRate: Rate(c.Present, c.Late, len(items)),
	}
}

func ToDataModel(a *Attendance) *attendanceDatamodel.Attendance {
	return &attendanceDatamodel.Attendance{
		ID:          a.ID,
		EmployeeID:  a.EmployeeID,
		Date:        dates.DateOf(a.Date),
		CheckIn:     utc(a.CheckIn),
		CheckOut:    utc(a.CheckOut),
		HoursWorked: a.HoursWorked,
		Status:      string(a.Status),
		Notes:       a.Notes,
		MarkedBy:    a.MarkedBy,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func FromDataModel(m *attendanceDatamodel.Attendance) *Attendance {
	a := &Attendance{
		ID:          m.ID,
		EmployeeID:  m.EmployeeID,
		Date:        dates.DateOf(m.Date),
		CheckIn:     m.CheckIn,
		CheckOut:    m.CheckOut,
		HoursWorked: m.HoursWorked,
		Status:      Status(m.Status),
		Notes:       m.Notes,
		MarkedBy:    m.MarkedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Employee.ID != uuid.Nil {
		a.Employee = &EmployeeRef{
			ID:         m.Employee.ID,
			Name:       m.Employee.User.Name,
			Department: m.Employee.User.Department,
		}
	}
	return a
}

func FromDataModelSlice(rows []attendanceDatamodel.Attendance) []Attendance {
	out := make([]Attendance, len(rows))
	for i := range rows {
		out[i] = *FromDataModel(&rows[i])
	}
	return out
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
