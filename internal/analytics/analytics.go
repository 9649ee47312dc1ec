// Package analytics folds attendance and leave records into the HR analytics
// report.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/staffsync/staffsync-backend/internal/attendance"
	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
	"github.com/staffsync/staffsync-backend/internal/leave"
)

const (
	topPerformerLimit = 10
	issueThreshold    = 80.0

	DefaultPeakCheckIn  = "09:00:00"
	DefaultPeakCheckOut = "18:00:00"

	unassignedDepartment = "Unassigned"
)

type TrendPoint struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

type DepartmentRate struct {
	Department     string  `json:"department"`
	AttendanceRate float64 `json:"attendance_rate"`
	TotalRecords   int     `json:"total_records"`
}

type Performer struct {
	EmployeeID     uuid.UUID `json:"employee_id"`
	Name           string    `json:"name"`
	AttendanceRate float64   `json:"attendance_rate"`
	TotalDays      int       `json:"total_days"`
}

type Issue struct {
	EmployeeID     uuid.UUID `json:"employee_id"`
	Name           string    `json:"name"`
	AttendanceRate float64   `json:"attendance_rate"`
	AbsentDays     int       `json:"absent_days"`
	LateDays       int       `json:"late_days"`
}

type LeavePatterns struct {
	SickLeave int `json:"sick_leave"`
	Vacation  int `json:"vacation"`
	Personal  int `json:"personal"`
	Other     int `json:"other"`
}

func (p *LeavePatterns) Add(t leave.Type, n int) {
	switch t {
	case leave.TypeSick:
		p.SickLeave += n
	case leave.TypeVacation:
		p.Vacation += n
	case leave.TypePersonal:
		p.Personal += n
	case leave.TypeOther:
		p.Other += n
	}
}

type PeakHours struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

type Report struct {
	StartDate               string           `json:"start_date"`
	EndDate                 string           `json:"end_date"`
	Department              *string          `json:"department"`
	AttendanceTrends        []TrendPoint     `json:"attendance_trends"`
	DepartmentComparison    []DepartmentRate `json:"department_comparison"`
	TopPerformers           []Performer      `json:"top_performers"`
	AttendanceIssues        []Issue          `json:"attendance_issues"`
	LeavePatterns           LeavePatterns    `json:"leave_patterns"`
	AverageHoursPerEmployee float64          `json:"average_hours_per_employee"`
	PeakHours               PeakHours        `json:"peak_hours"`
}

type Input struct {
	Range      dates.Range
	Department string
	Records    []attendance.Attendance
	// Comparison feeds the department comparison. It spans every
	// department in the range; nil means Records.
	Comparison []attendance.Attendance
	Leaves     LeavePatterns
	// Location renders check-in/out instants as wall-clock times.
	Location *time.Location
}

type employeeStats struct {
	id     uuid.UUID
	name   string
	counts attendance.Counts
}

// Build computes every section of the report in a single pass over the
// records, plus one pass over the comparison set. Employees keep the order in which they first appear, which makes
// the top-performer ranking stable for equal rates.
func Build(in Input) *Report {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	byDay := map[time.Time]*attendance.Counts{}
	byDept := map[string]*attendance.Counts{}
	byEmployee := map[uuid.UUID]*employeeStats{}
	var order []uuid.UUID
	hours := decimal.Zero
	checkIns := newModeCounter()
	checkOuts := newModeCounter()

	for _, a := range in.Records {
		day := dates.DateOf(a.Date)
		if byDay[day] == nil {
			byDay[day] = &attendance.Counts{}
		}
		byDay[day].Add(a.Status, 1)

		st, ok := byEmployee[a.EmployeeID]
		if !ok {
			st = &employeeStats{id: a.EmployeeID}
			if a.Employee != nil {
				st.name = a.Employee.Name
			}
			byEmployee[a.EmployeeID] = st
			order = append(order, a.EmployeeID)
		}
		st.counts.Add(a.Status, 1)

		if a.HoursWorked.Valid {
			hours = hours.Add(a.HoursWorked.Decimal)
		}
		if a.CheckIn != nil {
			checkIns.add(dates.FormatClock(a.CheckIn.In(loc)))
		}
		if a.CheckOut != nil {
			checkOuts.add(dates.FormatClock(a.CheckOut.In(loc)))
		}
	}

	comparison := in.Comparison
	if comparison == nil {
		comparison = in.Records
	}
	for _, a := range comparison {
		dept := departmentOf(a)
		if byDept[dept] == nil {
			byDept[dept] = &attendance.Counts{}
		}
		byDept[dept].Add(a.Status, 1)
	}

	rep := &Report{
		StartDate:            in.Range.Start.Format(dates.DateLayout),
		EndDate:              in.Range.End.Format(dates.DateLayout),
		AttendanceTrends:     make([]TrendPoint, 0),
		DepartmentComparison: make([]DepartmentRate, 0, len(byDept)),
		TopPerformers:        make([]Performer, 0),
		AttendanceIssues:     make([]Issue, 0),
		LeavePatterns:        in.Leaves,
		PeakHours: PeakHours{
			CheckIn:  checkIns.mode(DefaultPeakCheckIn),
			CheckOut: checkOuts.mode(DefaultPeakCheckOut),
		},
	}
	if in.Department != "" {
		dept := in.Department
		rep.Department = &dept
	}

	for _, day := range in.Range.Days() {
		var rate float64
		if c := byDay[day]; c != nil {
			rate = c.Rate()
		}
		rep.AttendanceTrends = append(rep.AttendanceTrends, TrendPoint{Date: day.Format(dates.DateLayout), Rate: rate})
	}

	for dept, c := range byDept {
		rep.DepartmentComparison = append(rep.DepartmentComparison, DepartmentRate{
			Department:     dept,
			AttendanceRate: c.Rate(),
			TotalRecords:   c.Total(),
		})
	}
	sort.Slice(rep.DepartmentComparison, func(i, j int) bool {
		return rep.DepartmentComparison[i].Department < rep.DepartmentComparison[j].Department
	})

	performers := make([]Performer, 0, len(order))
	for _, id := range order {
		st := byEmployee[id]
		rate := st.counts.Rate()
		performers = append(performers, Performer{
			EmployeeID:     id,
			Name:           st.name,
			AttendanceRate: rate,
			TotalDays:      st.counts.Total(),
		})
		if rate < issueThreshold {
			rep.AttendanceIssues = append(rep.AttendanceIssues, Issue{
				EmployeeID:     id,
				Name:           st.name,
				AttendanceRate: rate,
				AbsentDays:     st.counts.Total() - st.counts.Present - st.counts.Late,
				LateDays:       st.counts.Late,
			})
		}
	}
	sort.SliceStable(performers, func(i, j int) bool {
		return performers[i].AttendanceRate > performers[j].AttendanceRate
	})
	if len(performers) > topPerformerLimit {
		performers = performers[:topPerformerLimit]
	}
	rep.TopPerformers = performers

	if len(order) > 0 {
		avg := hours.InexactFloat64() / float64(len(order))
		rep.AverageHoursPerEmployee = math.Round(avg*10) / 10
	}
	return rep
}

func departmentOf(a attendance.Attendance) string {
	if a.Employee != nil && a.Employee.Department != nil && *a.Employee.Department != "" {
		return *a.Employee.Department
	}
	return unassignedDepartment
}

// modeCounter finds the most frequent clock value; ties go to the earliest
// time of day.
type modeCounter struct {
	counts map[string]int
}

func newModeCounter() *modeCounter {
	return &modeCounter{counts: map[string]int{}}
}

func (m *modeCounter) add(clock string) {
	m.counts[clock]++
}

func (m *modeCounter) mode(fallback string) string {
	best, bestCount := "", 0
	for clock, n := range m.counts {
		if n > bestCount || (n == bestCount && clock < best) {
			best, bestCount = clock, n
		}
	}
	if bestCount == 0 {
		return fallback
	}
	return best
}
