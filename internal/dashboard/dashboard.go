// Package dashboard assembles the HR and employee landing pages from the
// other domains' read models.
package dashboard

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/staffsync/staffsync-backend/internal/announcement"
	"github.com/staffsync/staffsync-backend/internal/attendance"
	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
	"github.com/staffsync/staffsync-backend/internal/task"
)

const (
	trendMonths          = 6
	recentAnnouncements  = 5
	hrRecentActivities   = 10
	tasksPerGoal         = 5
	employeeFeedWindow   = 7 * 24 * time.Hour
	attendanceFeedWindow = 24 * time.Hour
	leaveFeedWindow      = 7 * 24 * time.Hour
)

type ActivityKind string

const (
	ActivityEmployeeCreated ActivityKind = "employee_created"
	ActivityClockIn         ActivityKind = "clock_in"
	ActivityClockOut        ActivityKind = "clock_out"
	ActivityLeaveRequest    ActivityKind = "leave_request"
)

// ActivityRow is one raw feed entry as read from the store.
type ActivityRow struct {
	Kind         ActivityKind
	RefID        string
	EmployeeName string
	OccurredAt   time.Time
	ClockAt      *time.Time
	LeaveType    string
	StartDate    *time.Time
	EndDate      *time.Time
}

// ActivityQuery bounds each source of the feed.
type ActivityQuery struct {
	EmployeesSince  time.Time
	AttendanceSince time.Time
	LeaveSince      time.Time
	Limit           int
}

func NewActivityQuery(now time.Time, limit int) ActivityQuery {
	now = now.UTC()
	return ActivityQuery{
		EmployeesSince:  now.Add(-employeeFeedWindow),
		AttendanceSince: now.Add(-attendanceFeedWindow),
		LeaveSince:      now.Add(-leaveFeedWindow),
		Limit:           limit,
	}
}

type Activity struct {
	ID           string       `json:"id"`
	Type         ActivityKind `json:"type"`
	Message      string       `json:"message"`
	Time         string       `json:"time"`
	Timestamp    time.Time    `json:"timestamp"`
	EmployeeName string       `json:"employee_name"`
	ClockTime    string       `json:"clock_time,omitempty"`
	LeaveType    string       `json:"leave_type,omitempty"`
	DateRange    string       `json:"date_range,omitempty"`
}

type ActivityFeed struct {
	Activities []Activity `json:"activities"`
	Total      int        `json:"total"`
}

// BuildActivities renders rows newest first, keeping at most limit entries.
// Clock times are shown in loc.
func BuildActivities(rows []ActivityRow, now time.Time, loc *time.Location, limit int) []Activity {
	sorted := make([]ActivityRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.After(sorted[j].OccurredAt)
	})

	out := make([]Activity, 0, len(sorted))
	for _, row := range sorted {
		a := Activity{
			Type:         row.Kind,
			Time:         RelativeTime(now, row.OccurredAt),
			Timestamp:    row.OccurredAt,
			EmployeeName: row.EmployeeName,
		}
		switch row.Kind {
		case ActivityEmployeeCreated:
			a.ID = "emp_" + row.RefID
			a.Message = fmt.Sprintf("New employee %s was added", row.EmployeeName)
		case ActivityClockIn, ActivityClockOut:
			verb, prefix := "in", "checkin_"
			if row.Kind == ActivityClockOut {
				verb, prefix = "out", "checkout_"
			}
			a.ID = prefix + row.RefID
			if row.ClockAt != nil {
				a.ClockTime = row.ClockAt.In(loc).Format("03:04 PM")
			}
			a.Message = fmt.Sprintf("%s clocked %s at %s", row.EmployeeName, verb, a.ClockTime)
		case ActivityLeaveRequest:
			a.ID = "leave_" + row.RefID
			a.LeaveType = row.LeaveType
			if row.StartDate != nil && row.EndDate != nil {
				a.DateRange = fmt.Sprintf("%s - %s", row.StartDate.Format("Jan 02"), row.EndDate.Format("Jan 02"))
			}
			a.Message = fmt.Sprintf("%s requested %s leave (%s)", row.EmployeeName, row.LeaveType, a.DateRange)
		default:
			continue
		}
		out = append(out, a)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// RelativeTime renders the age of t as "just now", "N minutes ago",
// "N hours ago" or "N days ago".
func RelativeTime(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	default:
		return plural(int(d/(24*time.Hour)), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// MonthWindow is one calendar month.
type MonthWindow struct {
	Label string
	Range dates.Range
}

// LastMonths returns the n calendar months ending with today's month,
// oldest first.
func LastMonths(today time.Time, n int) []MonthWindow {
	first := dates.MonthStart(today)
	out := make([]MonthWindow, 0, n)
	for i := n - 1; i >= 0; i-- {
		start := first.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, -1)
		out = append(out, MonthWindow{
			Label: start.Format("Jan 2006"),
			Range: dates.Range{Start: start, End: end},
		})
	}
	return out
}

type TodayAttendance struct {
	attendance.Counts
	AttendanceRate float64 `json:"attendance_rate"`
}

type MonthRate struct {
	Month string  `json:"month"`
	Rate  float64 `json:"rate"`
}

type HRStats struct {
	TotalEmployees         int             `json:"total_employees"`
	ActiveEmployees        int             `json:"active_employees"`
	InactiveEmployees      int             `json:"inactive_employees"`
	TodayAttendance        TodayAttendance `json:"today_attendance"`
	PendingLeaveRequests   int             `json:"pending_leave_requests"`
	ApprovedLeavesToday    int             `json:"approved_leaves_today"`
	Departments            map[string]int  `json:"departments"`
	MonthlyAttendanceTrend []MonthRate     `json:"monthly_attendance_trend"`
	MonthlyAttendanceAvg   float64         `json:"monthly_attendance_avg"`
	RecentActivities       []Activity      `json:"recent_activities"`
}

// Headcount is the employee population used by the HR dashboard.
type Headcount struct {
	Total       int
	Active      int
	Departments map[string]int
}

type LeaveCounts struct {
	Pending       int
	ApprovedToday int
}

// PresentShare is (present + late today) over the whole headcount.
func PresentShare(today attendance.Counts, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(today.Present+today.Late) * 100 / float64(total)
	return math.Round(pct*10) / 10
}

type UserHeader struct {
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	Department *string `json:"department"`
}

type AttendanceStatus struct {
	CheckedIn    bool    `json:"checked_in"`
	CheckInTime  *string `json:"check_in_time"`
	CheckedOut   bool    `json:"checked_out"`
	CheckOutTime *string `json:"check_out_time"`
}

type PerformanceMetrics struct {
	TasksCompleted    int `json:"tasks_completed"`
	ProductivityScore int `json:"productivity_score"`
	GoalsAchieved     int `json:"goals_achieved"`
}

type ScheduleItem struct {
	ID       uuid.UUID     `json:"id"`
	Type     string        `json:"type"`
	Title    string        `json:"title"`
	Priority task.Priority `json:"priority"`
	Status   task.Status   `json:"status"`
}

type MonthSummary struct {
	Month string `json:"month"`
	attendance.Counts
	AttendanceRate float64 `json:"attendance_rate"`
}

type EmployeeDashboard struct {
	User                UserHeader             `json:"user"`
	TodayAttendance     AttendanceStatus       `json:"today_attendance"`
	PerformanceMetrics  PerformanceMetrics     `json:"performance_metrics"`
	TodaySchedule       []ScheduleItem         `json:"today_schedule"`
	RecentAnnouncements []announcement.Preview `json:"recent_announcements"`
	PendingTasks        int                    `json:"pending_tasks"`
	AttendanceSummary   MonthSummary           `json:"attendance_summary"`
}

// Productivity blends monthly completions with the attendance rate, capped
// at 100.
func Productivity(completed int, rate float64) int {
	score := int((float64(completed*10) + rate) / 2)
	if score > 100 {
		return 100
	}
	return score
}

// EmployeeInput is everything the employee dashboard is computed from.
type EmployeeInput struct {
	Header        UserHeader
	Today         time.Time
	Location      *time.Location
	Month         []attendance.Attendance
	Tasks         []task.Task
	Announcements []announcement.Preview
}

func BuildEmployeeDashboard(in EmployeeInput) *EmployeeDashboard {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	monthStart := dates.MonthStart(in.Today)
	monthStartAt := time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, loc)

	d := &EmployeeDashboard{
		User:                in.Header,
		TodaySchedule:       make([]ScheduleItem, 0),
		RecentAnnouncements: in.Announcements,
	}
	if d.RecentAnnouncements == nil {
		d.RecentAnnouncements = []announcement.Preview{}
	}

	for _, a := range in.Month {
		if !dates.DateOf(a.Date).Equal(in.Today) {
			continue
		}
		if a.CheckIn != nil {
			s := dates.FormatClock(a.CheckIn.In(loc))
			d.TodayAttendance.CheckedIn = true
			d.TodayAttendance.CheckInTime = &s
		}
		if a.CheckOut != nil {
			s := dates.FormatClock(a.CheckOut.In(loc))
			d.TodayAttendance.CheckedOut = true
			d.TodayAttendance.CheckOutTime = &s
		}
	}

	counts := attendance.CountStatuses(in.Month)
	rate := counts.Rate()
	d.AttendanceSummary = MonthSummary{
		Month:          in.Today.Format("January 2006"),
		Counts:         counts,
		AttendanceRate: rate,
	}

	completed := 0
	for _, t := range in.Tasks {
		switch t.Status {
		case task.StatusCompleted:
			if !t.UpdatedAt.Before(monthStartAt) {
				completed++
			}
			continue
		case task.StatusPending, task.StatusInProgress:
			d.PendingTasks++
		}
		if dates.DateOf(t.DueDate).Equal(in.Today) {
			d.TodaySchedule = append(d.TodaySchedule, ScheduleItem{
				ID:       t.ID,
				Type:     "task",
				Title:    t.Title,
				Priority: t.Priority,
				Status:   t.Status,
			})
		}
	}
	d.PerformanceMetrics = PerformanceMetrics{
		TasksCompleted:    completed,
		ProductivityScore: Productivity(completed, rate),
		GoalsAchieved:     completed / tasksPerGoal,
	}
	return d
}
