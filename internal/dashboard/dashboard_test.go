package dashboard

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffsync/staffsync-backend/internal/attendance"
	"github.com/staffsync/staffsync-backend/internal/task"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{-time.Minute, "just now"},
		{30 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{45 * time.Minute, "45 minutes ago"},
		{time.Hour, "1 hour ago"},
		{23*time.Hour + 59*time.Minute, "23 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{72 * time.Hour, "3 days ago"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RelativeTime(now, now.Add(-tc.ago)), tc.ago.String())
	}
}

func TestProductivity(t *testing.T) {
	assert.Equal(t, 0, Productivity(0, 0))
	assert.Equal(t, 45, Productivity(1, 80))
	assert.Equal(t, 62, Productivity(3, 95.5))
	assert.Equal(t, 100, Productivity(20, 100))
}

func TestLastMonths(t *testing.T) {
	months := LastMonths(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), 6)
	require.Len(t, months, 6)
	assert.Equal(t, "Oct 2023", months[0].Label)
	assert.Equal(t, "Mar 2024", months[5].Label)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), months[4].Range.Start)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), months[4].Range.End)
}

func TestPresentShare(t *testing.T) {
	assert.Equal(t, 0.0, PresentShare(attendance.Counts{Present: 3}, 0))
	assert.Equal(t, 66.7, PresentShare(attendance.Counts{Present: 1, Late: 1, Absent: 1}, 3))
}

func TestBuildActivities(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	clockIn := time.Date(2024, 5, 10, 9, 5, 0, 0, time.UTC)
	start := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 22, 0, 0, 0, 0, time.UTC)
	rows := []ActivityRow{
		{Kind: ActivityEmployeeCreated, RefID: "e1", EmployeeName: "Ana", OccurredAt: now.Add(-48 * time.Hour)},
		{Kind: ActivityClockIn, RefID: "a1", EmployeeName: "Ben", OccurredAt: now.Add(-2 * time.Hour), ClockAt: &clockIn},
		{Kind: ActivityLeaveRequest, RefID: "l1", EmployeeName: "Cy", OccurredAt: now.Add(-5 * time.Minute), LeaveType: "vacation", StartDate: &start, EndDate: &end},
		{Kind: "unknown", RefID: "x", OccurredAt: now},
	}

	out := BuildActivities(rows, now, time.UTC, 10)
	require.Len(t, out, 3)

	assert.Equal(t, "leave_l1", out[0].ID)
	assert.Equal(t, "Cy requested vacation leave (May 20 - May 22)", out[0].Message)
	assert.Equal(t, "5 minutes ago", out[0].Time)

	assert.Equal(t, "checkin_a1", out[1].ID)
	assert.Equal(t, "Ben clocked in at 09:05 AM", out[1].Message)
	assert.Equal(t, "09:05 AM", out[1].ClockTime)

	assert.Equal(t, "emp_e1", out[2].ID)
	assert.Equal(t, "New employee Ana was added", out[2].Message)
	assert.Equal(t, "2 days ago", out[2].Time)

	top := BuildActivities(rows, now, time.UTC, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "leave_l1", top[0].ID)
	assert.Equal(t, "checkin_a1", top[1].ID)
}

func TestBuildEmployeeDashboard(t *testing.T) {
	loc := time.UTC
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	checkIn := today.Add(9*time.Hour + 15*time.Minute)
	month := []attendance.Attendance{
		{Date: today.AddDate(0, 0, -2), Status: attendance.StatusPresent},
		{Date: today.AddDate(0, 0, -1), Status: attendance.StatusAbsent},
		{Date: today.AddDate(0, 0, -3), Status: attendance.StatusLate},
		{Date: today, Status: attendance.StatusPresent, CheckIn: &checkIn},
	}
	inMonth := today.Add(-24 * time.Hour)
	lastMonth := today.AddDate(0, -1, 0)
	tasks := []task.Task{
		{ID: uuid.New(), Title: "done", Status: task.StatusCompleted, UpdatedAt: inMonth, DueDate: today},
		{ID: uuid.New(), Title: "old", Status: task.StatusCompleted, UpdatedAt: lastMonth, DueDate: lastMonth},
		{ID: uuid.New(), Title: "due", Status: task.StatusInProgress, Priority: task.PriorityHigh, DueDate: today},
		{ID: uuid.New(), Title: "later", Status: task.StatusPending, DueDate: today.AddDate(0, 0, 3)},
	}

	d := BuildEmployeeDashboard(EmployeeInput{
		Header:   UserHeader{Name: "Ana", Role: "Analyst"},
		Today:    today,
		Location: loc,
		Month:    month,
		Tasks:    tasks,
	})

	assert.True(t, d.TodayAttendance.CheckedIn)
	assert.Equal(t, "09:15:00", *d.TodayAttendance.CheckInTime)
	assert.False(t, d.TodayAttendance.CheckedOut)
	assert.Nil(t, d.TodayAttendance.CheckOutTime)

	assert.Equal(t, "May 2024", d.AttendanceSummary.Month)
	assert.Equal(t, 75.0, d.AttendanceSummary.AttendanceRate)
	assert.Equal(t, 1, d.AttendanceSummary.Absent)

	assert.Equal(t, 1, d.PerformanceMetrics.TasksCompleted)
	assert.Equal(t, 42, d.PerformanceMetrics.ProductivityScore)
	assert.Equal(t, 0, d.PerformanceMetrics.GoalsAchieved)
	assert.Equal(t, 2, d.PendingTasks)

	require.Len(t, d.TodaySchedule, 1)
	assert.Equal(t, "due", d.TodaySchedule[0].Title)
	assert.NotNil(t, d.RecentAnnouncements)
}
