package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/staffsync/staffsync-backend/internal"
	"github.com/staffsync/staffsync-backend/internal/announcement"
	"github.com/staffsync/staffsync-backend/internal/attendance"
	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
	"github.com/staffsync/staffsync-backend/internal/employee"
	"github.com/staffsync/staffsync-backend/internal/task"
)

// RepositoryAPI holds the aggregate counts only the dashboard needs.
type RepositoryAPI interface {
	Headcount(ctx context.Context) (Headcount, error)
	LeaveCounts(ctx context.Context, today time.Time) (LeaveCounts, error)
}

// ActivityReader reads the merged recent-activity feed.
type ActivityReader interface {
	RecentActivity(ctx context.Context, q ActivityQuery) ([]ActivityRow, error)
}

type AttendanceReader interface {
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, r dates.Range) ([]attendance.Attendance, error)
	CountByStatus(ctx context.Context, f attendance.Filter) (attendance.Counts, error)
}

type TaskReader interface {
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]task.Task, error)
}

type EmployeeReader interface {
	Get(ctx context.Context, id uuid.UUID) (*employee.Employee, error)
}

type AnnouncementFeed interface {
	Recent(ctx context.Context, limit int) ([]announcement.Preview, error)
}

type ServiceAPI interface {
	HRStats(ctx context.Context) (*HRStats, error)
	RecentActivity(ctx context.Context, limit int) (*ActivityFeed, error)
	EmployeeDashboard(ctx context.Context, employeeID uuid.UUID) (*EmployeeDashboard, error)
}

// Sources bundles the read models the dashboards are built from.
type Sources struct {
	Repo          RepositoryAPI
	Activity      ActivityReader
	Attendance    AttendanceReader
	Tasks         TaskReader
	Employees     EmployeeReader
	Announcements AnnouncementFeed
}

type Service struct {
	src    Sources
	policy attendance.Policy
	logger *slog.Logger
	now    func() time.Time
}

func NewService(src Sources, policy attendance.Policy, logger *slog.Logger) *Service {
	return &Service{
		src:    src,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) HRStats(ctx context.Context) (*HRStats, error) {
	now := s.now()
	today := s.policy.Today(now)

	head, err := s.src.Repo.Headcount(ctx)
	if err != nil {
		return nil, s.fail(err, "failed to count employees")
	}

	todayCounts, err := s.src.Attendance.CountByStatus(ctx, attendance.Filter{Range: dates.Range{Start: today, End: today}})
	if err != nil {
		return nil, s.fail(err, "failed to count today's attendance")
	}

	leaves, err := s.src.Repo.LeaveCounts(ctx, today)
	if err != nil {
		return nil, s.fail(err, "failed to count leave requests")
	}

	trend := make([]MonthRate, 0, trendMonths)
	for _, m := range LastMonths(today, trendMonths) {
		c, err := s.src.Attendance.CountByStatus(ctx, attendance.Filter{Range: m.Range})
		if err != nil {
			return nil, s.fail(err, "failed to build attendance trend")
		}
		trend = append(trend, MonthRate{Month: m.Label, Rate: c.Rate()})
	}

	rows, err := s.src.Activity.RecentActivity(ctx, NewActivityQuery(now, hrRecentActivities))
	if err != nil {
		return nil, s.fail(err, "failed to load recent activity")
	}

	departments := head.Departments
	if departments == nil {
		departments = map[string]int{}
	}
	return &HRStats{
		TotalEmployees:         head.Total,
		ActiveEmployees:        head.Active,
		InactiveEmployees:      head.Total - head.Active,
		TodayAttendance:        TodayAttendance{Counts: todayCounts, AttendanceRate: todayCounts.Rate()},
		PendingLeaveRequests:   leaves.Pending,
		ApprovedLeavesToday:    leaves.ApprovedToday,
		Departments:            departments,
		MonthlyAttendanceTrend: trend,
		MonthlyAttendanceAvg:   PresentShare(todayCounts, head.Total),
		RecentActivities:       BuildActivities(rows, now, s.policy.Location, hrRecentActivities),
	}, nil
}

func (s *Service) RecentActivity(ctx context.Context, limit int) (*ActivityFeed, error) {
	now := s.now()
	rows, err := s.src.Activity.RecentActivity(ctx, NewActivityQuery(now, limit))
	if err != nil {
		return nil, s.fail(err, "failed to load recent activity")
	}
	items := BuildActivities(rows, now, s.policy.Location, limit)
	return &ActivityFeed{Activities: items, Total: len(items)}, nil
}

func (s *Service) EmployeeDashboard(ctx context.Context, employeeID uuid.UUID) (*EmployeeDashboard, error) {
	today := s.policy.Today(s.now())

	emp, err := s.src.Employees.Get(ctx, employeeID)
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		return nil, s.fail(err, "failed to load employee")
	}

	month, err := s.src.Attendance.ListByEmployee(ctx, employeeID, dates.Range{Start: dates.MonthStart(today), End: today})
	if err != nil {
		return nil, s.fail(err, "failed to load attendance")
	}

	tasks, err := s.src.Tasks.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, s.fail(err, "failed to load tasks")
	}

	previews, err := s.src.Announcements.Recent(ctx, recentAnnouncements)
	if err != nil {
		return nil, err
	}

	return BuildEmployeeDashboard(EmployeeInput{
		Header:        UserHeader{Name: emp.Name, Role: emp.Position, Department: emp.Department},
		Today:         today,
		Location:      s.policy.Location,
		Month:         month,
		Tasks:         tasks,
		Announcements: previews,
	}), nil
}

func (s *Service) fail(err error, msg string) error {
	s.logger.Error(msg, "error", err)
	return internal.NewInternalError(msg, err)
}
