package analytics

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffsync/staffsync-backend/internal/attendance"
	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	records []attendance.Attendance
}

func (f *fixture) add(ref *attendance.EmployeeRef, d int, st attendance.Status, in, out string, hours string) {
	a := attendance.Attendance{EmployeeID: ref.ID, Employee: ref, Date: day(d), Status: st}
	if in != "" {
		c, _ := dates.ParseClock(in)
		t := dates.At(day(d), c, time.UTC)
		a.CheckIn = &t
	}
	if out != "" {
		c, _ := dates.ParseClock(out)
		t := dates.At(day(d), c, time.UTC)
		a.CheckOut = &t
	}
	if hours != "" {
		a.HoursWorked = decimal.NewNullDecimal(decimal.RequireFromString(hours))
	}
	f.records = append(f.records, a)
}

func employeeRef(name, dept string) *attendance.EmployeeRef {
	ref := &attendance.EmployeeRef{ID: uuid.New(), Name: name}
	if dept != "" {
		ref.Department = &dept
	}
	return ref
}

func TestBuildTrendsAndDepartments(t *testing.T) {
	alice := employeeRef("Alice", "Engineering")
	bob := employeeRef("Bob", "Sales")
	var f fixture
	f.add(alice, 4, attendance.StatusPresent, "09:00", "18:00", "9")
	f.add(bob, 4, attendance.StatusAbsent, "", "", "")
	f.add(alice, 5, attendance.StatusLate, "09:45", "18:00", "8.25")
	f.add(bob, 5, attendance.StatusLate, "09:45", "17:00", "7.25")

	rep := Build(Input{Range: dates.Range{Start: day(4), End: day(6)}, Records: f.records})

	require.Len(t, rep.AttendanceTrends, 3)
	assert.Equal(t, TrendPoint{Date: "2024-03-04", Rate: 50}, rep.AttendanceTrends[0])
	assert.Equal(t, TrendPoint{Date: "2024-03-05", Rate: 100}, rep.AttendanceTrends[1])
	assert.Equal(t, TrendPoint{Date: "2024-03-06", Rate: 0}, rep.AttendanceTrends[2])

	require.Len(t, rep.DepartmentComparison, 2)
	assert.Equal(t, "Engineering", rep.DepartmentComparison[0].Department)
	assert.Equal(t, 100.0, rep.DepartmentComparison[0].AttendanceRate)
	assert.Equal(t, "Sales", rep.DepartmentComparison[1].Department)
	assert.Equal(t, 50.0, rep.DepartmentComparison[1].AttendanceRate)

	// (9 + 8.25 + 7.25) / 2 employees
	assert.Equal(t, 12.3, rep.AverageHoursPerEmployee)
	assert.Equal(t, "09:45:00", rep.PeakHours.CheckIn)
	assert.Equal(t, "18:00:00", rep.PeakHours.CheckOut)
}

func TestBuildTopPerformersAreStable(t *testing.T) {
	var f fixture
	var refs []*attendance.EmployeeRef
	for i := 0; i < 12; i++ {
		ref := employeeRef(string(rune('A'+i)), "Ops")
		refs = append(refs, ref)
		f.add(ref, 1, attendance.StatusPresent, "", "", "")
	}
	// The last employee drops to 50% and must not make the top ten.
	f.add(refs[11], 2, attendance.StatusAbsent, "", "", "")

	rep := Build(Input{Range: dates.Range{Start: day(1), End: day(2)}, Records: f.records})

	require.Len(t, rep.TopPerformers, 10)
	for i, p := range rep.TopPerformers {
		assert.Equal(t, refs[i].ID, p.EmployeeID, "position %d", i)
		assert.Equal(t, 100.0, p.AttendanceRate)
	}
}

func TestBuildAttendanceIssues(t *testing.T) {
	good := employeeRef("Good", "Ops")
	poor := employeeRef("Poor", "Ops")
	var f fixture
	for d := 1; d <= 5; d++ {
		f.add(good, d, attendance.StatusPresent, "", "", "")
	}
	f.add(good, 6, attendance.StatusAbsent, "", "", "")
	f.add(poor, 1, attendance.StatusLate, "", "", "")
	f.add(poor, 2, attendance.StatusAbsent, "", "", "")
	f.add(poor, 3, attendance.StatusOnLeave, "", "", "")

	rep := Build(Input{Range: dates.Range{Start: day(1), End: day(6)}, Records: f.records})

	require.Len(t, rep.AttendanceIssues, 1)
	issue := rep.AttendanceIssues[0]
	assert.Equal(t, poor.ID, issue.EmployeeID)
	assert.Equal(t, 33.3, issue.AttendanceRate)
	assert.Equal(t, 2, issue.AbsentDays)
	assert.Equal(t, 1, issue.LateDays)
}

func TestBuildPeakHoursTieBreakAndDefaults(t *testing.T) {
	a := employeeRef("A", "")
	b := employeeRef("B", "")
	var f fixture
	f.add(a, 1, attendance.StatusPresent, "09:05", "", "")
	f.add(b, 1, attendance.StatusPresent, "08:55", "", "")

	rep := Build(Input{Range: dates.Range{Start: day(1), End: day(1)}, Records: f.records})
	assert.Equal(t, "08:55:00", rep.PeakHours.CheckIn)
	assert.Equal(t, DefaultPeakCheckOut, rep.PeakHours.CheckOut)
	assert.Equal(t, "Unassigned", rep.DepartmentComparison[0].Department)

	empty := Build(Input{Range: dates.Range{Start: day(1), End: day(1)}})
	assert.Equal(t, PeakHours{CheckIn: DefaultPeakCheckIn, CheckOut: DefaultPeakCheckOut}, empty.PeakHours)
	assert.Zero(t, empty.AverageHoursPerEmployee)
	assert.Empty(t, empty.TopPerformers)
	assert.NotNil(t, empty.AttendanceIssues)
}

func TestPeakHoursUseLocation(t *testing.T) {
	a := employeeRef("A", "")
	in := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)
	rec := attendance.Attendance{EmployeeID: a.ID, Employee: a, Date: day(1), Status: attendance.StatusPresent, CheckIn: &in}

	rep := Build(Input{
		Range:    dates.Range{Start: day(1), End: day(1)},
		Records:  []attendance.Attendance{rec},
		Location: time.FixedZone("UTC+7", 7*3600),
	})
	assert.Equal(t, "09:00:00", rep.PeakHours.CheckIn)
}

func TestDepartmentComparisonIgnoresDepartmentFilter(t *testing.T) {
	alice := employeeRef("Alice", "Engineering")
	bob := employeeRef("Bob", "Sales")
	var f fixture
	f.add(alice, 4, attendance.StatusPresent, "09:00", "18:00", "9")
	f.add(bob, 4, attendance.StatusAbsent, "", "", "")
	engineering := f.records[:1]

	rep := Build(Input{
		Range:      dates.Range{Start: day(4), End: day(4)},
		Department: "Engineering",
		Records:    engineering,
		Comparison: f.records,
	})
	require.Len(t, rep.DepartmentComparison, 2)
	assert.Equal(t, "Sales", rep.DepartmentComparison[1].Department)
	assert.Equal(t, 0.0, rep.DepartmentComparison[1].AttendanceRate)
	require.Len(t, rep.TopPerformers, 1)
	assert.Equal(t, "Alice", rep.TopPerformers[0].Name)
}

type departmentReader struct {
	records []attendance.Attendance
	calls   []string
}

func (r *departmentReader) ListAll(_ context.Context, f attendance.Filter) ([]attendance.Attendance, error) {
	r.calls = append(r.calls, f.Department)
	var out []attendance.Attendance
	for _, a := range r.records {
		if f.Department == "" || departmentOf(a) == f.Department {
			out = append(out, a)
		}
	}
	return out, nil
}

type noLeaves struct{}

func (noLeaves) LeavePatterns(context.Context, dates.Range, string) (LeavePatterns, error) {
	return LeavePatterns{}, nil
}

func TestReportComparesAllDepartmentsWhenFiltered(t *testing.T) {
	alice := employeeRef("Alice", "Engineering")
	bob := employeeRef("Bob", "Sales")
	var f fixture
	f.add(alice, 4, attendance.StatusPresent, "09:00", "18:00", "9")
	f.add(bob, 4, attendance.StatusLate, "09:45", "18:00", "8")

	reader := &departmentReader{records: f.records}
	svc := NewService(reader, noLeaves{}, attendance.Policy{Location: time.UTC}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rep, err := svc.Report(context.Background(), dates.Range{Start: day(4), End: day(4)}, "Sales")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sales", ""}, reader.calls)
	require.Len(t, rep.TopPerformers, 1)
	assert.Equal(t, "Bob", rep.TopPerformers[0].Name)
	require.Len(t, rep.DepartmentComparison, 2)
	assert.Equal(t, "Engineering", rep.DepartmentComparison[0].Department)

	reader.calls = nil
	_, err = svc.Report(context.Background(), dates.Range{Start: day(4), End: day(4)}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{""}, reader.calls)
}
