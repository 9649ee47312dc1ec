package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/staffsync/staffsync-backend/internal/dashboard"
)

// recentActivityQuery merges the four feed sources. Placeholders are written
// as ? and rebound for the connection's driver.
const recentActivityQuery = `
SELECT 'employee_created' AS kind, CAST(e.id AS TEXT) AS ref_id, u.name AS employee_name,
       u.created_at AS occurred_at, NULL AS clock_at, NULL AS leave_type, NULL AS start_date, NULL AS end_date
  FROM employees e
  JOIN users u ON u.id = e.user_id
 WHERE u.created_at >= ?
UNION ALL
SELECT 'clock_in', CAST(a.id AS TEXT), u.name, a.created_at, a.check_in, NULL, NULL, NULL
  FROM attendance a
  JOIN employees e ON e.id = a.employee_id
  JOIN users u ON u.id = e.user_id
 WHERE a.created_at >= ? AND a.check_in IS NOT NULL
UNION ALL
SELECT 'clock_out', CAST(a.id AS TEXT), u.name, a.created_at, a.check_out, NULL, NULL, NULL
  FROM attendance a
  JOIN employees e ON e.id = a.employee_id
  JOIN users u ON u.id = e.user_id
 WHERE a.created_at >= ? AND a.check_out IS NOT NULL
UNION ALL
SELECT 'leave_request', CAST(l.id AS TEXT), u.name, l.submitted_at, NULL, l.type, l.start_date, l.end_date
  FROM leave_requests l
  JOIN employees e ON e.id = l.employee_id
  JOIN users u ON u.id = e.user_id
 WHERE l.submitted_at >= ?
ORDER BY occurred_at DESC
LIMIT ?`

type activityRow struct {
	Kind         string         `db:"kind"`
	RefID        string         `db:"ref_id"`
	EmployeeName string         `db:"employee_name"`
	OccurredAt   dbTime         `db:"occurred_at"`
	ClockAt      dbTime         `db:"clock_at"`
	LeaveType    sql.NullString `db:"leave_type"`
	StartDate    dbTime         `db:"start_date"`
	EndDate      dbTime         `db:"end_date"`
}

type ActivityRepository struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) dashboard.ActivityReader {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) RecentActivity(ctx context.Context, q dashboard.ActivityQuery) ([]dashboard.ActivityRow, error) {
	var rows []activityRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(recentActivityQuery),
		q.EmployeesSince.UTC(),
		q.AttendanceSince.UTC(),
		q.AttendanceSince.UTC(),
		q.LeaveSince.UTC(),
		q.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent activity: %w", err)
	}

	out := make([]dashboard.ActivityRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, dashboard.ActivityRow{
			Kind:         dashboard.ActivityKind(row.Kind),
			RefID:        row.RefID,
			EmployeeName: row.EmployeeName,
			OccurredAt:   row.OccurredAt.Time,
			ClockAt:      row.ClockAt.Ptr(),
			LeaveType:    row.LeaveType.String,
			StartDate:    row.StartDate.Ptr(),
			EndDate:      row.EndDate.Ptr(),
		})
	}
	return out, nil
}

// dbTime scans timestamps whether the driver yields time.Time or text,
// which happens for columns of a UNION.
type dbTime struct {
	Time  time.Time
	Valid bool
}

var textTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *dbTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = dbTime{}
		return nil
	case time.Time:
		*t = dbTime{Time: v, Valid: true}
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	}
	return fmt.Errorf("cannot scan %T into timestamp", src)
}

func (t *dbTime) parse(s string) error {
	for _, layout := range textTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = dbTime{Time: parsed, Valid: true}
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

func (t dbTime) Ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
