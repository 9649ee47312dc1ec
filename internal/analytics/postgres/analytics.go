package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/staffsync/staffsync-backend/internal/analytics"
	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
	leaveDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/leave"
	"github.com/staffsync/staffsync-backend/internal/leave"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) analytics.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) LeavePatterns(ctx context.Context, window dates.Range, department string) (analytics.LeavePatterns, error) {
	q := r.db.WithContext(ctx).
		Model(&leaveDatamodel.LeaveRequest{}).
		Where("leave_requests.start_date >= ? AND leave_requests.start_date <= ?", window.Start, window.End)
	if department != "" {
		q = q.Joins("JOIN employees ON employees.id = leave_requests.employee_id").
			Joins("JOIN users ON users.id = employees.user_id").
			Where("users.department = ?", department)
	}

	var rows []struct {
		Type  string
		Count int
	}
	if err := q.Select("leave_requests.type AS type, COUNT(*) AS count").Group("leave_requests.type").Scan(&rows).Error; err != nil {
		return analytics.LeavePatterns{}, err
	}

	var p analytics.LeavePatterns
	for _, row := range rows {
		p.Add(leave.Type(row.Type), row.Count)
	}
	return p, nil
}
