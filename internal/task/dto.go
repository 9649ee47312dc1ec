package task

import (
	"strings"
	"time"

	"github.com/staffsync/staffsync-backend/internal"
	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
	"github.com/staffsync/staffsync-backend/internal/core/common/validation"
)

type CreateTaskDTO struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     string  `json:"due_date"`
}

func (d *CreateTaskDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Priority = strings.ToLower(strings.TrimSpace(d.Priority))
}

func (d CreateTaskDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MinLength(3).MaxLength(255)
	v.Field("description", d.Description).MaxLength(2000)
	v.Field("priority", d.Priority).Required().OneOf(Priorities...)
	v.Field("due_date", d.DueDate).Required().Date()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateTaskDTO is a partial update; nil fields are left untouched.
type UpdateTaskDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
}

func (d UpdateTaskDTO) Validate() error {
	v := validation.NewValidator()
	if d.Title != nil {
		v.Field("title", strings.TrimSpace(*d.Title)).Required().MinLength(3).MaxLength(255)
	}
	v.Field("description", d.Description).MaxLength(2000)
	v.Field("status", d.Status).OneOf(Statuses...)
	v.Field("priority", d.Priority).OneOf(Priorities...)
	v.Field("due_date", d.DueDate).Date()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Apply copies the supplied fields onto t.
func (d UpdateTaskDTO) Apply(t *Task) {
	if d.Title != nil {
		t.Title = strings.TrimSpace(*d.Title)
	}
	if d.Description != nil {
		t.Description = d.Description
	}
	if d.Status != nil && *d.Status != "" {
		t.Status = Status(*d.Status)
	}
	if d.Priority != nil && *d.Priority != "" {
		t.Priority = Priority(*d.Priority)
	}
	if d.DueDate != nil && *d.DueDate != "" {
		t.DueDate, _ = dates.ParseDate(*d.DueDate)
	}
}

type Filter struct {
	Status   Status
	Priority Priority
	SortBy   string
}

var ErrDueDateInPast = internal.NewValidationFieldError("due_date", "Due date cannot be in the past", internal.ErrCodeInvalidDate)

func checkDueDate(raw string, today time.Time) error {
	due, err := dates.ParseDate(raw)
	if err != nil {
		return err
	}
	if due.Before(dates.DateOf(today)) {
		return ErrDueDateInPast
	}
	return nil
}
