package task

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/staffsync/staffsync-backend/internal"
	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
	taskDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/task"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var Statuses = []string{
	string(StatusPending),
	string(StatusInProgress),
	string(StatusCompleted),
	string(StatusCancelled),
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []string{
	string(PriorityLow),
	string(PriorityMedium),
	string(PriorityHigh),
}

// Rank orders priorities high=1, medium=2, low=3.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

const (
	SortByDueDate   = "due_date"
	SortByPriority  = "priority"
	SortByCreatedAt = "created_at"
)

var ErrTaskNotFound = internal.NewNotFoundError("Task not found", internal.ErrCodeTaskNotFound)

// Task is a unit of work owned by one employee. Any status may follow any
// other; there is no transition table.
type Task struct {
	ID          uuid.UUID
	EmployeeID  uuid.UUID
	AssignedBy  *uuid.UUID
	Title       string
	Description *string
	Status      Status
	Priority    Priority
	DueDate     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	AssignerName string
}

// Overdue is computed, never stored.
func (t *Task) Overdue(today time.Time) bool {
	return t.DueDate.Before(dates.DateOf(today)) && t.Status != StatusCompleted
}

type View struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	DueDate     string    `json:"due_date"`
	Overdue     bool      `json:"overdue"`
	AssignedBy  string    `json:"assigned_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToView renders t for its owner. Tasks without an assigner, or assigned by
// the owner themselves, read as "Self".
func (t *Task) ToView(ownerUserID uuid.UUID, today time.Time) View {
	assigner := "Self"
	if t.AssignedBy != nil && *t.AssignedBy != ownerUserID && t.AssignerName != "" {
		assigner = t.AssignerName
	}
	return View{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate.Format(dates.DateLayout),
		Overdue:     t.Overdue(today),
		AssignedBy:  assigner,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type Summary struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Overdue    int `json:"overdue"`
}

func Summarize(tasks []Task, today time.Time) Summary {
	s := Summary{Total: len(tasks)}
	for i := range tasks {
		switch tasks[i].Status {
		case StatusPending:
			s.Pending++
		case StatusInProgress:
			s.InProgress++
		case StatusCompleted:
			s.Completed++
		}
		if tasks[i].Overdue(today) {
			s.Overdue++
		}
	}
	return s
}

// Sort orders tasks in place. Ties keep their incoming order.
func Sort(tasks []Task, sortBy string) {
	switch sortBy {
	case SortByPriority:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority.Rank() < tasks[j].Priority.Rank()
		})
	case SortByCreatedAt:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		})
	default:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].DueDate.Before(tasks[j].DueDate)
		})
	}
}

func ToDataModel(t *Task) *taskDatamodel.Task {
	return &taskDatamodel.Task{
		ID:          t.ID,
		EmployeeID:  t.EmployeeID,
		AssignedBy:  t.AssignedBy,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     dates.DateOf(t.DueDate),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromDataModel(m *taskDatamodel.Task) *Task {
	t := &Task{
		ID:          m.ID,
		EmployeeID:  m.EmployeeID,
		AssignedBy:  m.AssignedBy,
		Title:       m.Title,
		Description: m.Description,
		Status:      Status(m.Status),
		Priority:    Priority(m.Priority),
		DueDate:     dates.DateOf(m.DueDate),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Assigner != nil {
		t.AssignerName = m.Assigner.Name
	}
	return t
}

func FromDataModelSlice(rows []taskDatamodel.Task) []Task {
	out := make([]Task, len(rows))
	for i := range rows {
		out[i] = *FromDataModel(&rows[i])
	}
	return out
}
