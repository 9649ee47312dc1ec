package announcement

import (
	"time"

	"github.com/google/uuid"

	announcementDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/announcement"
)

type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var Priorities = []string{string(PriorityNormal), string(PriorityHigh), string(PriorityUrgent)}

type Audience string

const (
	AudienceAll       Audience = "all"
	AudienceHR        Audience = "hr"
	AudienceEmployees Audience = "employees"
)

var Audiences = []string{string(AudienceAll), string(AudienceHR), string(AudienceEmployees)}

// EmployeeAudiences are the audiences an employee sees.
var EmployeeAudiences = []Audience{AudienceAll, AudienceEmployees}

// previewLength bounds the content shown on dashboards.
const previewLength = 200

type Announcement struct {
	ID             uuid.UUID
	CreatedBy      uuid.UUID
	CreatorName    string
	Title          string
	Content        string
	Priority       Priority
	TargetAudience Audience
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type View struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Priority       Priority  `json:"priority"`
	TargetAudience Audience  `json:"target_audience"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

func (a *Announcement) ToView() View {
	creator := a.CreatorName
	if creator == "" {
		creator = "Unknown"
	}
	return View{
		ID:             a.ID,
		Title:          a.Title,
		Content:        a.Content,
		Priority:       a.Priority,
		TargetAudience: a.TargetAudience,
		CreatedBy:      creator,
		CreatedAt:      a.CreatedAt,
	}
}

// Preview is the dashboard form of an announcement.
type Preview struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *Announcement) ToPreview() Preview {
	return Preview{
		ID:        a.ID,
		Title:     a.Title,
		Content:   Truncate(a.Content, previewLength),
		Priority:  a.Priority,
		CreatedAt: a.CreatedAt,
	}
}

// Truncate cuts s to n runes and marks the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func ToViews(items []Announcement) []View {
	out := make([]View, len(items))
	for i := range items {
		out[i] = items[i].ToView()
	}
	return out
}

func ToDataModel(a *Announcement) *announcementDatamodel.Announcement {
	return &announcementDatamodel.Announcement{
		ID:             a.ID,
		CreatedBy:      a.CreatedBy,
		Title:          a.Title,
		Content:        a.Content,
		Priority:       string(a.Priority),
		TargetAudience: string(a.TargetAudience),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func FromDataModel(m *announcementDatamodel.Announcement) *Announcement {
	a := &Announcement{
		ID:             m.ID,
		CreatedBy:      m.CreatedBy,
		Title:          m.Title,
		Content:        m.Content,
		Priority:       Priority(m.Priority),
		TargetAudience: Audience(m.TargetAudience),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.Creator != nil {
		a.CreatorName = m.Creator.Name
	}
	return a
}

func FromDataModelSlice(rows []announcementDatamodel.Announcement) []Announcement {
	out := make([]Announcement, len(rows))
	for i := range rows {
		out[i] = *FromDataModel(&rows[i])
	}
	return out
}
