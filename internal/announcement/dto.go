package announcement

import (
	"strings"

	"github.com/staffsync/staffsync-backend/internal/core/common/validation"
)

type CreateDTO struct {
	Title          string `json:"title"`
	Content        string `json:"content"`
	Priority       string `json:"priority"`
	TargetAudience string `json:"target_audience"`
}

// Normalize defaults priority to normal and audience to all.
func (d *CreateDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	d.Priority = strings.ToLower(strings.TrimSpace(d.Priority))
	d.TargetAudience = strings.ToLower(strings.TrimSpace(d.TargetAudience))
	if d.Priority == "" {
		d.Priority = string(PriorityNormal)
	}
	if d.TargetAudience == "" {
		d.TargetAudience = string(AudienceAll)
	}
}

func (d CreateDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MinLength(3).MaxLength(255)
	v.Field("content", d.Content).Required().MaxLength(5000)
	v.Field("priority", d.Priority).OneOf(Priorities...)
	v.Field("target_audience", d.TargetAudience).OneOf(Audiences...)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
