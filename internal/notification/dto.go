package notification

import (
	"strings"

	"github.com/staffsync/staffsync-backend/internal/core/common/validation"
)

// SendDTO addresses one employee, or everyone when RecipientID is empty.
type SendDTO struct {
	RecipientID *string `json:"recipient_id"`
	Title       string  `json:"title"`
	Message     string  `json:"message"`
	Type        string  `json:"type"`
}

func (d *SendDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Message = strings.TrimSpace(d.Message)
	d.Type = strings.ToLower(strings.TrimSpace(d.Type))
	if d.Type == "" {
		d.Type = string(TypeInfo)
	}
	if d.RecipientID != nil && strings.TrimSpace(*d.RecipientID) == "" {
		d.RecipientID = nil
	}
}

func (d SendDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("recipient_id", d.RecipientID).UUID()
	v.Field("title", d.Title).Required().MaxLength(255)
	v.Field("message", d.Message).Required().MaxLength(2000)
	v.Field("type", d.Type).OneOf(Types...)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type Inbox struct {
	Notifications []View `json:"notifications"`
	Total         int    `json:"total"`
	UnreadCount   int64  `json:"unread_count"`
}

type Outbox struct {
	Notifications []View `json:"notifications"`
	Total         int    `json:"total"`
}
