package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/staffsync/staffsync-backend/internal"
	notificationDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/notification"
)

type Type string

const (
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
	TypeSuccess Type = "success"
	TypeError   Type = "error"
)

var Types = []string{string(TypeInfo), string(TypeWarning), string(TypeSuccess), string(TypeError)}

const (
	systemSender   = "System"
	broadcastLabel = "All Employees"
)

var (
	ErrNotificationNotFound = internal.NewNotFoundError("Notification not found", internal.ErrCodeNotificationNotFound)
	ErrNotificationAccess   = internal.NewForbiddenError("You don't have access to this notification", internal.ErrCodeNotificationAccess)
	ErrRecipientNotFound    = internal.NewNotFoundError("Recipient employee not found", internal.ErrCodeUserNotFound)
)

// Notification with a nil RecipientID is a broadcast.
type Notification struct {
	ID            uuid.UUID
	SenderID      *uuid.UUID
	RecipientID   *uuid.UUID
	Title         string
	Message       string
	Type          Type
	IsRead        bool
	ReadAt        *time.Time
	CreatedAt     time.Time
	SenderName    string
	RecipientName string
}

// AddressedTo reports whether userID may see n.
func (n *Notification) AddressedTo(userID uuid.UUID) bool {
	return n.RecipientID == nil || *n.RecipientID == userID
}

func (n *Notification) IsBroadcast() bool {
	return n.RecipientID == nil
}

type View struct {
	ID            uuid.UUID  `json:"id"`
	SenderID      *uuid.UUID `json:"sender_id"`
	SenderName    string     `json:"sender_name"`
	RecipientID   *uuid.UUID `json:"recipient_id"`
	RecipientName string     `json:"recipient_name,omitempty"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	Type          Type       `json:"type"`
	IsRead        bool       `json:"is_read"`
	CreatedAt     time.Time  `json:"created_at"`
	ReadAt        *time.Time `json:"read_at"`
}

func (n *Notification) ToView() View {
	sender := n.SenderName
	if n.SenderID == nil || sender == "" {
		sender = systemSender
	}
	return View{
		ID:          n.ID,
		SenderID:    n.SenderID,
		SenderName:  sender,
		RecipientID: n.RecipientID,
		Title:       n.Title,
		Message:     n.Message,
		Type:        n.Type,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
		ReadAt:      n.ReadAt,
	}
}

// ToSentView labels the recipient for the sender's outbox.
func (n *Notification) ToSentView() View {
	v := n.ToView()
	switch {
	case n.IsBroadcast():
		v.RecipientName = broadcastLabel
	case n.RecipientName != "":
		v.RecipientName = n.RecipientName
	default:
		v.RecipientName = "Unknown"
	}
	return v
}

func ToViews(items []Notification) []View {
	out := make([]View, len(items))
	for i := range items {
		out[i] = items[i].ToView()
	}
	return out
}

func ToDataModel(n *Notification) *notificationDatamodel.Notification {
	return &notificationDatamodel.Notification{
		ID:          n.ID,
		SenderID:    n.SenderID,
		RecipientID: n.RecipientID,
		Title:       n.Title,
		Message:     n.Message,
		Type:        string(n.Type),
		IsRead:      n.IsRead,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
}

func FromDataModel(m *notificationDatamodel.Notification) *Notification {
	n := &Notification{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Title:       m.Title,
		Message:     m.Message,
		Type:        Type(m.Type),
		IsRead:      m.IsRead,
		ReadAt:      m.ReadAt,
		CreatedAt:   m.CreatedAt,
	}
	if m.Sender != nil {
		n.SenderName = m.Sender.Name
	}
	if m.Recipient != nil {
		n.RecipientName = m.Recipient.Name
	}
	return n
}

func FromDataModelSlice(rows []notificationDatamodel.Notification) []Notification {
	out := make([]Notification, len(rows))
	for i := range rows {
		out[i] = *FromDataModel(&rows[i])
	}
	return out
}
