package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/user"
)

// Notification with a nil RecipientID is a broadcast.
type Notification struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"`
	SenderID    *uuid.UUID          `gorm:"type:uuid;column:sender_id"`
	RecipientID *uuid.UUID          `gorm:"type:uuid;column:recipient_id;index"`
	Title       string              `gorm:"column:title;not null"`
	Message     string              `gorm:"column:message;not null"`
	Type        string              `gorm:"column:type;not null"`
	IsRead      bool                `gorm:"column:is_read;not null;default:false"`
	ReadAt      *time.Time          `gorm:"column:read_at"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime;index"`
	Sender      *userDatamodel.User `gorm:"foreignKey:SenderID;references:ID"`
	Recipient   *userDatamodel.User `gorm:"foreignKey:RecipientID;references:ID"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
