package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/staffsync/staffsync-backend/internal"
)

type RepositoryAPI interface {
	Create(ctx context.Context, n *Notification) error
	Get(ctx context.Context, id uuid.UUID) (*Notification, error)
	ListAddressed(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	ListSent(ctx context.Context, senderID uuid.UUID, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error
	// MarkAllRead flips every unread notification addressed to userID in
	// one statement and returns how many changed.
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
	IsEmployeeUser(ctx context.Context, userID uuid.UUID) (bool, error)
}

type ServiceAPI interface {
	Send(ctx context.Context, senderID uuid.UUID, dto SendDTO) (*View, error)
	Sent(ctx context.Context, senderID uuid.UUID, limit int) (*Outbox, error)
	Inbox(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) (*Inbox, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) Send(ctx context.Context, senderID uuid.UUID, dto SendDTO) (*View, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	n := &Notification{
		SenderID: &senderID,
		Title:    dto.Title,
		Message:  dto.Message,
		Type:     Type(dto.Type),
	}
	if dto.RecipientID != nil {
		recipientID, _ := uuid.Parse(*dto.RecipientID)
		ok, err := s.repo.IsEmployeeUser(ctx, recipientID)
		if err != nil {
			return nil, internal.NewInternalError("failed to load recipient", err)
		}
		if !ok {
			return nil, ErrRecipientNotFound
		}
		n.RecipientID = &recipientID
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("failed to send notification", "error", err, "sender_id", senderID)
		return nil, internal.NewInternalError("failed to send notification", err)
	}

	s.logger.Info("notification sent", "notification_id", n.ID, "broadcast", n.IsBroadcast())
	v := n.ToView()
	return &v, nil
}

func (s *Service) Sent(ctx context.Context, senderID uuid.UUID, limit int) (*Outbox, error) {
	items, err := s.repo.ListSent(ctx, senderID, limit)
	if err != nil {
		s.logger.Error("failed to list sent notifications", "error", err, "sender_id", senderID)
		return nil, internal.NewInternalError("failed to list notifications", err)
	}
	views := make([]View, len(items))
	for i := range items {
		views[i] = items[i].ToSentView()
	}
	return &Outbox{Notifications: views, Total: len(views)}, nil
}

// Inbox lists notifications addressed to the user, newest first. The
// unread count ignores limit and unreadOnly.
func (s *Service) Inbox(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) (*Inbox, error) {
	items, err := s.repo.ListAddressed(ctx, userID, unreadOnly, limit)
	if err != nil {
		s.logger.Error("failed to list notifications", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to list notifications", err)
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Error("failed to count unread notifications", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to list notifications", err)
	}
	return &Inbox{
		Notifications: ToViews(items),
		Total:         len(items),
		UnreadCount:   unread,
	}, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !n.AddressedTo(userID) {
		s.logger.Warn("notification read denied", "notification_id", id, "user_id", userID)
		return ErrNotificationAccess
	}
	if n.IsRead {
		return nil
	}
	if err := s.repo.MarkRead(ctx, id, s.now().UTC()); err != nil {
		return internal.NewInternalError("failed to mark notification read", err)
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID, s.now().UTC())
	if err != nil {
		s.logger.Error("failed to mark notifications read", "error", err, "user_id", userID)
		return 0, internal.NewInternalError("failed to mark notifications read", err)
	}
	return n, nil
}
