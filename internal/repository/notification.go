package repository

import (
	"context"
	"fmt"

	"github.com/aya-platform/volunteer-hub/internal/domain"
	"github.com/aya-platform/volunteer-hub/internal/repository/dao"
)

var ErrNotificationNotFound = dao.ErrNotificationNotFound

type NotificationDAO interface {
	Insert(ctx context.Context, notifications []dao.Notification) error
	FindByRecipient(ctx context.Context, recipientID uint, limit int) ([]dao.Notification, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
	MarkRead(ctx context.Context, id, recipientID uint) (dao.Notification, error)
	MarkAllRead(ctx context.Context, recipientID uint) (int64, error)
}

type NotificationRepository struct {
	dao NotificationDAO
}

func NewNotificationRepository(dao NotificationDAO) *NotificationRepository {
	return &NotificationRepository{
		dao: dao,
	}
}

// CreateMany sends the same message to every recipient.
func (r *NotificationRepository) CreateMany(ctx context.Context, recipientIDs []uint, message, link string) error {
	rows := make([]dao.Notification, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		rows = append(rows, dao.Notification{RecipientID: id, Message: message, Link: link})
	}

	if err := r.dao.Insert(ctx, rows); err != nil {
		return fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return nil
}

func (r *NotificationRepository) ListForRecipient(ctx context.Context, recipientID uint, limit int) ([]domain.Notification, error) {
	found, err := r.dao.FindByRecipient(ctx, recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByRecipient -> %w", err)
	}

	out := make([]domain.Notification, 0, len(found))
	for _, n := range found {
		out = append(out, notificationToDomain(n))
	}

	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	n, err := r.dao.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountUnread -> %w", err)
	}

	return n, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID uint) (domain.Notification, error) {
	n, err := r.dao.MarkRead(ctx, id, recipientID)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("r.dao.MarkRead -> %w", err)
	}

	return notificationToDomain(n), nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	n, err := r.dao.MarkAllRead(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.MarkAllRead -> %w", err)
	}

	return n, nil
}

func notificationToDomain(n dao.Notification) domain.Notification {
	return domain.Notification{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Message:     n.Message,
		Link:        n.Link,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
	}
}
