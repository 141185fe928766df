package service

import (
	"context"
	"fmt"

	"github.com/aya-platform/volunteer-hub/internal/domain"
)

const notificationFeedLimit = 50

type NotificationRepository interface {
	CreateMany(ctx context.Context, recipientIDs []uint, message, link string) error
	ListForRecipient(ctx context.Context, recipientID uint, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
	MarkRead(ctx context.Context, id, recipientID uint) (domain.Notification, error)
	MarkAllRead(ctx context.Context, recipientID uint) (int64, error)
}

type StaffFinder interface {
	FindStaffIDs(ctx context.Context, roles []domain.Role) ([]uint, error)
}

type NotificationService struct {
	repo  NotificationRepository
	staff StaffFinder
}

func NewNotificationService(repo NotificationRepository, staff StaffFinder) *NotificationService {
	return &NotificationService{
		repo:  repo,
		staff: staff,
	}
}

func (s *NotificationService) Notify(ctx context.Context, recipientID uint, message, link string) error {
	if err := s.repo.CreateMany(ctx, []uint{recipientID}, message, link); err != nil {
		return fmt.Errorf("s.repo.CreateMany -> %w", err)
	}

	return nil
}

// NotifyStaff notifies every moderator-capable user and every superuser.
func (s *NotificationService) NotifyStaff(ctx context.Context, message, link string) error {
	ids, err := s.staff.FindStaffIDs(ctx, domain.RolesWith(domain.CapModerate))
	if err != nil {
		return fmt.Errorf("s.staff.FindStaffIDs -> %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	if err := s.repo.CreateMany(ctx, ids, message, link); err != nil {
		return fmt.Errorf("s.repo.CreateMany -> %w", err)
	}

	return nil
}

func (s *NotificationService) List(ctx context.Context, user domain.User) ([]domain.Notification, error) {
	notifications, err := s.repo.ListForRecipient(ctx, user.ID, notificationFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListForRecipient -> %w", err)
	}

	return notifications, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, user domain.User) (int64, error) {
	n, err := s.repo.CountUnread(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("s.repo.CountUnread -> %w", err)
	}

	return n, nil
}

// MarkRead marks one of the user's notifications read and returns its link.
func (s *NotificationService) MarkRead(ctx context.Context, user domain.User, id uint) (string, error) {
	n, err := s.repo.MarkRead(ctx, id, user.ID)
	if err != nil {
		return "", fmt.Errorf("s.repo.MarkRead -> %w", err)
	}

	return n.Link, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, user domain.User) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("s.repo.MarkAllRead -> %w", err)
	}

	return n, nil
}
