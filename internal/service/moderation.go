package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/aya-platform/volunteer-hub/internal/domain"
)

const defaultRejectReason = "No reason given."

type ModerationUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindUnapproved(ctx context.Context) ([]domain.User, error)
	FindWithPendingChanges(ctx context.Context) ([]domain.User, error)
	Approve(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	ApplyPendingChanges(ctx context.Context, id uint, changes domain.ProfileChanges) error
	RejectPendingChanges(ctx context.Context, id uint, comment string) error
}

type ModerationService struct {
	repo     ModerationUserRepository
	store    ObjectStore
	notifier Notifier
	auditor  Auditor
}

func NewModerationService(repo ModerationUserRepository, store ObjectStore, notifier Notifier, auditor Auditor) *ModerationService {
	return &ModerationService{
		repo:     repo,
		store:    store,
		notifier: notifier,
		auditor:  auditor,
	}
}

func (s *ModerationService) ListPendingUsers(ctx context.Context, actor domain.User) ([]domain.User, error) {
	if err := requireCapability(actor, domain.CapModerate); err != nil {
		return nil, err
	}

	users, err := s.repo.FindUnapproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindUnapproved -> %w", err)
	}

	return users, nil
}

// target loads user id and checks that actor may moderate them.
func (s *ModerationService) target(ctx context.Context, actor domain.User, id uint) (domain.User, error) {
	if err := requireCapability(actor, domain.CapModerate); err != nil {
		return domain.User{}, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err := requireOutranks(actor, user); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (s *ModerationService) ApproveUser(ctx context.Context, actor domain.User, id uint) error {
	user, err := s.target(ctx, actor, id)
	if err != nil {
		return err
	}
	if user.IsApproved {
		return ErrUserAlreadyApproved
	}

	if err := s.repo.Approve(ctx, user.ID); err != nil {
		return fmt.Errorf("s.repo.Approve -> %w", err)
	}

	notify(ctx, s.notifier, user.ID, "Your registration was approved. Welcome aboard!", "/profile")
	s.auditor.Record(ctx, actor, fmt.Sprintf("approved registration of %s", user.DisplayName()), &user)

	return nil
}

// RejectUser deletes an unapproved registration.
func (s *ModerationService) RejectUser(ctx context.Context, actor domain.User, id uint, reason string) error {
	user, err := s.target(ctx, actor, id)
	if err != nil {
		return err
	}
	if user.IsApproved {
		return ErrUserAlreadyApproved
	}

	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}
	removeObject(ctx, s.store, user.PhotoKey)
	removeObject(ctx, s.store, user.QRCodeKey)

	s.auditor.Record(ctx, actor,
		fmt.Sprintf("rejected registration of %s (%s): %s", user.DisplayName(), user.Username, rejectReason(reason)),
		nil)

	return nil
}

// ListPendingChanges returns users with a submitted diff. Old values are
// refreshed from the live profile.
func (s *ModerationService) ListPendingChanges(ctx context.Context, actor domain.User) ([]domain.User, error) {
	if err := requireCapability(actor, domain.CapModerate); err != nil {
		return nil, err
	}

	users, err := s.repo.FindWithPendingChanges(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindWithPendingChanges -> %w", err)
	}

	for i := range users {
		users[i].PendingChanges = users[i].PendingChanges.WithCurrent(users[i].Profile)
	}

	return users, nil
}

func (s *ModerationService) ApproveChanges(ctx context.Context, actor domain.User, id uint) error {
	user, err := s.target(ctx, actor, id)
	if err != nil {
		return err
	}
	if !user.HasPendingChanges() {
		return ErrNoPendingChanges
	}

	if err := s.repo.ApplyPendingChanges(ctx, user.ID, user.PendingChanges); err != nil {
		return fmt.Errorf("s.repo.ApplyPendingChanges -> %w", err)
	}

	notify(ctx, s.notifier, user.ID, "Your profile changes were approved.", "/profile")
	s.auditor.Record(ctx, actor,
		fmt.Sprintf("approved profile changes of %s (%s)", user.DisplayName(), joinFields(user.PendingChanges.Fields())),
		&user)

	return nil
}

func (s *ModerationService) RejectChanges(ctx context.Context, actor domain.User, id uint, reason string) error {
	user, err := s.target(ctx, actor, id)
	if err != nil {
		return err
	}
	if !user.HasPendingChanges() {
		return ErrNoPendingChanges
	}

	reason = rejectReason(reason)
	if err := s.repo.RejectPendingChanges(ctx, user.ID, reason); err != nil {
		return fmt.Errorf("s.repo.RejectPendingChanges -> %w", err)
	}

	notify(ctx, s.notifier, user.ID, "Your profile changes were rejected: "+reason, "/profile")
	s.auditor.Record(ctx, actor, fmt.Sprintf("rejected profile changes of %s: %s", user.DisplayName(), reason), &user)

	return nil
}

func rejectReason(reason string) string {
	if reason = strings.TrimSpace(reason); reason == "" {
		return defaultRejectReason
	}
	return reason
}

func joinFields(fields []domain.ProfileField) string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}
