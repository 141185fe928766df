package service

import (
	"context"
	"fmt"

	"github.com/aya-platform/volunteer-hub/internal/domain"
	"github.com/aya-platform/volunteer-hub/internal/storage"
)

type ProfileUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	SetPendingChanges(ctx context.Context, id uint, changes domain.ProfileChanges) error
	UpdatePhoto(ctx context.Context, id uint, key string) error
	ClearModerationComment(ctx context.Context, id uint) error
	ListActivityPeriods(ctx context.Context, userID uint) ([]domain.ActivityPeriod, error)
}

type ProfileService struct {
	repo     ProfileUserRepository
	store    ObjectStore
	notifier Notifier
}

func NewProfileService(repo ProfileUserRepository, store ObjectStore, notifier Notifier) *ProfileService {
	return &ProfileService{
		repo:     repo,
		store:    store,
		notifier: notifier,
	}
}

// ProfileView is a user as seen by a particular viewer.
type ProfileView struct {
	User            domain.User             `json:"user"`
	ActivityPeriods []domain.ActivityPeriod `json:"activity_periods"`
	IsOwner         bool                    `json:"is_owner"`
	CanAdminEdit    bool                    `json:"can_admin_edit"`
}

func (s *ProfileService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

// GetPublic returns the profile of id as viewer may see it. A nil viewer is
// an anonymous visitor. Unapproved profiles are hidden from everyone but
// their owner and moderators.
func (s *ProfileService) GetPublic(ctx context.Context, viewer *domain.User, id uint) (ProfileView, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ProfileView{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	isOwner := viewer != nil && viewer.ID == user.ID
	isModerator := viewer != nil && domain.Can(*viewer, domain.CapModerate)
	if !user.IsApproved && !isOwner && !isModerator {
		return ProfileView{}, ErrUserNotFound
	}

	periods, err := s.repo.ListActivityPeriods(ctx, user.ID)
	if err != nil {
		return ProfileView{}, fmt.Errorf("s.repo.ListActivityPeriods -> %w", err)
	}

	return ProfileView{
		User:            visibleTo(viewer, user),
		ActivityPeriods: periods,
		IsOwner:         isOwner,
		CanAdminEdit:    isModerator && domain.Outranks(*viewer, user),
	}, nil
}

// SubmitOwnChanges stores the difference between proposed and the live
// profile for moderation, replacing any earlier submission. A photo is
// applied at once. Nothing is stored when nothing changed.
func (s *ProfileService) SubmitOwnChanges(ctx context.Context, actor domain.User, proposed domain.Profile, photo *Upload) (domain.User, error) {
	current, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if photo != nil {
		if err := s.replacePhoto(ctx, current, photo); err != nil {
			return domain.User{}, err
		}
	}

	changes := domain.DiffProfile(current.Profile, proposed)
	if len(changes) > 0 {
		if err := s.repo.SetPendingChanges(ctx, current.ID, changes); err != nil {
			return domain.User{}, fmt.Errorf("s.repo.SetPendingChanges -> %w", err)
		}

		notifyStaff(ctx, s.notifier,
			fmt.Sprintf("%s submitted profile changes for review.", current.DisplayName()),
			"/moderation/changes")
	}

	updated, err := s.repo.FindByID(ctx, current.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return updated, nil
}

func (s *ProfileService) DismissModerationComment(ctx context.Context, actor domain.User) error {
	if err := s.repo.ClearModerationComment(ctx, actor.ID); err != nil {
		return fmt.Errorf("s.repo.ClearModerationComment -> %w", err)
	}

	return nil
}

func (s *ProfileService) replacePhoto(ctx context.Context, user domain.User, photo *Upload) error {
	key := storage.Key("photos", photo.Filename)
	if err := putUpload(ctx, s.store, key, photo); err != nil {
		return fmt.Errorf("s.store.Put -> %w", err)
	}

	if err := s.repo.UpdatePhoto(ctx, user.ID, key); err != nil {
		removeObject(ctx, s.store, key)
		return fmt.Errorf("s.repo.UpdatePhoto -> %w", err)
	}
	removeObject(ctx, s.store, user.PhotoKey)

	return nil
}

// visibleTo strips what viewer may not see of u: contact fields according
// to their privacy, and account details unless viewer is u or a moderator.
func visibleTo(viewer *domain.User, u domain.User) domain.User {
	if !domain.CanSeeContact(viewer, u, u.PhonePrivacy) {
		u.Phone = ""
	}
	if !domain.CanSeeContact(viewer, u, u.TelegramPrivacy) {
		u.Telegram = ""
	}

	if viewer == nil || (viewer.ID != u.ID && !domain.Can(*viewer, domain.CapModerate)) {
		u.Email = ""
		u.PendingChanges = nil
		u.ModerationComment = ""
	}

	return u
}
