package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aya-platform/volunteer-hub/internal/domain"
	"github.com/aya-platform/volunteer-hub/internal/repository"
	"github.com/aya-platform/volunteer-hub/internal/storage"
)

type AdminUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	FindUnapproved(ctx context.Context) ([]domain.User, error)
	FindWithPendingChanges(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
	AssignRole(ctx context.Context, id uint, role domain.Role) ([]uint, error)
	SetActiveVolunteer(ctx context.Context, id uint, active bool) error
	UpdateAccount(ctx context.Context, id uint, upd repository.AccountUpdate) error
	UpdatePhoto(ctx context.Context, id uint, key string) error
	AddActivityPeriod(ctx context.Context, p domain.ActivityPeriod) (domain.ActivityPeriod, error)
	FindActivityPeriod(ctx context.Context, id uint) (domain.ActivityPeriod, error)
	DeleteActivityPeriod(ctx context.Context, id uint) error
}

type AdminService struct {
	repo     AdminUserRepository
	store    ObjectStore
	notifier Notifier
	auditor  Auditor
}

func NewAdminService(repo AdminUserRepository, store ObjectStore, notifier Notifier, auditor Auditor) *AdminService {
	return &AdminService{
		repo:     repo,
		store:    store,
		notifier: notifier,
		auditor:  auditor,
	}
}

// AccountEdit is a direct change of a user made by staff.
type AccountEdit struct {
	Username     string
	Email        string
	Profile      domain.Profile
	DirectionIDs []uint
	Photo        *Upload
}

type Dashboard struct {
	TotalUsers     int64 `json:"total_users"`
	PendingUsers   int   `json:"pending_users"`
	PendingChanges int   `json:"pending_changes"`
}

func (s *AdminService) ListUsers(ctx context.Context, actor domain.User) ([]domain.User, error) {
	if err := requireCapability(actor, domain.CapAdminister); err != nil {
		return nil, err
	}

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return users, nil
}

func (s *AdminService) Dashboard(ctx context.Context, actor domain.User) (Dashboard, error) {
	if err := requireCapability(actor, domain.CapModerate); err != nil {
		return Dashboard{}, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("s.repo.Count -> %w", err)
	}

	unapproved, err := s.repo.FindUnapproved(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("s.repo.FindUnapproved -> %w", err)
	}

	pending, err := s.repo.FindWithPendingChanges(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("s.repo.FindWithPendingChanges -> %w", err)
	}

	return Dashboard{
		TotalUsers:     total,
		PendingUsers:   len(unapproved),
		PendingChanges: len(pending),
	}, nil
}

func (s *AdminService) target(ctx context.Context, actor domain.User, c domain.Capability, id uint) (domain.User, error) {
	if err := requireCapability(actor, c); err != nil {
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

// UpdateRole gives user id a new role. Handing over head_admin demotes the
// previous holder to worker.
func (s *AdminService) UpdateRole(ctx context.Context, actor domain.User, id uint, role domain.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	user, err := s.target(ctx, actor, domain.CapAdminister, id)
	if err != nil {
		return err
	}

	if role == domain.RoleHeadAdmin && !actor.IsSuperuser && actor.Role != domain.RoleHeadAdmin {
		return ErrHeadAdminAssignment
	}
	if !domain.CanAssignRole(actor, user, role) {
		return ErrPermissionDenied
	}
	if user.Role == role {
		return nil
	}

	demoted, err := s.repo.AssignRole(ctx, user.ID, role)
	if err != nil {
		return fmt.Errorf("s.repo.AssignRole -> %w", err)
	}

	for _, id := range demoted {
		zap.L().Info("head administrator replaced",
			zap.Uint("previous_id", id),
			zap.Uint("new_id", user.ID))
		notify(ctx, s.notifier, id, "You are no longer the head administrator. Your role is now worker.", "/profile")
	}

	notify(ctx, s.notifier, user.ID, fmt.Sprintf("Your role was changed to %s.", role.Label()), "/profile")
	s.auditor.Record(ctx, actor,
		fmt.Sprintf("changed role of %s from %s to %s", user.DisplayName(), user.Role, role),
		&user)

	return nil
}

// ToggleActiveVolunteer flips the active volunteer title of user id and
// returns the new value.
func (s *AdminService) ToggleActiveVolunteer(ctx context.Context, actor domain.User, id uint) (bool, error) {
	user, err := s.target(ctx, actor, domain.CapAdminister, id)
	if err != nil {
		return false, err
	}

	active := !user.IsActiveVolunteer
	if err := s.repo.SetActiveVolunteer(ctx, user.ID, active); err != nil {
		return false, fmt.Errorf("s.repo.SetActiveVolunteer -> %w", err)
	}

	action := "granted active volunteer title to %s"
	if !active {
		action = "revoked active volunteer title from %s"
	}
	s.auditor.Record(ctx, actor, fmt.Sprintf(action, user.DisplayName()), &user)

	return active, nil
}

// EditUser applies staff changes to a user without moderation.
func (s *AdminService) EditUser(ctx context.Context, actor domain.User, id uint, edit AccountEdit) (domain.User, error) {
	user, err := s.target(ctx, actor, domain.CapModerate, id)
	if err != nil {
		return domain.User{}, err
	}

	err = s.repo.UpdateAccount(ctx, user.ID, repository.AccountUpdate{
		Username:     edit.Username,
		Email:        edit.Email,
		Profile:      edit.Profile,
		DirectionIDs: edit.DirectionIDs,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.UpdateAccount -> %w", err)
	}

	if edit.Photo != nil {
		key := storage.Key("photos", edit.Photo.Filename)
		if err := putUpload(ctx, s.store, key, edit.Photo); err != nil {
			return domain.User{}, fmt.Errorf("s.store.Put -> %w", err)
		}
		if err := s.repo.UpdatePhoto(ctx, user.ID, key); err != nil {
			removeObject(ctx, s.store, key)
			return domain.User{}, fmt.Errorf("s.repo.UpdatePhoto -> %w", err)
		}
		removeObject(ctx, s.store, user.PhotoKey)
	}

	notify(ctx, s.notifier, user.ID, "Your profile was updated by an administrator.", "/profile")
	s.auditor.Record(ctx, actor, fmt.Sprintf("edited profile of %s", user.DisplayName()), &user)

	updated, err := s.repo.FindByID(ctx, user.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return updated, nil
}

func (s *AdminService) AddActivityPeriod(ctx context.Context, actor domain.User, userID uint, period domain.ActivityPeriod) (domain.ActivityPeriod, error) {
	user, err := s.target(ctx, actor, domain.CapModerate, userID)
	if err != nil {
		return domain.ActivityPeriod{}, err
	}

	period.UserID = user.ID
	created, err := s.repo.AddActivityPeriod(ctx, period)
	if err != nil {
		return domain.ActivityPeriod{}, fmt.Errorf("s.repo.AddActivityPeriod -> %w", err)
	}

	s.auditor.Record(ctx, actor, fmt.Sprintf("added activity period to %s", user.DisplayName()), &user)

	return created, nil
}

func (s *AdminService) DeleteActivityPeriod(ctx context.Context, actor domain.User, id uint) error {
	period, err := s.repo.FindActivityPeriod(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindActivityPeriod -> %w", err)
	}

	user, err := s.target(ctx, actor, domain.CapModerate, period.UserID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteActivityPeriod(ctx, period.ID); err != nil {
		return fmt.Errorf("s.repo.DeleteActivityPeriod -> %w", err)
	}

	s.auditor.Record(ctx, actor, fmt.Sprintf("removed activity period from %s", user.DisplayName()), &user)

	return nil
}
