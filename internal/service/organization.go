package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/aya-platform/volunteer-hub/internal/domain"
)

type OrganizationRepository interface {
	ListDirections(ctx context.Context) ([]domain.Direction, error)
	FindDirection(ctx context.Context, id uint) (domain.Direction, error)
	CreateDirection(ctx context.Context, name string) (domain.Direction, error)
	DeleteDirection(ctx context.Context, id uint) error
	SetDirectionLeader(ctx context.Context, id uint, leaderID *uint) (*uint, error)
	ListSchools(ctx context.Context) ([]domain.School, error)
	FindSchool(ctx context.Context, id uint) (domain.School, error)
	CreateSchool(ctx context.Context, name string) (domain.School, error)
	DeleteSchool(ctx context.Context, id uint) error
	ToggleSchoolLeader(ctx context.Context, schoolID, userID uint) (bool, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type OrganizationService struct {
	repo     OrganizationRepository
	users    UserFinder
	notifier Notifier
	auditor  Auditor
}

func NewOrganizationService(repo OrganizationRepository, users UserFinder, notifier Notifier, auditor Auditor) *OrganizationService {
	return &OrganizationService{
		repo:     repo,
		users:    users,
		notifier: notifier,
		auditor:  auditor,
	}
}

func (s *OrganizationService) ListDirections(ctx context.Context) ([]domain.Direction, error) {
	directions, err := s.repo.ListDirections(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListDirections -> %w", err)
	}

	return directions, nil
}

func (s *OrganizationService) CreateDirection(ctx context.Context, actor domain.User, name string) (domain.Direction, error) {
	if err := requireCapability(actor, domain.CapAdminister); err != nil {
		return domain.Direction{}, err
	}

	direction, err := s.repo.CreateDirection(ctx, strings.TrimSpace(name))
	if err != nil {
		return domain.Direction{}, fmt.Errorf("s.repo.CreateDirection -> %w", err)
	}

	s.auditor.Record(ctx, actor, fmt.Sprintf("created direction %q", direction.Name), nil)

	return direction, nil
}

func (s *OrganizationService) DeleteDirection(ctx context.Context, actor domain.User, id uint) error {
	if err := requireCapability(actor, domain.CapAdminister); err != nil {
		return err
	}

	direction, err := s.repo.FindDirection(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindDirection -> %w", err)
	}

	if err := s.repo.DeleteDirection(ctx, direction.ID); err != nil {
		return fmt.Errorf("s.repo.DeleteDirection -> %w", err)
	}

	s.auditor.Record(ctx, actor, fmt.Sprintf("deleted direction %q", direction.Name), nil)

	return nil
}

// leader loads a prospective leader. They must be approved and ranked below
// actor.
func (s *OrganizationService) leader(ctx context.Context, actor domain.User, id uint) (domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}
	if !user.IsApproved {
		return domain.User{}, ErrUserNotApproved
	}
	if err := requireOutranks(actor, user); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

// SetDirectionLeader makes leaderID the leader of direction id; nil clears
// the post. Leader roles of everyone involved are recomputed.
func (s *OrganizationService) SetDirectionLeader(ctx context.Context, actor domain.User, id uint, leaderID *uint) error {
	if err := requireCapability(actor, domain.CapAdminister); err != nil {
		return err
	}

	direction, err := s.repo.FindDirection(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindDirection -> %w", err)
	}

	var leader *domain.User
	if leaderID != nil {
		user, err := s.leader(ctx, actor, *leaderID)
		if err != nil {
			return err
		}
		leader = &user
	}

	if _, err := s.repo.SetDirectionLeader(ctx, direction.ID, leaderID); err != nil {
		return fmt.Errorf("s.repo.SetDirectionLeader -> %w", err)
	}

	if leader == nil {
		s.auditor.Record(ctx, actor, fmt.Sprintf("cleared leader of direction %q", direction.Name), nil)
		return nil
	}

	notify(ctx, s.notifier, leader.ID, fmt.Sprintf("You are now the leader of %q.", direction.Name), "/directions")
	s.auditor.Record(ctx, actor,
		fmt.Sprintf("assigned %s as leader of direction %q", leader.DisplayName(), direction.Name),
		leader)

	return nil
}

func (s *OrganizationService) ListSchools(ctx context.Context) ([]domain.School, error) {
	schools, err := s.repo.ListSchools(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListSchools -> %w", err)
	}

	return schools, nil
}

func (s *OrganizationService) CreateSchool(ctx context.Context, actor domain.User, name string) (domain.School, error) {
	if err := requireCapability(actor, domain.CapAdminister); err != nil {
		return domain.School{}, err
	}

	school, err := s.repo.CreateSchool(ctx, strings.TrimSpace(name))
	if err != nil {
		return domain.School{}, fmt.Errorf("s.repo.CreateSchool -> %w", err)
	}

	s.auditor.Record(ctx, actor, fmt.Sprintf("created school %q", school.Name), nil)

	return school, nil
}

func (s *OrganizationService) DeleteSchool(ctx context.Context, actor domain.User, id uint) error {
	if err := requireCapability(actor, domain.CapAdminister); err != nil {
		return err
	}

	school, err := s.repo.FindSchool(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindSchool -> %w", err)
	}

	if err := s.repo.DeleteSchool(ctx, school.ID); err != nil {
		return fmt.Errorf("s.repo.DeleteSchool -> %w", err)
	}

	s.auditor.Record(ctx, actor, fmt.Sprintf("deleted school %q", school.Name), nil)

	return nil
}

// ToggleSchoolLeader adds or removes userID among the leaders of school id
// and reports whether they were added.
func (s *OrganizationService) ToggleSchoolLeader(ctx context.Context, actor domain.User, schoolID, userID uint) (bool, error) {
	if err := requireCapability(actor, domain.CapAdminister); err != nil {
		return false, err
	}

	school, err := s.repo.FindSchool(ctx, schoolID)
	if err != nil {
		return false, fmt.Errorf("s.repo.FindSchool -> %w", err)
	}

	var user domain.User
	if school.HasLeader(userID) {
		// Removing a leader only needs rank.
		if user, err = s.users.FindByID(ctx, userID); err != nil {
			return false, fmt.Errorf("s.users.FindByID -> %w", err)
		}
		if err := requireOutranks(actor, user); err != nil {
			return false, err
		}
	} else if user, err = s.leader(ctx, actor, userID); err != nil {
		return false, err
	}

	added, err := s.repo.ToggleSchoolLeader(ctx, school.ID, user.ID)
	if err != nil {
		return false, fmt.Errorf("s.repo.ToggleSchoolLeader -> %w", err)
	}

	if added {
		notify(ctx, s.notifier, user.ID, fmt.Sprintf("You are now a leader of %q.", school.Name), "/schools")
		s.auditor.Record(ctx, actor, fmt.Sprintf("added %s as leader of school %q", user.DisplayName(), school.Name), &user)
	} else {
		s.auditor.Record(ctx, actor, fmt.Sprintf("removed %s from leaders of school %q", user.DisplayName(), school.Name), &user)
	}

	return added, nil
}
