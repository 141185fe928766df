package repository

import (
	"context"
	"fmt"

	"github.com/aya-platform/volunteer-hub/internal/domain"
	"github.com/aya-platform/volunteer-hub/internal/repository/dao"
)

var (
	ErrDirectionNameExists = dao.ErrDirectionNameExists
	ErrSchoolNotFound      = dao.ErrSchoolNotFound
	ErrSchoolNameExists    = dao.ErrSchoolNameExists
)

type OrganizationDAO interface {
	FindDirections(ctx context.Context) ([]dao.Direction, error)
	FindDirection(ctx context.Context, id uint) (dao.Direction, error)
	InsertDirection(ctx context.Context, direction dao.Direction) (dao.Direction, error)
	DeleteDirection(ctx context.Context, id uint, rule dao.RoleRule) error
	SetDirectionLeader(ctx context.Context, id uint, leaderID *uint, rule dao.RoleRule) (*uint, error)
	FindSchools(ctx context.Context) ([]dao.School, error)
	FindSchool(ctx context.Context, id uint) (dao.School, error)
	InsertSchool(ctx context.Context, school dao.School) (dao.School, error)
	DeleteSchool(ctx context.Context, id uint, rule dao.RoleRule) error
	ToggleSchoolLeader(ctx context.Context, schoolID, userID uint, rule dao.RoleRule) (bool, error)
}

type OrganizationRepository struct {
	dao OrganizationDAO
}

func NewOrganizationRepository(dao OrganizationDAO) *OrganizationRepository {
	return &OrganizationRepository{
		dao: dao,
	}
}

// leadershipRule keeps role changes caused by leadership in one place.
func leadershipRule(role string, leaderships int) string {
	return string(domain.LeadershipRole(domain.Role(role), leaderships))
}

func (r *OrganizationRepository) ListDirections(ctx context.Context) ([]domain.Direction, error) {
	found, err := r.dao.FindDirections(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindDirections -> %w", err)
	}

	directions := make([]domain.Direction, 0, len(found))
	for _, d := range found {
		directions = append(directions, directionToDomain(d))
	}

	return directions, nil
}

func (r *OrganizationRepository) FindDirection(ctx context.Context, id uint) (domain.Direction, error) {
	found, err := r.dao.FindDirection(ctx, id)
	if err != nil {
		return domain.Direction{}, fmt.Errorf("r.dao.FindDirection -> %w", err)
	}

	return directionToDomain(found), nil
}

func (r *OrganizationRepository) CreateDirection(ctx context.Context, name string) (domain.Direction, error) {
	created, err := r.dao.InsertDirection(ctx, dao.Direction{Name: name})
	if err != nil {
		return domain.Direction{}, fmt.Errorf("r.dao.InsertDirection -> %w", err)
	}

	return directionToDomain(created), nil
}

func (r *OrganizationRepository) DeleteDirection(ctx context.Context, id uint) error {
	if err := r.dao.DeleteDirection(ctx, id, leadershipRule); err != nil {
		return fmt.Errorf("r.dao.DeleteDirection -> %w", err)
	}

	return nil
}

// SetDirectionLeader returns the id of the replaced leader, if any.
func (r *OrganizationRepository) SetDirectionLeader(ctx context.Context, id uint, leaderID *uint) (*uint, error) {
	previous, err := r.dao.SetDirectionLeader(ctx, id, leaderID, leadershipRule)
	if err != nil {
		return nil, fmt.Errorf("r.dao.SetDirectionLeader -> %w", err)
	}

	return previous, nil
}

func (r *OrganizationRepository) ListSchools(ctx context.Context) ([]domain.School, error) {
	found, err := r.dao.FindSchools(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindSchools -> %w", err)
	}

	schools := make([]domain.School, 0, len(found))
	for _, s := range found {
		schools = append(schools, schoolToDomain(s))
	}

	return schools, nil
}

func (r *OrganizationRepository) FindSchool(ctx context.Context, id uint) (domain.School, error) {
	found, err := r.dao.FindSchool(ctx, id)
	if err != nil {
		return domain.School{}, fmt.Errorf("r.dao.FindSchool -> %w", err)
	}

	return schoolToDomain(found), nil
}

func (r *OrganizationRepository) CreateSchool(ctx context.Context, name string) (domain.School, error) {
	created, err := r.dao.InsertSchool(ctx, dao.School{Name: name})
	if err != nil {
		return domain.School{}, fmt.Errorf("r.dao.InsertSchool -> %w", err)
	}

	return schoolToDomain(created), nil
}

func (r *OrganizationRepository) DeleteSchool(ctx context.Context, id uint) error {
	if err := r.dao.DeleteSchool(ctx, id, leadershipRule); err != nil {
		return fmt.Errorf("r.dao.DeleteSchool -> %w", err)
	}

	return nil
}

func (r *OrganizationRepository) ToggleSchoolLeader(ctx context.Context, schoolID, userID uint) (bool, error) {
	added, err := r.dao.ToggleSchoolLeader(ctx, schoolID, userID, leadershipRule)
	if err != nil {
		return false, fmt.Errorf("r.dao.ToggleSchoolLeader -> %w", err)
	}

	return added, nil
}

func directionToDomain(d dao.Direction) domain.Direction {
	return domain.Direction{
		ID:        d.ID,
		Name:      d.Name,
		LeaderID:  d.LeaderID,
		Leader:    summaryOf(d.Leader),
		CreatedAt: d.CreatedAt,
	}
}

func schoolToDomain(s dao.School) domain.School {
	school := domain.School{
		ID:        s.ID,
		Name:      s.Name,
		Leaders:   make([]domain.UserSummary, 0, len(s.Leaders)),
		CreatedAt: s.CreatedAt,
	}
	for _, l := range s.Leaders {
		school.Leaders = append(school.Leaders, userToDomain(l).Summary())
	}

	return school
}
