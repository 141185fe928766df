package service

import (
	"context"
	"fmt"

	"github.com/aya-platform/volunteer-hub/internal/domain"
)

const homeEventsLimit = 3

type DirectoryUserRepository interface {
	FindApprovedByRoles(ctx context.Context, roles ...domain.Role) ([]domain.User, error)
	FindDirectory(ctx context.Context, f domain.DirectoryFilter) ([]domain.User, error)
	Facets(ctx context.Context) (domain.DirectoryFacets, error)
}

type UpcomingEvents interface {
	Upcoming(ctx context.Context, limit int) ([]domain.Event, error)
}

type DirectionLister interface {
	ListDirections(ctx context.Context) ([]domain.Direction, error)
}

// DirectoryService serves the public pages: home, administration and the
// volunteer directory.
type DirectoryService struct {
	users      DirectoryUserRepository
	events     UpcomingEvents
	directions DirectionLister
}

func NewDirectoryService(users DirectoryUserRepository, events UpcomingEvents, directions DirectionLister) *DirectoryService {
	return &DirectoryService{
		users:      users,
		events:     events,
		directions: directions,
	}
}

type Home struct {
	President *domain.User   `json:"president"`
	Events    []domain.Event `json:"events"`
}

type Administration struct {
	HeadAdmin *domain.User  `json:"head_admin"`
	Workers   []domain.User `json:"workers"`
}

type Directory struct {
	Volunteers []domain.User          `json:"volunteers"`
	Facets     domain.DirectoryFacets `json:"facets"`
}

func (s *DirectoryService) Home(ctx context.Context, viewer *domain.User) (Home, error) {
	presidents, err := s.users.FindApprovedByRoles(ctx, domain.RolePresident)
	if err != nil {
		return Home{}, fmt.Errorf("s.users.FindApprovedByRoles -> %w", err)
	}

	events, err := s.events.Upcoming(ctx, homeEventsLimit)
	if err != nil {
		return Home{}, fmt.Errorf("s.events.Upcoming -> %w", err)
	}

	home := Home{Events: events}
	if len(presidents) > 0 {
		p := visibleTo(viewer, presidents[0])
		home.President = &p
	}

	return home, nil
}

func (s *DirectoryService) Administration(ctx context.Context, viewer *domain.User) (Administration, error) {
	staff, err := s.users.FindApprovedByRoles(ctx, domain.RoleHeadAdmin, domain.RoleWorker)
	if err != nil {
		return Administration{}, fmt.Errorf("s.users.FindApprovedByRoles -> %w", err)
	}

	admin := Administration{Workers: []domain.User{}}
	for _, u := range staff {
		u = visibleTo(viewer, u)
		if u.Role == domain.RoleHeadAdmin && admin.HeadAdmin == nil {
			admin.HeadAdmin = &u
			continue
		}
		if u.Role == domain.RoleWorker {
			admin.Workers = append(admin.Workers, u)
		}
	}

	return admin, nil
}

// Volunteers lists approved users matching f together with the values the
// directory can be filtered by.
func (s *DirectoryService) Volunteers(ctx context.Context, viewer *domain.User, f domain.DirectoryFilter) (Directory, error) {
	users, err := s.users.FindDirectory(ctx, f)
	if err != nil {
		return Directory{}, fmt.Errorf("s.users.FindDirectory -> %w", err)
	}

	facets, err := s.users.Facets(ctx)
	if err != nil {
		return Directory{}, fmt.Errorf("s.users.Facets -> %w", err)
	}

	if facets.Directions, err = s.directions.ListDirections(ctx); err != nil {
		return Directory{}, fmt.Errorf("s.directions.ListDirections -> %w", err)
	}

	volunteers := make([]domain.User, 0, len(users))
	for _, u := range users {
		volunteers = append(volunteers, visibleTo(viewer, u))
	}

	return Directory{Volunteers: volunteers, Facets: facets}, nil
}
