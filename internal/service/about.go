package service

import (
	"context"
	"fmt"

	"github.com/aya-platform/volunteer-hub/internal/domain"
)

type AboutRepository interface {
	Get(ctx context.Context) (domain.AboutPage, error)
	Save(ctx context.Context, page domain.AboutPage) (domain.AboutPage, error)
}

type AboutService struct {
	repo    AboutRepository
	auditor Auditor
}

func NewAboutService(repo AboutRepository, auditor Auditor) *AboutService {
	return &AboutService{
		repo:    repo,
		auditor: auditor,
	}
}

func (s *AboutService) Get(ctx context.Context) (domain.AboutPage, error) {
	page, err := s.repo.Get(ctx)
	if err != nil {
		return domain.AboutPage{}, fmt.Errorf("s.repo.Get -> %w", err)
	}

	return page, nil
}

func (s *AboutService) Update(ctx context.Context, actor domain.User, page domain.AboutPage) (domain.AboutPage, error) {
	if err := requireCapability(actor, domain.CapAdminister); err != nil {
		return domain.AboutPage{}, err
	}

	saved, err := s.repo.Save(ctx, page)
	if err != nil {
		return domain.AboutPage{}, fmt.Errorf("s.repo.Save -> %w", err)
	}

	s.auditor.Record(ctx, actor, "updated the about page", nil)

	return saved, nil
}
