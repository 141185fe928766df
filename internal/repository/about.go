package repository

import (
	"context"
	"fmt"

	"github.com/aya-platform/volunteer-hub/internal/domain"
	"github.com/aya-platform/volunteer-hub/internal/repository/dao"
)

const defaultAboutTitle = "About us"

type AboutDAO interface {
	Get(ctx context.Context, defaults dao.AboutPage) (dao.AboutPage, error)
	Save(ctx context.Context, page dao.AboutPage) (dao.AboutPage, error)
}

type AboutRepository struct {
	dao AboutDAO
}

func NewAboutRepository(dao AboutDAO) *AboutRepository {
	return &AboutRepository{
		dao: dao,
	}
}

func (r *AboutRepository) Get(ctx context.Context) (domain.AboutPage, error) {
	page, err := r.dao.Get(ctx, dao.AboutPage{Title: defaultAboutTitle})
	if err != nil {
		return domain.AboutPage{}, fmt.Errorf("r.dao.Get -> %w", err)
	}

	return aboutToDomain(page), nil
}

func (r *AboutRepository) Save(ctx context.Context, page domain.AboutPage) (domain.AboutPage, error) {
	saved, err := r.dao.Save(ctx, dao.AboutPage{
		Title:    page.Title,
		Content:  page.Content,
		VideoURL: page.VideoURL,
	})
	if err != nil {
		return domain.AboutPage{}, fmt.Errorf("r.dao.Save -> %w", err)
	}

	return aboutToDomain(saved), nil
}

func aboutToDomain(p dao.AboutPage) domain.AboutPage {
	return domain.AboutPage{
		Title:     p.Title,
		Content:   p.Content,
		VideoURL:  p.VideoURL,
		UpdatedAt: p.UpdatedAt,
	}
}
