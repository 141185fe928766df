package repository

import (
	"context"
	"fmt"

	"github.com/aya-platform/volunteer-hub/internal/domain"
	"github.com/aya-platform/volunteer-hub/internal/repository/dao"
)

type AuditDAO interface {
	Insert(ctx context.Context, entry dao.AuditLog) (dao.AuditLog, error)
	FindPage(ctx context.Context, offset, limit int) ([]dao.AuditLog, int64, error)
}

type AuditRepository struct {
	dao AuditDAO
}

func NewAuditRepository(dao AuditDAO) *AuditRepository {
	return &AuditRepository{
		dao: dao,
	}
}

func (r *AuditRepository) Append(ctx context.Context, actorID uint, action string, targetID *uint) error {
	_, err := r.dao.Insert(ctx, dao.AuditLog{
		ActorID:      &actorID,
		Action:       action,
		TargetUserID: targetID,
	})
	if err != nil {
		return fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return nil
}

func (r *AuditRepository) List(ctx context.Context, page domain.Page) ([]domain.AuditLog, int64, error) {
	found, total, err := r.dao.FindPage(ctx, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.FindPage -> %w", err)
	}

	entries := make([]domain.AuditLog, 0, len(found))
	for _, e := range found {
		entries = append(entries, domain.AuditLog{
			ID:        e.ID,
			ActorID:   e.ActorID,
			Actor:     summaryOf(e.Actor),
			Action:    e.Action,
			TargetID:  e.TargetUserID,
			Target:    summaryOf(e.TargetUser),
			CreatedAt: e.CreatedAt,
		})
	}

	return entries, total, nil
}
