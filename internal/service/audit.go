package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aya-platform/volunteer-hub/internal/domain"
)

type AuditRepository interface {
	Append(ctx context.Context, actorID uint, action string, targetID *uint) error
	List(ctx context.Context, page domain.Page) ([]domain.AuditLog, int64, error)
}

type AuditService struct {
	repo AuditRepository
}

func NewAuditService(repo AuditRepository) *AuditService {
	return &AuditService{
		repo: repo,
	}
}

// Record appends an entry for actor. Superusers leave no trail, and a failed
// insert is only logged.
func (s *AuditService) Record(ctx context.Context, actor domain.User, action string, target *domain.User) {
	if actor.IsSuperuser {
		return
	}

	var targetID *uint
	if target != nil {
		id := target.ID
		targetID = &id
	}

	if err := s.repo.Append(ctx, actor.ID, action, targetID); err != nil {
		zap.L().Error("audit entry not recorded",
			zap.Uint("actor_id", actor.ID),
			zap.String("action", action),
			zap.Error(err))
	}
}

func (s *AuditService) List(ctx context.Context, actor domain.User, page domain.Page) ([]domain.AuditLog, int64, error) {
	if err := requireCapability(actor, domain.CapAdminister); err != nil {
		return nil, 0, err
	}

	entries, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.List -> %w", err)
	}

	return entries, total, nil
}
