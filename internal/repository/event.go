package repository

import (
	"context"
	"fmt"

	"github.com/aya-platform/volunteer-hub/internal/domain"
	"github.com/aya-platform/volunteer-hub/internal/repository/dao"
)

var (
	ErrEventNotFound         = dao.ErrEventNotFound
	ErrEventAlreadyCompleted = dao.ErrEventAlreadyCompleted
	ErrEventPhotoNotFound    = dao.ErrEventPhotoNotFound
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindUpcoming(ctx context.Context, limit int) ([]dao.Event, error)
	FindPast(ctx context.Context) ([]dao.Event, error)
	FindPending(ctx context.Context) ([]dao.Event, error)
	UpdateColumns(ctx context.Context, id uint, columns map[string]any) error
	MarkCompleted(ctx context.Context, id uint) error
	AddParticipant(ctx context.Context, eventID, userID uint) error
	RemoveParticipant(ctx context.Context, eventID, userID uint) error
	InsertPhotos(ctx context.Context, photos []dao.EventPhoto) error
	InsertVideo(ctx context.Context, video dao.EventVideo) error
	InsertHero(ctx context.Context, hero dao.EventHero) error
	FindPhoto(ctx context.Context, id uint) (dao.EventPhoto, error)
	DeletePhoto(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, e domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, dao.Event{
		Title:           e.Title,
		Description:     e.Description,
		CoverKey:        e.CoverKey,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		Location:        e.Location,
		OrganizerID:     e.OrganizerID,
		IsApproved:      e.IsApproved,
		MaxParticipants: e.MaxParticipants,
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return eventToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return eventToDomain(found), nil
}

func (r *EventRepository) ListUpcoming(ctx context.Context, limit int) ([]domain.Event, error) {
	found, err := r.dao.FindUpcoming(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindUpcoming -> %w", err)
	}

	return eventsToDomain(found), nil
}

func (r *EventRepository) ListPast(ctx context.Context) ([]domain.Event, error) {
	found, err := r.dao.FindPast(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPast -> %w", err)
	}

	return eventsToDomain(found), nil
}

func (r *EventRepository) ListPending(ctx context.Context) ([]domain.Event, error) {
	found, err := r.dao.FindPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPending -> %w", err)
	}

	return eventsToDomain(found), nil
}

// UpdateDetails saves the editable fields of e.
func (r *EventRepository) UpdateDetails(ctx context.Context, e domain.Event) error {
	err := r.dao.UpdateColumns(ctx, e.ID, map[string]any{
		"title":            e.Title,
		"description":      e.Description,
		"cover_key":        e.CoverKey,
		"start_time":       e.StartTime,
		"end_time":         e.EndTime,
		"location":         e.Location,
		"max_participants": e.MaxParticipants,
	})
	if err != nil {
		return fmt.Errorf("r.dao.UpdateColumns -> %w", err)
	}

	return nil
}

func (r *EventRepository) Approve(ctx context.Context, id uint) error {
	if err := r.dao.UpdateColumns(ctx, id, map[string]any{"is_approved": true}); err != nil {
		return fmt.Errorf("r.dao.UpdateColumns -> %w", err)
	}

	return nil
}

func (r *EventRepository) MarkCompleted(ctx context.Context, id uint) error {
	if err := r.dao.MarkCompleted(ctx, id); err != nil {
		return fmt.Errorf("r.dao.MarkCompleted -> %w", err)
	}

	return nil
}

func (r *EventRepository) UpdateReport(ctx context.Context, id uint, text string, published bool) error {
	err := r.dao.UpdateColumns(ctx, id, map[string]any{
		"report_text":         text,
		"is_report_published": published,
	})
	if err != nil {
		return fmt.Errorf("r.dao.UpdateColumns -> %w", err)
	}

	return nil
}

func (r *EventRepository) AddParticipant(ctx context.Context, eventID, userID uint) error {
	if err := r.dao.AddParticipant(ctx, eventID, userID); err != nil {
		return fmt.Errorf("r.dao.AddParticipant -> %w", err)
	}

	return nil
}

func (r *EventRepository) RemoveParticipant(ctx context.Context, eventID, userID uint) error {
	if err := r.dao.RemoveParticipant(ctx, eventID, userID); err != nil {
		return fmt.Errorf("r.dao.RemoveParticipant -> %w", err)
	}

	return nil
}

func (r *EventRepository) AddPhotos(ctx context.Context, photos []domain.EventPhoto) error {
	rows := make([]dao.EventPhoto, 0, len(photos))
	for _, p := range photos {
		rows = append(rows, dao.EventPhoto{EventID: p.EventID, ImageKey: p.ImageKey, Caption: p.Caption})
	}

	if err := r.dao.InsertPhotos(ctx, rows); err != nil {
		return fmt.Errorf("r.dao.InsertPhotos -> %w", err)
	}

	return nil
}

func (r *EventRepository) AddVideo(ctx context.Context, eventID uint, url string) error {
	if err := r.dao.InsertVideo(ctx, dao.EventVideo{EventID: eventID, URL: url}); err != nil {
		return fmt.Errorf("r.dao.InsertVideo -> %w", err)
	}

	return nil
}

func (r *EventRepository) AddHero(ctx context.Context, eventID, userID uint, roleName string) error {
	if err := r.dao.InsertHero(ctx, dao.EventHero{EventID: eventID, UserID: userID, RoleName: roleName}); err != nil {
		return fmt.Errorf("r.dao.InsertHero -> %w", err)
	}

	return nil
}

func (r *EventRepository) FindPhoto(ctx context.Context, id uint) (domain.EventPhoto, error) {
	found, err := r.dao.FindPhoto(ctx, id)
	if err != nil {
		return domain.EventPhoto{}, fmt.Errorf("r.dao.FindPhoto -> %w", err)
	}

	return photoToDomain(found), nil
}

func (r *EventRepository) DeletePhoto(ctx context.Context, id uint) error {
	if err := r.dao.DeletePhoto(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeletePhoto -> %w", err)
	}

	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func eventToDomain(e dao.Event) domain.Event {
	event := domain.Event{
		ID:                e.ID,
		Title:             e.Title,
		Description:       e.Description,
		CoverKey:          e.CoverKey,
		StartTime:         e.StartTime,
		EndTime:           e.EndTime,
		Location:          e.Location,
		OrganizerID:       e.OrganizerID,
		Organizer:         summaryOf(&e.Organizer),
		IsApproved:        e.IsApproved,
		IsCompleted:       e.IsCompleted,
		MaxParticipants:   e.MaxParticipants,
		ParticipantIDs:    make([]uint, 0, len(e.Participants)),
		ReportText:        e.ReportText,
		IsReportPublished: e.IsReportPublished,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}

	for _, p := range e.Participants {
		event.ParticipantIDs = append(event.ParticipantIDs, p.ID)
	}
	for _, p := range e.Photos {
		event.Photos = append(event.Photos, photoToDomain(p))
	}
	for _, v := range e.Videos {
		event.Videos = append(event.Videos, domain.EventVideo{ID: v.ID, EventID: v.EventID, URL: v.URL, CreatedAt: v.CreatedAt})
	}
	for _, h := range e.Heroes {
		event.Heroes = append(event.Heroes, domain.EventHero{
			ID:       h.ID,
			EventID:  h.EventID,
			UserID:   h.UserID,
			User:     userToDomain(h.User).Summary(),
			RoleName: h.RoleName,
		})
	}

	return event
}

func eventsToDomain(events []dao.Event) []domain.Event {
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		out = append(out, eventToDomain(e))
	}
	return out
}

func photoToDomain(p dao.EventPhoto) domain.EventPhoto {
	return domain.EventPhoto{
		ID:        p.ID,
		EventID:   p.EventID,
		ImageKey:  p.ImageKey,
		Caption:   p.Caption,
		CreatedAt: p.CreatedAt,
	}
}
