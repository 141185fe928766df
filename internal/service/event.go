package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aya-platform/volunteer-hub/internal/domain"
	"github.com/aya-platform/volunteer-hub/internal/storage"
)

type EventRepository interface {
	Create(ctx context.Context, e domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	ListUpcoming(ctx context.Context, limit int) ([]domain.Event, error)
	ListPast(ctx context.Context) ([]domain.Event, error)
	ListPending(ctx context.Context) ([]domain.Event, error)
	UpdateDetails(ctx context.Context, e domain.Event) error
	Approve(ctx context.Context, id uint) error
	MarkCompleted(ctx context.Context, id uint) error
	UpdateReport(ctx context.Context, id uint, text string, published bool) error
	AddParticipant(ctx context.Context, eventID, userID uint) error
	RemoveParticipant(ctx context.Context, eventID, userID uint) error
	AddPhotos(ctx context.Context, photos []domain.EventPhoto) error
	AddVideo(ctx context.Context, eventID uint, url string) error
	AddHero(ctx context.Context, eventID, userID uint, roleName string) error
	FindPhoto(ctx context.Context, id uint) (domain.EventPhoto, error)
	DeletePhoto(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type EventService struct {
	repo     EventRepository
	users    UserFinder
	store    ObjectStore
	notifier Notifier
	auditor  Auditor
}

func NewEventService(repo EventRepository, users UserFinder, store ObjectStore, notifier Notifier, auditor Auditor) *EventService {
	return &EventService{
		repo:     repo,
		users:    users,
		store:    store,
		notifier: notifier,
		auditor:  auditor,
	}
}

type EventInput struct {
	Title           string
	Description     string
	StartTime       time.Time
	EndTime         time.Time
	Location        string
	MaxParticipants *int
}

// ReportInput changes an event report. Every part is optional and applied
// independently.
type ReportInput struct {
	Text      *string
	Published *bool
	Photos    []Upload
	Caption   string
	VideoURL  string
	HeroID    *uint
	HeroRole  string
}

// EventView is an event as seen by a particular viewer.
type EventView struct {
	domain.Event
	IsParticipant bool `json:"is_participant"`
	CanManage     bool `json:"can_manage"`
}

func (s *EventService) List(ctx context.Context) (upcoming, past []domain.Event, err error) {
	if upcoming, err = s.repo.ListUpcoming(ctx, 0); err != nil {
		return nil, nil, fmt.Errorf("s.repo.ListUpcoming -> %w", err)
	}
	if past, err = s.repo.ListPast(ctx); err != nil {
		return nil, nil, fmt.Errorf("s.repo.ListPast -> %w", err)
	}

	return upcoming, past, nil
}

// Upcoming returns the nearest approved events that are not completed.
func (s *EventService) Upcoming(ctx context.Context, limit int) ([]domain.Event, error) {
	events, err := s.repo.ListUpcoming(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListUpcoming -> %w", err)
	}

	return events, nil
}

// Get returns event id for viewer. Unapproved events exist only for those
// who may manage them, and an unpublished report only for them too.
func (s *EventService) Get(ctx context.Context, viewer *domain.User, id uint) (EventView, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EventView{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	canManage := viewer != nil && domain.CanManageEvent(*viewer, event)
	if !event.IsApproved && !canManage {
		return EventView{}, ErrEventNotFound
	}

	if !event.IsReportPublished && !canManage {
		event.ReportText = ""
		event.Photos = nil
		event.Videos = nil
		event.Heroes = nil
	}

	return EventView{
		Event:         event,
		IsParticipant: viewer != nil && event.HasParticipant(viewer.ID),
		CanManage:     canManage,
	}, nil
}

func (s *EventService) ListPending(ctx context.Context, actor domain.User) ([]domain.Event, error) {
	if err := requireCapability(actor, domain.CapModerate); err != nil {
		return nil, err
	}

	events, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListPending -> %w", err)
	}

	return events, nil
}

// Create adds an event organized by actor. It is published at once when
// actor may publish events and waits for a moderator otherwise.
func (s *EventService) Create(ctx context.Context, actor domain.User, in EventInput, cover *Upload) (domain.Event, error) {
	if !actor.IsApproved && !actor.IsSuperuser {
		return domain.Event{}, ErrUserNotApproved
	}

	event := domain.Event{
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		Location:        in.Location,
		OrganizerID:     actor.ID,
		IsApproved:      domain.Can(actor, domain.CapPublishEvents),
		MaxParticipants: in.MaxParticipants,
	}

	if cover != nil {
		event.CoverKey = storage.Key("events/covers", cover.Filename)
		if err := putUpload(ctx, s.store, event.CoverKey, cover); err != nil {
			return domain.Event{}, fmt.Errorf("s.store.Put -> %w", err)
		}
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		removeObject(ctx, s.store, event.CoverKey)
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if !created.IsApproved {
		notifyStaff(ctx, s.notifier,
			fmt.Sprintf("%s proposed the event %q.", actor.DisplayName(), created.Title),
			"/events/pending")
	}
	s.auditor.Record(ctx, actor, fmt.Sprintf("created event %q", created.Title), nil)

	return created, nil
}

func (s *EventService) Approve(ctx context.Context, actor domain.User, id uint) error {
	if err := requireCapability(actor, domain.CapModerate); err != nil {
		return err
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if event.IsApproved {
		return nil
	}

	if err := s.repo.Approve(ctx, event.ID); err != nil {
		return fmt.Errorf("s.repo.Approve -> %w", err)
	}

	notify(ctx, s.notifier, event.OrganizerID,
		fmt.Sprintf("Your event %q was approved.", event.Title),
		fmt.Sprintf("/events/%d", event.ID))
	s.auditor.Record(ctx, actor, fmt.Sprintf("approved event %q", event.Title), organizerOf(event))

	return nil
}

// managed loads event id and checks that actor may manage it.
func (s *EventService) managed(ctx context.Context, actor domain.User, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if !domain.CanManageEvent(actor, event) {
		return domain.Event{}, ErrPermissionDenied
	}

	return event, nil
}

func (s *EventService) Update(ctx context.Context, actor domain.User, id uint, in EventInput, cover *Upload) (domain.Event, error) {
	event, err := s.managed(ctx, actor, id)
	if err != nil {
		return domain.Event{}, err
	}

	previousCover := event.CoverKey
	event.Title = strings.TrimSpace(in.Title)
	event.Description = in.Description
	event.StartTime = in.StartTime
	event.EndTime = in.EndTime
	event.Location = in.Location
	event.MaxParticipants = in.MaxParticipants

	if cover != nil {
		event.CoverKey = storage.Key("events/covers", cover.Filename)
		if err := putUpload(ctx, s.store, event.CoverKey, cover); err != nil {
			return domain.Event{}, fmt.Errorf("s.store.Put -> %w", err)
		}
	}

	if err := s.repo.UpdateDetails(ctx, event); err != nil {
		if cover != nil {
			removeObject(ctx, s.store, event.CoverKey)
		}
		return domain.Event{}, fmt.Errorf("s.repo.UpdateDetails -> %w", err)
	}
	if cover != nil {
		removeObject(ctx, s.store, previousCover)
	}

	s.auditor.Record(ctx, actor, fmt.Sprintf("updated event %q", event.Title), nil)

	return s.reload(ctx, event.ID)
}

// Finish marks an approved event completed. It cannot be undone.
func (s *EventService) Finish(ctx context.Context, actor domain.User, id uint) error {
	event, err := s.managed(ctx, actor, id)
	if err != nil {
		return err
	}
	if !event.IsApproved {
		return ErrEventNotApproved
	}

	if err := s.repo.MarkCompleted(ctx, event.ID); err != nil {
		return fmt.Errorf("s.repo.MarkCompleted -> %w", err)
	}

	s.auditor.Record(ctx, actor, fmt.Sprintf("finished event %q", event.Title), nil)

	return nil
}

// UpdateReport edits the report of a completed event. Photos, a video and a
// hero are added to what is already there.
func (s *EventService) UpdateReport(ctx context.Context, actor domain.User, id uint, in ReportInput) (domain.Event, error) {
	event, err := s.managed(ctx, actor, id)
	if err != nil {
		return domain.Event{}, err
	}
	if !event.IsCompleted {
		return domain.Event{}, ErrEventNotCompleted
	}

	var hero *domain.User
	if in.HeroID != nil {
		user, err := s.users.FindByID(ctx, *in.HeroID)
		if err != nil {
			return domain.Event{}, fmt.Errorf("s.users.FindByID -> %w", err)
		}
		if !user.IsApproved {
			return domain.Event{}, ErrUserNotApproved
		}
		hero = &user
	}

	if in.Text != nil || in.Published != nil {
		text, published := event.ReportText, event.IsReportPublished
		if in.Text != nil {
			text = *in.Text
		}
		if in.Published != nil {
			published = *in.Published
		}
		if err := s.repo.UpdateReport(ctx, event.ID, text, published); err != nil {
			return domain.Event{}, fmt.Errorf("s.repo.UpdateReport -> %w", err)
		}
	}

	var added []string

	if len(in.Photos) > 0 {
		photos := make([]domain.EventPhoto, 0, len(in.Photos))
		for i := range in.Photos {
			key := storage.Key(fmt.Sprintf("events/%d", event.ID), in.Photos[i].Filename)
			if err := putUpload(ctx, s.store, key, &in.Photos[i]); err != nil {
				for _, p := range photos {
					removeObject(ctx, s.store, p.ImageKey)
				}
				return domain.Event{}, fmt.Errorf("s.store.Put -> %w", err)
			}
			photos = append(photos, domain.EventPhoto{EventID: event.ID, ImageKey: key, Caption: in.Caption})
		}
		if err := s.repo.AddPhotos(ctx, photos); err != nil {
			for _, p := range photos {
				removeObject(ctx, s.store, p.ImageKey)
			}
			return domain.Event{}, fmt.Errorf("s.repo.AddPhotos -> %w", err)
		}
		added = append(added, fmt.Sprintf("added %d photos", len(photos)))
	}

	if url := strings.TrimSpace(in.VideoURL); url != "" {
		if err := s.repo.AddVideo(ctx, event.ID, url); err != nil {
			return domain.Event{}, fmt.Errorf("s.repo.AddVideo -> %w", err)
		}
		added = append(added, "added video")
	}

	if hero != nil {
		if err := s.repo.AddHero(ctx, event.ID, hero.ID, strings.TrimSpace(in.HeroRole)); err != nil {
			return domain.Event{}, fmt.Errorf("s.repo.AddHero -> %w", err)
		}
		added = append(added, fmt.Sprintf("credited hero %s", hero.DisplayName()))
		notify(ctx, s.notifier, hero.ID,
			fmt.Sprintf("You were credited in the report of %q.", event.Title),
			fmt.Sprintf("/events/%d", event.ID))
	}

	action := fmt.Sprintf("updated report of %q", event.Title)
	if len(added) > 0 {
		action += ": " + strings.Join(added, ", ")
	}
	s.auditor.Record(ctx, actor, action, nil)

	return s.reload(ctx, event.ID)
}

func (s *EventService) DeletePhoto(ctx context.Context, actor domain.User, photoID uint) error {
	photo, err := s.repo.FindPhoto(ctx, photoID)
	if err != nil {
		return fmt.Errorf("s.repo.FindPhoto -> %w", err)
	}

	event, err := s.managed(ctx, actor, photo.EventID)
	if err != nil {
		return err
	}

	if err := s.repo.DeletePhoto(ctx, photo.ID); err != nil {
		return fmt.Errorf("s.repo.DeletePhoto -> %w", err)
	}
	removeObject(ctx, s.store, photo.ImageKey)

	s.auditor.Record(ctx, actor, fmt.Sprintf("deleted a photo of %q", event.Title), nil)

	return nil
}

func (s *EventService) Delete(ctx context.Context, actor domain.User, id uint) error {
	event, err := s.managed(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, event.ID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	removeObject(ctx, s.store, event.CoverKey)
	for _, p := range event.Photos {
		removeObject(ctx, s.store, p.ImageKey)
	}

	s.auditor.Record(ctx, actor, fmt.Sprintf("deleted event %q", event.Title), nil)

	return nil
}

// ToggleParticipation joins actor to event id or removes them from it, and
// reports whether actor now participates.
func (s *EventService) ToggleParticipation(ctx context.Context, actor domain.User, id uint) (bool, error) {
	if !actor.IsApproved && !actor.IsSuperuser {
		return false, ErrUserNotApproved
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	switch {
	case event.IsCompleted:
		return false, ErrEventAlreadyCompleted
	case !event.IsApproved:
		return false, ErrEventNotApproved
	}

	if event.HasParticipant(actor.ID) {
		if err := s.repo.RemoveParticipant(ctx, event.ID, actor.ID); err != nil {
			return false, fmt.Errorf("s.repo.RemoveParticipant -> %w", err)
		}
		return false, nil
	}

	if event.IsFull() {
		return false, ErrEventFull
	}

	if err := s.repo.AddParticipant(ctx, event.ID, actor.ID); err != nil {
		return false, fmt.Errorf("s.repo.AddParticipant -> %w", err)
	}

	return true, nil
}

func (s *EventService) reload(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

func organizerOf(e domain.Event) *domain.User {
	return &domain.User{ID: e.OrganizerID}
}
