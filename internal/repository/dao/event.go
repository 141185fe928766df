package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrEventAlreadyCompleted = errors.New("event already completed")
	ErrEventPhotoNotFound    = errors.New("event photo not found")
)

type Event struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	CoverKey    string
	StartTime   time.Time `gorm:"not null;index"`
	EndTime     time.Time `gorm:"not null;index"`
	Location    string

	OrganizerID uint `gorm:"not null;index"`
	Organizer   User `gorm:"foreignKey:OrganizerID"`

	IsApproved      bool `gorm:"not null;index"`
	IsCompleted     bool `gorm:"not null;index"`
	MaxParticipants *int

	Participants []User `gorm:"many2many:event_participants;"`

	ReportText        string `gorm:"type:text"`
	IsReportPublished bool   `gorm:"not null"`

	Photos []EventPhoto `gorm:"constraint:OnDelete:CASCADE;"`
	Videos []EventVideo `gorm:"constraint:OnDelete:CASCADE;"`
	Heroes []EventHero  `gorm:"constraint:OnDelete:CASCADE;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type EventPhoto struct {
	ID        uint   `gorm:"primaryKey"`
	EventID   uint   `gorm:"not null;index"`
	ImageKey  string `gorm:"not null"`
	Caption   string
	CreatedAt time.Time
}

type EventVideo struct {
	ID        uint   `gorm:"primaryKey"`
	EventID   uint   `gorm:"not null;index"`
	URL       string `gorm:"not null"`
	CreatedAt time.Time
}

type EventHero struct {
	ID       uint `gorm:"primaryKey"`
	EventID  uint `gorm:"not null;index"`
	UserID   uint `gorm:"not null;index"`
	User     User
	RoleName string `gorm:"not null"`
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	if err := d.db.WithContext(ctx).Omit("Organizer", "Participants").Create(&event).Error; err != nil {
		return Event{}, err
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	err := d.db.WithContext(ctx).
		Preload("Organizer").
		Preload("Participants").
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Videos", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Heroes.User").
		First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}
		return Event{}, err
	}

	return event, nil
}

func (d *EventDAO) find(ctx context.Context, limit int, order string, query string, args ...any) ([]Event, error) {
	var events []Event

	q := d.db.WithContext(ctx).
		Preload("Organizer").
		Preload("Participants").
		Where(query, args...).
		Order(order)
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

// FindUpcoming lists approved, unfinished events by start time. limit <= 0
// means no limit.
func (d *EventDAO) FindUpcoming(ctx context.Context, limit int) ([]Event, error) {
	return d.find(ctx, limit, "start_time, id", "is_approved = ? AND is_completed = ?", true, false)
}

func (d *EventDAO) FindPast(ctx context.Context) ([]Event, error) {
	return d.find(ctx, 0, "end_time DESC, id DESC", "is_completed = ?", true)
}

func (d *EventDAO) FindPending(ctx context.Context) ([]Event, error) {
	return d.find(ctx, 0, "created_at, id", "is_approved = ?", false)
}

func (d *EventDAO) UpdateColumns(ctx context.Context, id uint, columns map[string]any) error {
	result := d.db.WithContext(ctx).Model(&Event{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

// MarkCompleted flips is_completed once. A second call reports
// ErrEventAlreadyCompleted.
func (d *EventDAO) MarkCompleted(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Model(&Event{}).
		Where("id = ? AND is_completed = ?", id, false).
		Update("is_completed", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := d.FindByID(ctx, id); err != nil {
			return err
		}
		return ErrEventAlreadyCompleted
	}

	return nil
}

func (d *EventDAO) AddParticipant(ctx context.Context, eventID, userID uint) error {
	return d.db.WithContext(ctx).
		Exec("INSERT INTO event_participants (event_id, user_id) VALUES (?, ?)", eventID, userID).Error
}

func (d *EventDAO) RemoveParticipant(ctx context.Context, eventID, userID uint) error {
	return d.db.WithContext(ctx).
		Exec("DELETE FROM event_participants WHERE event_id = ? AND user_id = ?", eventID, userID).Error
}

func (d *EventDAO) InsertPhotos(ctx context.Context, photos []EventPhoto) error {
	if len(photos) == 0 {
		return nil
	}

	return d.db.WithContext(ctx).Create(&photos).Error
}

func (d *EventDAO) InsertVideo(ctx context.Context, video EventVideo) error {
	return d.db.WithContext(ctx).Create(&video).Error
}

func (d *EventDAO) InsertHero(ctx context.Context, hero EventHero) error {
	return d.db.WithContext(ctx).Omit("User").Create(&hero).Error
}

func (d *EventDAO) FindPhoto(ctx context.Context, id uint) (EventPhoto, error) {
	var photo EventPhoto

	if err := d.db.WithContext(ctx).First(&photo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EventPhoto{}, ErrEventPhotoNotFound
		}
		return EventPhoto{}, err
	}

	return photo, nil
}

func (d *EventDAO) DeletePhoto(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&EventPhoto{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventPhotoNotFound
	}

	return nil
}

// Delete removes an event with its participants and report attachments.
func (d *EventDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&Event{}, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		if err := tx.Exec("DELETE FROM event_participants WHERE event_id = ?", id).Error; err != nil {
			return err
		}
		for _, model := range []any{&EventPhoto{}, &EventVideo{}, &EventHero{}} {
			if err := tx.Where("event_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&Event{}, id).Error
	})
}
