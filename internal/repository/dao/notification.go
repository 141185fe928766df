package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Notification struct {
	ID          uint   `gorm:"primaryKey"`
	RecipientID uint   `gorm:"not null;index"`
	Message     string `gorm:"type:text;not null"`
	Link        string
	IsRead      bool      `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"index"`
}

type NotificationDAO struct {
	db *gorm.DB
}

func NewNotificationDAO(db *gorm.DB) *NotificationDAO {
	return &NotificationDAO{
		db: db,
	}
}

func (d *NotificationDAO) Insert(ctx context.Context, notifications []Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	return d.db.WithContext(ctx).Create(&notifications).Error
}

func (d *NotificationDAO) FindByRecipient(ctx context.Context, recipientID uint, limit int) ([]Notification, error) {
	var notifications []Notification

	q := d.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Find(&notifications).Error; err != nil {
		return nil, err
	}

	return notifications, nil
}

func (d *NotificationDAO) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	var n int64

	err := d.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&n).Error
	if err != nil {
		return 0, err
	}

	return n, nil
}

// MarkRead marks one notification of recipientID as read and returns it.
// Someone else's notification is reported as not found.
func (d *NotificationDAO) MarkRead(ctx context.Context, id, recipientID uint) (Notification, error) {
	var n Notification

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND recipient_id = ?", id, recipientID).First(&n).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotificationNotFound
			}
			return err
		}
		if n.IsRead {
			return nil
		}
		n.IsRead = true

		return tx.Model(&n).Update("is_read", true).Error
	})
	if err != nil {
		return Notification{}, err
	}

	return n, nil
}

func (d *NotificationDAO) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	result := d.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
