package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// AuditLog rows are only ever inserted.
type AuditLog struct {
	ID           uint      `gorm:"primaryKey"`
	ActorID      *uint     `gorm:"index"`
	Actor        *User     `gorm:"constraint:OnDelete:SET NULL;"`
	Action       string    `gorm:"type:text;not null"`
	TargetUserID *uint     `gorm:"index"`
	TargetUser   *User     `gorm:"constraint:OnDelete:SET NULL;"`
	CreatedAt    time.Time `gorm:"not null;index"`
}

type AuditDAO struct {
	db *gorm.DB
}

func NewAuditDAO(db *gorm.DB) *AuditDAO {
	return &AuditDAO{
		db: db,
	}
}

func (d *AuditDAO) Insert(ctx context.Context, entry AuditLog) (AuditLog, error) {
	if err := d.db.WithContext(ctx).Omit("Actor", "TargetUser").Create(&entry).Error; err != nil {
		return AuditLog{}, err
	}

	return entry, nil
}

// FindPage returns entries newest first together with the total count.
func (d *AuditDAO) FindPage(ctx context.Context, offset, limit int) ([]AuditLog, int64, error) {
	var total int64
	if err := d.db.WithContext(ctx).Model(&AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []AuditLog
	err := d.db.WithContext(ctx).
		Preload("Actor").
		Preload("TargetUser").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
