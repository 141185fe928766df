package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

const aboutPageID = 1

type AboutPage struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"not null"`
	Content   string `gorm:"type:text"`
	VideoURL  string
	UpdatedAt time.Time
}

type AboutDAO struct {
	db *gorm.DB
}

func NewAboutDAO(db *gorm.DB) *AboutDAO {
	return &AboutDAO{
		db: db,
	}
}

// Get returns the single about page, creating it with defaults on first use.
func (d *AboutDAO) Get(ctx context.Context, defaults AboutPage) (AboutPage, error) {
	page := AboutPage{ID: aboutPageID}

	if err := d.db.WithContext(ctx).Attrs(defaults).FirstOrCreate(&page, AboutPage{ID: aboutPageID}).Error; err != nil {
		return AboutPage{}, err
	}

	return page, nil
}

func (d *AboutDAO) Save(ctx context.Context, page AboutPage) (AboutPage, error) {
	page.ID = aboutPageID

	if err := d.db.WithContext(ctx).Save(&page).Error; err != nil {
		return AboutPage{}, err
	}

	return page, nil
}
