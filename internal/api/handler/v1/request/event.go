package request

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var (
	errEndBeforeStartTime = errors.New("end_time: must be after start_time")
	errHeroRoleRequired   = errors.New("hero_role: cannot be blank when hero_id is set")
	errNegativeLimit      = errors.New("must be no less than 0")
)

// EventRequest binds from JSON or from a multipart form carrying a cover
// image.
type EventRequest struct {
	Title           string      `json:"title" form:"title"`
	Description     string      `json:"description" form:"description"`
	StartTime       time.Time   `json:"start_time" form:"start_time"`
	EndTime         time.Time   `json:"end_time" form:"end_time"`
	Location        string      `json:"location" form:"location"`
	MaxParticipants NullableInt `json:"max_participants" form:"max_participants"`
}

func (req *EventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Length(0, 10000)),
		validation.Field(&req.StartTime, validation.Required),
		validation.Field(&req.EndTime, validation.Required),
		validation.Field(&req.Location, validation.Length(0, 255)),
		validation.Field(&req.MaxParticipants, validation.By(func(value any) error {
			if n, _ := value.(NullableInt); n.Value != nil && *n.Value < 0 {
				return errNegativeLimit
			}
			return nil
		})),
	)
	if err != nil {
		return err
	}

	if !req.EndTime.After(req.StartTime) {
		return errEndBeforeStartTime
	}

	return nil
}

// ReportRequest is a multipart form. Gallery images come in the "photos"
// file field.
type ReportRequest struct {
	ReportText *string `json:"report_text" form:"report_text"`
	Published  *bool   `json:"is_report_published" form:"is_report_published"`
	Caption    string  `json:"caption" form:"caption"`
	VideoURL   string  `json:"video_url" form:"video_url"`
	HeroID     *uint   `json:"hero_id" form:"hero_id"`
	HeroRole   string  `json:"hero_role" form:"hero_role"`
}

func (req *ReportRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Caption, validation.Length(0, 255)),
		validation.Field(&req.VideoURL, is.URL),
		validation.Field(&req.HeroRole, validation.Length(0, 100)),
	)
	if err != nil {
		return err
	}

	if req.HeroID != nil && strings.TrimSpace(req.HeroRole) == "" {
		return errHeroRoleRequired
	}

	return nil
}
