package request

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/aya-platform/volunteer-hub/internal/domain"
)

type NameRequest struct {
	Name string `json:"name"`
}

func (req *NameRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
	)
}

// DirectionLeaderRequest sets the leader of a direction. A null user_id
// clears it.
type DirectionLeaderRequest struct {
	UserID *uint `json:"user_id"`
}

type SchoolLeaderRequest struct {
	UserID uint `json:"user_id"`
}

func (req *SchoolLeaderRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required),
	)
}

type AboutRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	VideoURL string `json:"video_url"`
}

func (req *AboutRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.VideoURL, is.URL),
	)
}

func (req *AboutRequest) Page() domain.AboutPage {
	return domain.AboutPage{
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		VideoURL: strings.TrimSpace(req.VideoURL),
	}
}
