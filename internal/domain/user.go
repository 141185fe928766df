package domain

import (
	"strings"
	"time"
)

type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Privacy controls who may see a contact field on a public profile.
type Privacy string

const (
	PrivacyPrivate    Privacy = "private"
	PrivacyVolunteers Privacy = "volunteers"
	PrivacyPublic     Privacy = "public"
)

// Profile is the part of a user a volunteer edits about themselves. Changes
// to it go through moderation.
type Profile struct {
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Patronymic      string     `json:"patronymic"`
	BirthDate       *time.Time `json:"birth_date"`
	Gender          Gender     `json:"gender"`
	City            string     `json:"city"`
	AboutMe         string     `json:"about_me"`
	JobTitle        string     `json:"job_title"`
	OfficeLocation  string     `json:"office_location"`
	Faculty         string     `json:"faculty"`
	Course          *int       `json:"course"`
	Group           string     `json:"group"`
	Phone           string     `json:"phone"`
	Telegram        string     `json:"telegram"`
	PhonePrivacy    Privacy    `json:"phone_privacy"`
	TelegramPrivacy Privacy    `json:"telegram_privacy"`
}

type User struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"`

	Role              Role `json:"role"`
	IsSuperuser       bool `json:"is_superuser"`
	IsApproved        bool `json:"is_approved"`
	IsActiveVolunteer bool `json:"is_active_volunteer"`

	Profile
	PhotoKey  string `json:"photo,omitempty"`
	QRCodeKey string `json:"qr_code,omitempty"`

	PendingChanges    ProfileChanges `json:"pending_changes,omitempty"`
	ModerationComment string         `json:"moderation_comment,omitempty"`

	Directions []Direction `json:"directions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.LastName, u.FirstName, u.Patronymic} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// DisplayName falls back to the username when no name is filled in.
func (u User) DisplayName() string {
	if n := u.FullName(); n != "" {
		return n
	}
	return u.Username
}

func (u User) HasPendingChanges() bool {
	return len(u.PendingChanges) > 0
}

// UserSummary is the short form of a user embedded in other resources.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	PhotoKey string `json:"photo,omitempty"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.DisplayName(),
		Role:     u.Role,
		PhotoKey: u.PhotoKey,
	}
}

// CanSeeContact reports whether viewer may see a contact field of owner
// protected by p. A nil viewer is an anonymous visitor.
func CanSeeContact(viewer *User, owner User, p Privacy) bool {
	if viewer != nil && (viewer.ID == owner.ID || Can(*viewer, CapModerate)) {
		return true
	}
	switch p {
	case PrivacyPublic:
		return true
	case PrivacyVolunteers:
		return viewer != nil && viewer.IsApproved
	default:
		return false
	}
}

type ActivityPeriod struct {
	ID          uint       `json:"id"`
	UserID      uint       `json:"user_id"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Description string     `json:"description"`
}

type AboutPage struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	VideoURL  string    `json:"video_url"`
	UpdatedAt time.Time `json:"updated_at"`
}
