package request

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/aya-platform/volunteer-hub/internal/domain"
)

var (
	phoneExp    = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)
	telegramExp = regexp.MustCompile(`^@?[A-Za-z0-9_]{5,32}$`)

	errCourseRange = errors.New("must be between 1 and 10")
)

var privacyValues = []any{
	string(domain.PrivacyPrivate), string(domain.PrivacyVolunteers), string(domain.PrivacyPublic),
}

// ProfileRequest carries the moderated profile fields. It binds from JSON
// and from multipart forms.
type ProfileRequest struct {
	FirstName       string       `json:"first_name" form:"first_name"`
	LastName        string       `json:"last_name" form:"last_name"`
	Patronymic      string       `json:"patronymic" form:"patronymic"`
	BirthDate       NullableDate `json:"birth_date" form:"birth_date"`
	Gender          string       `json:"gender" form:"gender"`
	City            string       `json:"city" form:"city"`
	AboutMe         string       `json:"about_me" form:"about_me"`
	JobTitle        string       `json:"job_title" form:"job_title"`
	OfficeLocation  string       `json:"office_location" form:"office_location"`
	Faculty         string       `json:"faculty" form:"faculty"`
	Course          NullableInt  `json:"course" form:"course"`
	Group           string       `json:"group" form:"group"`
	Phone           string       `json:"phone" form:"phone"`
	Telegram        string       `json:"telegram" form:"telegram"`
	PhonePrivacy    string       `json:"phone_privacy" form:"phone_privacy"`
	TelegramPrivacy string       `json:"telegram_privacy" form:"telegram_privacy"`
}

func (req *ProfileRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Patronymic, validation.Length(0, 100)),
		validation.Field(&req.Gender, validation.In(string(domain.GenderMale), string(domain.GenderFemale))),
		validation.Field(&req.City, validation.Length(0, 100)),
		validation.Field(&req.AboutMe, validation.Length(0, 2000)),
		validation.Field(&req.JobTitle, validation.Length(0, 200)),
		validation.Field(&req.OfficeLocation, validation.Length(0, 200)),
		validation.Field(&req.Faculty, validation.Length(0, 200)),
		validation.Field(&req.Course, validation.By(courseInRange)),
		validation.Field(&req.Group, validation.Length(0, 50)),
		validation.Field(&req.Phone, validation.Match(phoneExp)),
		validation.Field(&req.Telegram, validation.Match(telegramExp)),
		validation.Field(&req.PhonePrivacy, validation.In(privacyValues...)),
		validation.Field(&req.TelegramPrivacy, validation.In(privacyValues...)),
	)
}

func courseInRange(value any) error {
	n, _ := value.(NullableInt)
	if n.Value != nil && (*n.Value < 1 || *n.Value > 10) {
		return errCourseRange
	}

	return nil
}

func privacyOrDefault(p string) domain.Privacy {
	if p == "" {
		return domain.PrivacyPrivate
	}

	return domain.Privacy(p)
}

func (req *ProfileRequest) Profile() domain.Profile {
	return domain.Profile{
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Patronymic:      strings.TrimSpace(req.Patronymic),
		BirthDate:       req.BirthDate.Value,
		Gender:          domain.Gender(req.Gender),
		City:            strings.TrimSpace(req.City),
		AboutMe:         strings.TrimSpace(req.AboutMe),
		JobTitle:        strings.TrimSpace(req.JobTitle),
		OfficeLocation:  strings.TrimSpace(req.OfficeLocation),
		Faculty:         strings.TrimSpace(req.Faculty),
		Course:          req.Course.Value,
		Group:           strings.TrimSpace(req.Group),
		Phone:           strings.TrimSpace(req.Phone),
		Telegram:        strings.TrimSpace(req.Telegram),
		PhonePrivacy:    privacyOrDefault(req.PhonePrivacy),
		TelegramPrivacy: privacyOrDefault(req.TelegramPrivacy),
	}
}

// AdminEditRequest is a direct edit of a user by staff, bypassing
// moderation.
type AdminEditRequest struct {
	ProfileRequest
	Username     string `json:"username" form:"username"`
	Email        string `json:"email" form:"email"`
	DirectionIDs []uint `json:"direction_ids" form:"direction_ids"`
}

func (req *AdminEditRequest) Validate() error {
	if err := req.ProfileRequest.Validate(); err != nil {
		return err
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Username, validation.Required, validation.Match(usernameExp)),
		validation.Field(&req.Email, validation.Required, is.Email),
	)
}

type RoleRequest struct {
	Role string `json:"role"`
}

func (req *RoleRequest) Validate() error {
	roles := make([]any, 0, len(domain.Roles))
	for _, r := range domain.Roles {
		roles = append(roles, string(r))
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Role, validation.Required, validation.In(roles...)),
	)
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

func (req *RejectRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Reason, validation.Length(0, 1000)),
	)
}

var (
	errEndBeforeStart = errors.New("end_date: must not be before start_date")
	errBlank          = errors.New("cannot be blank")
)

type ActivityPeriodRequest struct {
	StartDate   NullableDate `json:"start_date"`
	EndDate     NullableDate `json:"end_date"`
	Description string       `json:"description"`
}

func (req *ActivityPeriodRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.StartDate, validation.By(func(value any) error {
			if d, _ := value.(NullableDate); d.Value == nil {
				return errBlank
			}
			return nil
		})),
		validation.Field(&req.Description, validation.Length(0, 500)),
	)
	if err != nil {
		return err
	}

	if req.EndDate.Value != nil && req.EndDate.Value.Before(*req.StartDate.Value) {
		return errEndBeforeStart
	}

	return nil
}

func (req *ActivityPeriodRequest) Period(userID uint) domain.ActivityPeriod {
	return domain.ActivityPeriod{
		UserID:      userID,
		StartDate:   *req.StartDate.Value,
		EndDate:     req.EndDate.Value,
		Description: strings.TrimSpace(req.Description),
	}
}
