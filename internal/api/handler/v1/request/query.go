package request

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/aya-platform/volunteer-hub/internal/domain"
)

type DirectoryQuery struct {
	Query     string      `form:"q"`
	Faculty   string      `form:"faculty"`
	Course    NullableInt `form:"course"`
	City      string      `form:"city"`
	Gender    string      `form:"gender"`
	Direction uint        `form:"direction"`
	Status    string      `form:"status"`
}

func (q *DirectoryQuery) Validate() error {
	return validation.ValidateStruct(
		q,
		validation.Field(&q.Gender, validation.In(string(domain.GenderMale), string(domain.GenderFemale))),
		validation.Field(&q.Status, validation.In(
			domain.StatusActive, domain.StatusLeader, domain.StatusSchoolLeader, domain.StatusPresident,
		)),
	)
}

func (q *DirectoryQuery) Filter() domain.DirectoryFilter {
	return domain.DirectoryFilter{
		Query:       strings.TrimSpace(q.Query),
		Faculty:     strings.TrimSpace(q.Faculty),
		Course:      q.Course.Value,
		City:        strings.TrimSpace(q.City),
		Gender:      domain.Gender(q.Gender),
		DirectionID: q.Direction,
		Status:      q.Status,
	}
}

type PageQuery struct {
	Number int `form:"page"`
	Limit  int `form:"limit"`
}

func (q *PageQuery) Page() domain.Page {
	return domain.NewPage(q.Number, q.Limit)
}
