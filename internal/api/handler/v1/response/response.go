package response

import (
	"github.com/aya-platform/volunteer-hub/internal/domain"
)

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type Message struct {
	Message string `json:"message"`
}

type ParticipationResponse struct {
	Participating bool `json:"participating"`
}

type ActiveVolunteerResponse struct {
	IsActiveVolunteer bool `json:"is_active_volunteer"`
}

type SchoolLeaderResponse struct {
	IsLeader bool `json:"is_leader"`
}

type EventsResponse struct {
	Upcoming []domain.Event `json:"upcoming"`
	Past     []domain.Event `json:"past"`
}

type NotificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	Unread        int64                 `json:"unread"`
}

type MarkReadResponse struct {
	Link string `json:"link"`
}

type MarkAllReadResponse struct {
	Marked int64 `json:"marked"`
}

type AuditPage struct {
	Entries []domain.AuditLog `json:"entries"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	Limit   int               `json:"limit"`
}

// PendingChange is one user with the diff awaiting review.
type PendingChange struct {
	User    domain.UserSummary    `json:"user"`
	Changes domain.ProfileChanges `json:"changes"`
}

func NewPendingChanges(users []domain.User) []PendingChange {
	out := make([]PendingChange, 0, len(users))
	for _, u := range users {
		out = append(out, PendingChange{User: u.Summary(), Changes: u.PendingChanges})
	}

	return out
}
