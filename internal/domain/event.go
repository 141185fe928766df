package domain

import "time"

type Event struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CoverKey    string    `json:"cover,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Location    string    `json:"location"`

	OrganizerID uint         `json:"organizer_id"`
	Organizer   *UserSummary `json:"organizer,omitempty"`

	IsApproved      bool `json:"is_approved"`
	IsCompleted     bool `json:"is_completed"`
	MaxParticipants *int `json:"max_participants"`

	ParticipantIDs []uint `json:"participant_ids"`

	ReportText        string       `json:"report_text,omitempty"`
	IsReportPublished bool         `json:"is_report_published"`
	Photos            []EventPhoto `json:"photos,omitempty"`
	Videos            []EventVideo `json:"videos,omitempty"`
	Heroes            []EventHero  `json:"heroes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e Event) HasParticipant(userID uint) bool {
	for _, id := range e.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether a new participant would exceed the cap.
func (e Event) IsFull() bool {
	return e.MaxParticipants != nil && *e.MaxParticipants > 0 && len(e.ParticipantIDs) >= *e.MaxParticipants
}

type EventPhoto struct {
	ID        uint      `json:"id"`
	EventID   uint      `json:"event_id"`
	ImageKey  string    `json:"image"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}

type EventVideo struct {
	ID        uint      `json:"id"`
	EventID   uint      `json:"event_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// EventHero credits a volunteer for a named contribution in a report.
type EventHero struct {
	ID       uint        `json:"id"`
	EventID  uint        `json:"event_id"`
	UserID   uint        `json:"user_id"`
	User     UserSummary `json:"user"`
	RoleName string      `json:"role_name"`
}
