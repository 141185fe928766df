package domain

import "time"

// AuditLog is one entry of the append-only action trail. Actor and target
// are nil once the referenced user has been deleted.
type AuditLog struct {
	ID        uint         `json:"id"`
	ActorID   *uint        `json:"actor_id"`
	Actor     *UserSummary `json:"actor,omitempty"`
	Action    string       `json:"action"`
	TargetID  *uint        `json:"target_id"`
	Target    *UserSummary `json:"target,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// Page selects one slice of a list, counted from 1.
type Page struct {
	Number int `json:"page"`
	Limit  int `json:"limit"`
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

func NewPage(number, limit int) Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Number: number, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}
