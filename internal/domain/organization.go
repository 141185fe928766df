package domain

import "time"

// Direction is an area of volunteer work. It has at most one leader and a
// user leads at most one direction.
type Direction struct {
	ID        uint         `json:"id"`
	Name      string       `json:"name"`
	LeaderID  *uint        `json:"leader_id"`
	Leader    *UserSummary `json:"leader,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// School is a training track run by any number of leaders.
type School struct {
	ID        uint          `json:"id"`
	Name      string        `json:"name"`
	Leaders   []UserSummary `json:"leaders"`
	CreatedAt time.Time     `json:"created_at"`
}

func (s School) HasLeader(userID uint) bool {
	for _, l := range s.Leaders {
		if l.ID == userID {
			return true
		}
	}
	return false
}
