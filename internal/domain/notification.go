package domain

import "time"

type Notification struct {
	ID          uint      `json:"id"`
	RecipientID uint      `json:"recipient_id"`
	Message     string    `json:"message"`
	Link        string    `json:"link"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
