package models

import "time"

type Notification struct {
	ID          int       `json:"id"`
	Type        string    `json:"type"`   // e.g. "squad_registration", "match_update"
	Status      string    `json:"status"` // "pending", "approved", "rejected", "completed"
	SenderID    int       `json:"sender_id"`
	ReceiverID  int       `json:"receiver_id"`
	Message     string    `json:"message"`
	RedirectURL string    `json:"redirect_url"`
	IsRead      bool      `json:"is_read"`
	Timestamp   time.Time `json:"timestamp"`
}
