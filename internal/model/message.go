package model

import "time"

// ChatMessage is a stored chat message row. RecipientID is nil when the
// message is addressed to the support pool rather than a specific user.
type ChatMessage struct {
	ID          int64     `json:"id"`
	SenderID    string    `json:"sender_id"`
	SenderName  string    `json:"sender_name"`
	SenderRole  string    `json:"sender_role"`
	Text        string    `json:"text"`
	RecipientID *string   `json:"recipient_id"`
	CreatedAt   time.Time `json:"created_at"`
}
