package entity

import "time"

const (
	MessageTypeText = "text"
	MessageTypeFile = "file"
)

// Delivery states of a message. Transitions only move forward:
// sent -> delivered -> read. Read is terminal.
const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
)

// StatusRank orders delivery states so forward-only transitions can be
// checked with a single comparison. Unknown states rank below sent.
func StatusRank(status string) int {
	switch status {
	case StatusSent:
		return 1
	case StatusDelivered:
		return 2
	case StatusRead:
		return 3
	default:
		return 0
	}
}

// Message belongs to exactly one chat. Status is the only mutable field;
// everything else is immutable after creation.
type Message struct {
	ID         string    `json:"id" firestore:"id"`
	ChatID     string    `json:"chat_id" firestore:"chatId"`
	SenderID   string    `json:"sender" firestore:"senderId"`
	ReceiverID string    `json:"receiver" firestore:"receiverId"`
	Content    string    `json:"content" firestore:"content"`
	Type       string    `json:"type" firestore:"type"`
	FileURL    string    `json:"file_url,omitempty" firestore:"fileUrl,omitempty"`
	Status     string    `json:"status" firestore:"status"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}
