package entity

import (
	"sort"
	"strings"
	"time"
)

// LastMessage is the denormalized snapshot of the newest message in a chat,
// kept on the chat document so the chat list renders without a message query.
type LastMessage struct {
	Text      string    `json:"text" firestore:"text"`
	Sender    string    `json:"sender" firestore:"sender"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	Type      string    `json:"type" firestore:"type"`
	FileURL   string    `json:"file_url,omitempty" firestore:"fileUrl,omitempty"`
}

// Chat is a persistent two-party conversation. Participants is an unordered
// pair; PairKey is its normalized form and the uniqueness anchor, so at most
// one chat ever exists for a given pair of users.
type Chat struct {
	ID           string         `json:"id" firestore:"id"`
	Participants []string       `json:"participants" firestore:"participants"`
	PairKey      string         `json:"-" firestore:"pairKey"`
	LastMessage  *LastMessage   `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	UnreadCounts map[string]int `json:"unread_counts" firestore:"unreadCounts"`
	CreatedAt    time.Time      `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time      `json:"updated_at" firestore:"updatedAt"`
}

// PairKey normalizes an unordered participant pair to a single string key.
func PairKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}

func (c *Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not userID, or "" when
// userID is not a participant.
func (c *Chat) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// UnreadFor returns the unread count for userID; an absent key means zero.
func (c *Chat) UnreadFor(userID string) int {
	if c.UnreadCounts == nil {
		return 0
	}
	return c.UnreadCounts[userID]
}
