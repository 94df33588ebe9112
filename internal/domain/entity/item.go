package entity

import "time"

const (
	ItemKindLost  = "lost"
	ItemKindFound = "found"
)

// Item is a lost or found report. Both kinds share one shape; Kind decides
// which listing the report appears in.
type Item struct {
	ID           string    `json:"id" firestore:"id"`
	Kind         string    `json:"kind" firestore:"kind"`
	Name         string    `json:"name" firestore:"name"`
	Description  string    `json:"description,omitempty" firestore:"description,omitempty"`
	Place        string    `json:"place" firestore:"place"`
	Category     string    `json:"category,omitempty" firestore:"category,omitempty"`
	Contact      string    `json:"contact" firestore:"contact"`
	DateTime     time.Time `json:"date_time" firestore:"dateTime"`
	ImageURL     string    `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	ReporterID   string    `json:"reporter_id" firestore:"reporterId"`
	ReporterName string    `json:"reporter_name,omitempty" firestore:"reporterName,omitempty"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updatedAt"`
}
