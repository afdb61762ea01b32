package domain

import (
	"time"

	"github.com/google/uuid"
)

// Plan is one versioned itinerary text belonging to a Trip.
// Versions for a given trip are strictly increasing starting at 1; the
// latest plan is the max-version row.
type Plan struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Content   string    `json:"content"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// Interaction is one logged user/system exchange belonging to a Trip.
// The log is append-only and never mutated.
type Interaction struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Input     string    `json:"input"`
	Intent    Intent    `json:"intent"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// GuideExcerpt is a bounded text snippet sourced from a destination
// guide, retrieved per request and never persisted. Order in a slice of
// excerpts reflects relevance.
type GuideExcerpt struct {
	Source string
	Text   string
}
