// Package domain contains the core data types for the viaggio travel
// assistant. This package has zero external dependencies beyond uuid and
// is imported by every other internal package (travel, planner, repo,
// service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Budget tiers accepted in a TripRequest.
const (
	BudgetLow    = "low"
	BudgetMedium = "medium"
	BudgetHigh   = "high"
	BudgetAny    = "any"
)

// TripRequest is the structured form of a free-text trip query, produced by
// the parsing stage and consumed read-only by the pipeline.
// After validation the dates are always valid calendar dates with
// EndDate >= StartDate.
type TripRequest struct {
	Destination   string
	Country       string
	DepartureCity string // "unknown" when the user never named one
	StartDate     time.Time
	EndDate       time.Time
	Travelers     int
	Budget        string // one of the Budget* constants
	Interests     []string
}

// Nights returns the number of nights between start and end date.
// A same-day trip counts as zero nights.
func (r TripRequest) Nights() int {
	n := int(r.EndDate.Sub(r.StartDate).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}

// Trip is the persisted record of one destination/date-range planning
// effort owned by a user. One trip per user is active at a time; the
// invariant is maintained by TripService, not a DB constraint.
type Trip struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Destination   string    `json:"destination"`
	Country       string    `json:"country"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	DepartureCity string    `json:"departure_city"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UserStats summarizes a user's planning history.
type UserStats struct {
	TotalTrips  int `json:"total_trips"`
	ActiveTrips int `json:"active_trips"`
	// TopDestinations holds at most five entries, most visited first.
	TopDestinations []DestinationCount `json:"top_destinations"`
}

// DestinationCount is one row of the top-destinations ranking.
type DestinationCount struct {
	Destination string `json:"destination"`
	Country     string `json:"country"`
	Visits      int    `json:"visits"`
}
