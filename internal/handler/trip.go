package handler

import (
	"errors"
	"net/http"

	"github.com/mbenedetti/viaggio/internal/domain"
)

type tripDetail struct {
	Trip domain.Trip  `json:"trip"`
	Plan *domain.Plan `json:"plan,omitempty"`
}

// ListTrips handles GET /trips.
// Supports ?active=true to list only the active trip.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	activeOnly := r.URL.Query().Get("active") == "true"
	trips, err := s.trips.ListTrips(r.Context(), userID, activeOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	writeJSON(w, http.StatusOK, trips)
}

// GetTrip handles GET /trips/{id}.
// The response carries the trip and, when one exists, its latest plan.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r)
	if !ok {
		return
	}

	trip, err := s.trips.GetTrip(r.Context(), userID, tripID)
	if err != nil {
		writeError(w, err)
		return
	}

	detail := tripDetail{Trip: trip}
	plan, err := s.trips.LatestPlan(r.Context(), userID, tripID)
	if err == nil {
		detail.Plan = &plan
	} else if !errors.Is(err, domain.ErrNotFound) {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// DeleteTrip handles DELETE /trips/{id}.
// Plans and interactions go with the trip via ON DELETE CASCADE.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.trips.DeleteTrip(r.Context(), userID, tripID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FinalizeTrip handles POST /trips/{id}/finalize.
func (s *Server) FinalizeTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.trips.FinalizeTrip(r.Context(), userID, tripID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPlans handles GET /trips/{id}/plans.
// Every saved version is returned, newest first.
func (s *Server) ListPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r)
	if !ok {
		return
	}

	plans, err := s.trips.ListPlans(r.Context(), userID, tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	if plans == nil {
		plans = []domain.Plan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

// ListInteractions handles GET /trips/{id}/interactions.
// Interactions are returned oldest first, matching conversation order.
func (s *Server) ListInteractions(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r)
	if !ok {
		return
	}

	interactions, err := s.trips.Interactions(r.Context(), userID, tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	if interactions == nil {
		interactions = []domain.Interaction{}
	}
	writeJSON(w, http.StatusOK, interactions)
}

// GetStats handles GET /me/stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	stats, err := s.trips.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
