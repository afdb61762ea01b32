package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mbenedetti/viaggio/internal/domain"
	"github.com/mbenedetti/viaggio/internal/service"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	TripID   *uuid.UUID    `json:"trip_id,omitempty"`
	Intent   domain.Intent `json:"intent"`
	Response string        `json:"response"`
	Active   bool          `json:"active"`
}

// ChatQuery handles POST /chat/query: the opening message of a planning
// cycle. It always starts from a blank session, so a new trip is created
// even when another one is still active (the session service deactivates
// the previous one).
func (s *Server) ChatQuery(w http.ResponseWriter, r *http.Request) {
	s.runTurn(w, r, service.SessionState{})
}

// ChatMessage handles POST /chat/message: a follow-up turn. The session
// state is reconstructed from the user's active trip and its latest
// plan; without an active trip the message starts a new planning cycle,
// same as ChatQuery.
func (s *Server) ChatMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	state, err := s.sessionState(r, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	s.runTurn(w, r, state)
}

// runTurn decodes the message, executes one conversation turn, and
// renders the result.
func (s *Server) runTurn(w http.ResponseWriter, r *http.Request, state service.SessionState) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("message is required"))
		return
	}

	result, err := s.sessions.HandleMessage(r.Context(), userID, state, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := chatResponse{
		Intent:   result.Intent,
		Response: result.Response,
		Active:   result.State.Active,
	}
	if result.State.Active {
		tripID := result.State.TripID
		resp.TripID = &tripID
	}
	writeJSON(w, http.StatusOK, resp)
}

// sessionState rebuilds the conversation state from persistence: the
// active trip plus its latest plan text. No active trip means a blank
// session.
func (s *Server) sessionState(r *http.Request, userID uuid.UUID) (service.SessionState, error) {
	trip, err := s.trips.ActiveTrip(r.Context(), userID)
	if errors.Is(err, domain.ErrNotFound) {
		return service.SessionState{}, nil
	}
	if err != nil {
		return service.SessionState{}, err
	}

	state := service.SessionState{TripID: trip.ID, Active: true}
	plan, err := s.trips.LatestPlan(r.Context(), userID, trip.ID)
	if err == nil {
		state.Plan = plan.Content
	} else if !errors.Is(err, domain.ErrNotFound) {
		return service.SessionState{}, err
	}
	return state, nil
}
