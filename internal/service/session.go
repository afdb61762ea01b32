package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mbenedetti/viaggio/internal/domain"
	"github.com/mbenedetti/viaggio/internal/pipeline"
	"github.com/mbenedetti/viaggio/internal/planner"
)

// Pipeline runs the full planning chain for a free-text query.
type Pipeline interface {
	Run(ctx context.Context, query string) (pipeline.Result, error)
}

// IntentClassifier assigns an intent to a follow-up message. It never
// fails: classification problems surface as IntentError or the
// modification default.
type IntentClassifier interface {
	Classify(ctx context.Context, message string) planner.Classification
}

// PlanRefiner rewrites an existing plan per a modification request,
// degrading to the current plan with a note on failure.
type PlanRefiner interface {
	Refine(ctx context.Context, currentPlan, request string) (string, error)
}

// SessionState is the explicit conversation state threaded through every
// turn. The zero value is "no active plan". It is a value, not a pointer:
// each turn returns the next state instead of mutating shared fields.
type SessionState struct {
	TripID uuid.UUID
	Plan   string
	Active bool
}

// TurnResult is the outcome of one conversation turn.
type TurnResult struct {
	State    SessionState
	Intent   domain.Intent
	Response string
}

// SessionService drives the conversation loop: the first query of a
// session starts a new trip, follow-up messages are dispatched on their
// classified intent.
type SessionService struct {
	pipeline   Pipeline
	classifier IntentClassifier
	refiner    PlanRefiner
	trips      *TripService
	log        *slog.Logger
}

// NewSessionService wires the conversation loop together.
func NewSessionService(p Pipeline, c IntentClassifier, r PlanRefiner, trips *TripService, log *slog.Logger) *SessionService {
	return &SessionService{pipeline: p, classifier: c, refiner: r, trips: trips, log: log}
}

// HandleMessage processes one user turn and returns the reply with the
// next session state. Without an active plan every input starts a new
// trip; with one, the classified intent decides the transition.
func (s *SessionService) HandleMessage(ctx context.Context, userID uuid.UUID, state SessionState, message string) (TurnResult, error) {
	if strings.EqualFold(strings.TrimSpace(message), "logout") {
		next, err := s.Logout(ctx, userID, state)
		if err != nil {
			return TurnResult{}, err
		}
		return TurnResult{State: next, Intent: domain.IntentDone, Response: "Sessione chiusa. A presto!"}, nil
	}

	if !state.Active {
		return s.startNewTrip(ctx, userID, message)
	}

	verdict := s.classifier.Classify(ctx, message)
	s.log.Info("message classified", "intent", verdict.Intent, "trip_id", state.TripID)

	switch verdict.Intent {
	case domain.IntentModification:
		return s.applyModification(ctx, userID, state, message, verdict)

	case domain.IntentInformation:
		if err := s.trips.LogInteraction(ctx, state.TripID, message, verdict.Intent, verdict.Response); err != nil {
			return TurnResult{}, fmt.Errorf("service.SessionService.HandleMessage: %w", err)
		}
		return TurnResult{State: state, Intent: verdict.Intent, Response: verdict.Response}, nil

	case domain.IntentNewTrip:
		return s.startNewTrip(ctx, userID, message)

	case domain.IntentDone:
		if err := s.trips.LogInteraction(ctx, state.TripID, message, verdict.Intent, verdict.Response); err != nil {
			return TurnResult{}, fmt.Errorf("service.SessionService.HandleMessage: %w", err)
		}
		if err := s.trips.FinalizeTrip(ctx, userID, state.TripID); err != nil {
			return TurnResult{}, fmt.Errorf("service.SessionService.HandleMessage: %w", err)
		}
		return TurnResult{State: SessionState{}, Intent: verdict.Intent, Response: verdict.Response}, nil

	default: // IntentError: state unchanged, apologize
		return TurnResult{State: state, Intent: domain.IntentError, Response: verdict.Response}, nil
	}
}

// startNewTrip runs the full pipeline and persists the trip, its first
// plan version, and the opening interaction. The plan text is the reply.
func (s *SessionService) startNewTrip(ctx context.Context, userID uuid.UUID, query string) (TurnResult, error) {
	result, err := s.pipeline.Run(ctx, query)
	if err != nil {
		return TurnResult{}, fmt.Errorf("service.SessionService.startNewTrip: %w", err)
	}

	trip, err := s.trips.StartTrip(ctx, userID, result.Request)
	if err != nil {
		return TurnResult{}, fmt.Errorf("service.SessionService.startNewTrip: %w", err)
	}
	plan, err := s.trips.SavePlan(ctx, userID, trip.ID, result.Plan)
	if err != nil {
		return TurnResult{}, fmt.Errorf("service.SessionService.startNewTrip: %w", err)
	}
	if err := s.trips.LogInteraction(ctx, trip.ID, query, domain.IntentNewTrip, result.Plan); err != nil {
		return TurnResult{}, fmt.Errorf("service.SessionService.startNewTrip: %w", err)
	}

	s.log.Info("new trip planned", "trip_id", trip.ID, "destination", trip.Destination, "plan_version", plan.Version)

	return TurnResult{
		State:    SessionState{TripID: trip.ID, Plan: result.Plan, Active: true},
		Intent:   domain.IntentNewTrip,
		Response: result.Plan,
	}, nil
}

// applyModification refines the current plan, persists it as a new
// version, and swaps it into the session state.
func (s *SessionService) applyModification(ctx context.Context, userID uuid.UUID, state SessionState, message string, verdict planner.Classification) (TurnResult, error) {
	refined, err := s.refiner.Refine(ctx, state.Plan, message)
	if err != nil {
		return TurnResult{}, fmt.Errorf("service.SessionService.applyModification: %w", err)
	}

	plan, err := s.trips.SavePlan(ctx, userID, state.TripID, refined)
	if err != nil {
		return TurnResult{}, fmt.Errorf("service.SessionService.applyModification: %w", err)
	}
	if err := s.trips.LogInteraction(ctx, state.TripID, message, domain.IntentModification, verdict.Response); err != nil {
		return TurnResult{}, fmt.Errorf("service.SessionService.applyModification: %w", err)
	}

	s.log.Info("plan modified", "trip_id", state.TripID, "plan_version", plan.Version)

	state.Plan = refined
	return TurnResult{State: state, Intent: domain.IntentModification, Response: refined}, nil
}

// Logout deactivates the active trip, if any, and clears the session.
func (s *SessionService) Logout(ctx context.Context, userID uuid.UUID, state SessionState) (SessionState, error) {
	if state.Active {
		if err := s.trips.FinalizeTrip(ctx, userID, state.TripID); err != nil {
			return SessionState{}, fmt.Errorf("service.SessionService.Logout: %w", err)
		}
	}
	return SessionState{}, nil
}
