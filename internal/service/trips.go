package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mbenedetti/viaggio/internal/domain"
	"github.com/mbenedetti/viaggio/internal/repo"
)

// TripService implements trip lifecycle and history operations. It
// maintains the one-active-trip-per-user convention: activating a new
// trip deactivates whichever trip was active before.
type TripService struct {
	trips        repo.TripRepo
	plans        repo.PlanRepo
	interactions repo.InteractionRepo
}

// NewTripService constructs a TripService over the given repos.
func NewTripService(trips repo.TripRepo, plans repo.PlanRepo, interactions repo.InteractionRepo) *TripService {
	return &TripService{trips: trips, plans: plans, interactions: interactions}
}

// StartTrip persists a new active trip for the request, deactivating the
// user's previously active trip first.
func (s *TripService) StartTrip(ctx context.Context, userID uuid.UUID, req domain.TripRequest) (domain.Trip, error) {
	if prev, err := s.trips.GetActive(ctx, userID); err == nil {
		if err := s.trips.Deactivate(ctx, prev.ID); err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.StartTrip: %w", err)
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Trip{}, fmt.Errorf("service.TripService.StartTrip: %w", err)
	}

	trip, err := s.trips.Create(ctx, domain.Trip{
		UserID:        userID,
		Destination:   req.Destination,
		Country:       req.Country,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		DepartureCity: req.DepartureCity,
		IsActive:      true,
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.StartTrip: %w", err)
	}
	return trip, nil
}

// ActiveTrip returns the user's active trip, or domain.ErrNotFound.
func (s *TripService) ActiveTrip(ctx context.Context, userID uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetActive(ctx, userID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.ActiveTrip: %w", err)
	}
	return trip, nil
}

// GetTrip returns a trip after checking the caller owns it. A trip owned
// by someone else reports domain.ErrNotFound rather than leaking its
// existence.
func (s *TripService) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetTrip: %w", err)
	}
	if trip.UserID != userID {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetTrip: %w", domain.ErrNotFound)
	}
	return trip, nil
}

// ListTrips returns the user's trips, optionally only active ones.
func (s *TripService) ListTrips(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]domain.Trip, error) {
	trips, err := s.trips.ListByUser(ctx, userID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListTrips: %w", err)
	}
	return trips, nil
}

// DeleteTrip removes an owned trip with its plans and interactions.
func (s *TripService) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	if _, err := s.GetTrip(ctx, userID, tripID); err != nil {
		return fmt.Errorf("service.TripService.DeleteTrip: %w", err)
	}
	if err := s.trips.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("service.TripService.DeleteTrip: %w", err)
	}
	return nil
}

// FinalizeTrip deactivates an owned trip, ending its planning session.
func (s *TripService) FinalizeTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	if _, err := s.GetTrip(ctx, userID, tripID); err != nil {
		return fmt.Errorf("service.TripService.FinalizeTrip: %w", err)
	}
	if err := s.trips.Deactivate(ctx, tripID); err != nil {
		return fmt.Errorf("service.TripService.FinalizeTrip: %w", err)
	}
	return nil
}

// SavePlan stores a new plan version for an owned trip and returns the
// persisted plan carrying its allocated version.
func (s *TripService) SavePlan(ctx context.Context, userID, tripID uuid.UUID, content string) (domain.Plan, error) {
	if content == "" {
		return domain.Plan{}, fmt.Errorf("service.TripService.SavePlan: %w: plan content is empty", domain.ErrValidation)
	}
	if _, err := s.GetTrip(ctx, userID, tripID); err != nil {
		return domain.Plan{}, fmt.Errorf("service.TripService.SavePlan: %w", err)
	}
	plan, err := s.plans.Save(ctx, tripID, content)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.TripService.SavePlan: %w", err)
	}
	return plan, nil
}

// LatestPlan returns the highest-version plan of an owned trip.
func (s *TripService) LatestPlan(ctx context.Context, userID, tripID uuid.UUID) (domain.Plan, error) {
	if _, err := s.GetTrip(ctx, userID, tripID); err != nil {
		return domain.Plan{}, fmt.Errorf("service.TripService.LatestPlan: %w", err)
	}
	plan, err := s.plans.GetLatest(ctx, tripID)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.TripService.LatestPlan: %w", err)
	}
	return plan, nil
}

// ListPlans returns all plan versions of an owned trip, newest first.
func (s *TripService) ListPlans(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Plan, error) {
	if _, err := s.GetTrip(ctx, userID, tripID); err != nil {
		return nil, fmt.Errorf("service.TripService.ListPlans: %w", err)
	}
	plans, err := s.plans.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListPlans: %w", err)
	}
	return plans, nil
}

// LogInteraction appends one exchange to the trip's interaction log.
func (s *TripService) LogInteraction(ctx context.Context, tripID uuid.UUID, input string, intent domain.Intent, response string) error {
	_, err := s.interactions.Save(ctx, domain.Interaction{
		TripID:   tripID,
		Input:    input,
		Intent:   intent,
		Response: response,
	})
	if err != nil {
		return fmt.Errorf("service.TripService.LogInteraction: %w", err)
	}
	return nil
}

// Interactions returns the chat history of an owned trip, oldest first.
func (s *TripService) Interactions(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Interaction, error) {
	if _, err := s.GetTrip(ctx, userID, tripID); err != nil {
		return nil, fmt.Errorf("service.TripService.Interactions: %w", err)
	}
	log, err := s.interactions.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.Interactions: %w", err)
	}
	return log, nil
}

// Stats summarizes the user's planning history.
func (s *TripService) Stats(ctx context.Context, userID uuid.UUID) (domain.UserStats, error) {
	stats, err := s.trips.Stats(ctx, userID)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("service.TripService.Stats: %w", err)
	}
	return stats, nil
}
