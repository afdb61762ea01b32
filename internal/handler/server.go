// Package handler implements the HTTP handlers for the viaggio API.
// All handlers are methods on Server; methods are split into
// domain-specific files (auth.go, chat.go, trip.go, export.go) but share
// the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mbenedetti/viaggio/internal/domain"
	"github.com/mbenedetti/viaggio/internal/service"
)

// AuthServicer defines the account operations the auth handler depends
// on. Defining the interface here (in the consumer package) follows the
// Go convention: "accept interfaces, return concrete types". It lets
// handler tests inject a mock without touching the database.
type AuthServicer interface {
	Register(ctx context.Context, username, password, email string) (domain.User, error)
	Login(ctx context.Context, username, password string) (domain.User, string, error)
}

// TripServicer defines the trip, plan, and stats operations the trip and
// export handlers depend on. Every method is ownership-checked against
// the authenticated user.
type TripServicer interface {
	ActiveTrip(ctx context.Context, userID uuid.UUID) (domain.Trip, error)
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	ListTrips(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]domain.Trip, error)
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error
	FinalizeTrip(ctx context.Context, userID, tripID uuid.UUID) error
	LatestPlan(ctx context.Context, userID, tripID uuid.UUID) (domain.Plan, error)
	ListPlans(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Plan, error)
	Interactions(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Interaction, error)
	Stats(ctx context.Context, userID uuid.UUID) (domain.UserStats, error)
}

// SessionServicer runs one conversation turn. The handler owns no
// conversation state: it reconstructs SessionState from the active trip
// on every request and passes it in.
type SessionServicer interface {
	HandleMessage(ctx context.Context, userID uuid.UUID, state service.SessionState, message string) (service.TurnResult, error)
}

// Server holds the dependencies shared by all API endpoints.
type Server struct {
	auth     AuthServicer
	trips    TripServicer
	sessions SessionServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(auth AuthServicer, trips TripServicer, sessions SessionServicer) *Server {
	return &Server{auth: auth, trips: trips, sessions: sessions}
}

// Routes builds the API router. requireAuth wraps every route except the
// health check and the auth endpoints; in production it is
// middleware.NewAuthHandler, in tests a stub that injects a fixed user.
func (s *Server) Routes(requireAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.Register)
		r.Post("/login", s.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Post("/chat/query", s.ChatQuery)
		r.Post("/chat/message", s.ChatMessage)

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", s.ListTrips)
			r.Get("/{id}", s.GetTrip)
			r.Delete("/{id}", s.DeleteTrip)
			r.Post("/{id}/finalize", s.FinalizeTrip)
			r.Get("/{id}/plans", s.ListPlans)
			r.Get("/{id}/interactions", s.ListInteractions)
			r.Get("/{id}/export", s.ExportTrip)
		})

		r.Get("/me/stats", s.GetStats)
	})

	return r
}
