package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mbenedetti/viaggio/internal/domain"
	"github.com/mbenedetti/viaggio/internal/handler"
	"github.com/mbenedetti/viaggio/internal/middleware"
	"github.com/mbenedetti/viaggio/internal/service"
)

// mockAuthServicer is a test double for handler.AuthServicer.
// Set only the method fields your test needs.
type mockAuthServicer struct {
	register func(ctx context.Context, username, password, email string) (domain.User, error)
	login    func(ctx context.Context, username, password string) (domain.User, string, error)
}

func (m *mockAuthServicer) Register(ctx context.Context, username, password, email string) (domain.User, error) {
	return m.register(ctx, username, password, email)
}

func (m *mockAuthServicer) Login(ctx context.Context, username, password string) (domain.User, string, error) {
	return m.login(ctx, username, password)
}

// mockTripServicer is a test double for handler.TripServicer.
type mockTripServicer struct {
	activeTrip   func(ctx context.Context, userID uuid.UUID) (domain.Trip, error)
	getTrip      func(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	listTrips    func(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]domain.Trip, error)
	deleteTrip   func(ctx context.Context, userID, tripID uuid.UUID) error
	finalizeTrip func(ctx context.Context, userID, tripID uuid.UUID) error
	latestPlan   func(ctx context.Context, userID, tripID uuid.UUID) (domain.Plan, error)
	listPlans    func(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Plan, error)
	interactions func(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Interaction, error)
	stats        func(ctx context.Context, userID uuid.UUID) (domain.UserStats, error)
}

func (m *mockTripServicer) ActiveTrip(ctx context.Context, userID uuid.UUID) (domain.Trip, error) {
	return m.activeTrip(ctx, userID)
}

func (m *mockTripServicer) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	return m.getTrip(ctx, userID, tripID)
}

func (m *mockTripServicer) ListTrips(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]domain.Trip, error) {
	return m.listTrips(ctx, userID, activeOnly)
}

func (m *mockTripServicer) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	return m.deleteTrip(ctx, userID, tripID)
}

func (m *mockTripServicer) FinalizeTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	return m.finalizeTrip(ctx, userID, tripID)
}

func (m *mockTripServicer) LatestPlan(ctx context.Context, userID, tripID uuid.UUID) (domain.Plan, error) {
	return m.latestPlan(ctx, userID, tripID)
}

func (m *mockTripServicer) ListPlans(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Plan, error) {
	return m.listPlans(ctx, userID, tripID)
}

func (m *mockTripServicer) Interactions(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Interaction, error) {
	return m.interactions(ctx, userID, tripID)
}

func (m *mockTripServicer) Stats(ctx context.Context, userID uuid.UUID) (domain.UserStats, error) {
	return m.stats(ctx, userID)
}

// mockSessionServicer is a test double for handler.SessionServicer.
type mockSessionServicer struct {
	handle func(ctx context.Context, userID uuid.UUID, state service.SessionState, message string) (service.TurnResult, error)
}

func (m *mockSessionServicer) HandleMessage(ctx context.Context, userID uuid.UUID, state service.SessionState, message string) (service.TurnResult, error) {
	return m.handle(ctx, userID, state, message)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.AuthServicer    = (*mockAuthServicer)(nil)
	_ handler.TripServicer    = (*mockTripServicer)(nil)
	_ handler.SessionServicer = (*mockSessionServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// asUser returns an auth middleware stub that injects a fixed user ID,
// standing in for middleware.NewAuthHandler in handler tests.
func asUser(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), userID)))
		})
	}
}

// newHTTPHandler wires a Server with the given mocks into the router,
// authenticated as userID. This mirrors how main.go wires it in
// production, with only the token check swapped out.
func newHTTPHandler(userID uuid.UUID, auth handler.AuthServicer, trips handler.TripServicer, sessions handler.SessionServicer) http.Handler {
	return handler.NewServer(auth, trips, sessions).Routes(asUser(userID))
}

func tripFixture(userID uuid.UUID) domain.Trip {
	return domain.Trip{
		ID:          uuid.New(),
		UserID:      userID,
		Destination: "Rome",
		Country:     "Italy",
		StartDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC),
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}
