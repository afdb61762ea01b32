package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mbenedetti/viaggio/internal/domain"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// GetActive returns the user's currently active trip.
	// Returns domain.ErrNotFound when the user has none.
	GetActive(ctx context.Context, userID uuid.UUID) (domain.Trip, error)

	// ListByUser returns the user's trips newest-first. With activeOnly
	// set, inactive trips are filtered out.
	ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]domain.Trip, error)

	// Deactivate clears the trip's active flag.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	Deactivate(ctx context.Context, id uuid.UUID) error

	// Delete removes a trip and, via cascade, its plans and interactions.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Stats summarizes the user's planning history: trip counts and the
	// five most-planned destinations.
	Stats(ctx context.Context, userID uuid.UUID) (domain.UserStats, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, user_id, destination, country, start_date, end_date,
		departure_city, is_active, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (user_id, destination, country, start_date, end_date, departure_city, is_active)
		VALUES (@user_id, @destination, @country, @start_date, @end_date, @departure_city, @is_active)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"user_id":        trip.UserID,
		"destination":    trip.Destination,
		"country":        trip.Country,
		"start_date":     trip.StartDate,
		"end_date":       trip.EndDate,
		"departure_city": trip.DepartureCity,
		"is_active":      trip.IsActive,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetActive returns the user's active trip, newest when more than one row
// carries the flag.
func (r *pgTripRepo) GetActive(ctx context.Context, userID uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = @user_id AND is_active
		ORDER BY updated_at DESC
		LIMIT 1`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetActive: %w", err)
	}
	return result, nil
}

// ListByUser returns the user's trips ordered by creation descending.
func (r *pgTripRepo) ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]domain.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips WHERE user_id = @user_id`
	if activeOnly {
		q += ` AND is_active`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListByUser: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByUser: rows: %w", err)
	}

	return trips, nil
}

// Deactivate clears the active flag.
func (r *pgTripRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE trips SET is_active = false, updated_at = now() WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Deactivate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Deactivate: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// Stats aggregates trip counts and the five most-planned destinations.
func (r *pgTripRepo) Stats(ctx context.Context, userID uuid.UUID) (domain.UserStats, error) {
	const countsQ = `
		SELECT count(*), count(*) FILTER (WHERE is_active)
		FROM trips
		WHERE user_id = @user_id`

	var stats domain.UserStats
	err := r.db.QueryRow(ctx, countsQ, pgx.NamedArgs{"user_id": userID}).
		Scan(&stats.TotalTrips, &stats.ActiveTrips)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("repo.TripRepo.Stats: counts: %w", err)
	}

	const topQ = `
		SELECT destination, country, count(*) AS visits
		FROM trips
		WHERE user_id = @user_id
		GROUP BY destination, country
		ORDER BY visits DESC, destination
		LIMIT 5`

	rows, err := r.db.Query(ctx, topQ, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("repo.TripRepo.Stats: destinations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d domain.DestinationCount
		if err := rows.Scan(&d.Destination, &d.Country, &d.Visits); err != nil {
			return domain.UserStats{}, fmt.Errorf("repo.TripRepo.Stats: scan: %w", err)
		}
		stats.TopDestinations = append(stats.TopDestinations, d)
	}
	if err := rows.Err(); err != nil {
		return domain.UserStats{}, fmt.Errorf("repo.TripRepo.Stats: rows: %w", err)
	}

	return stats, nil
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t      domain.Trip
		id     pgtype.UUID
		userID pgtype.UUID
		start  pgtype.Date
		end    pgtype.Date
	)

	err := s.Scan(&id, &userID, &t.Destination, &t.Country, &start, &end,
		&t.DepartureCity, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.UserID = uuid.UUID(userID.Bytes)
	t.StartDate = start.Time
	t.EndDate = end.Time

	return t, nil
}
