package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sethvargo/go-retry"

	"github.com/mbenedetti/viaggio/internal/domain"
)

// PlanRepo defines the persistence operations for plan versions.
type PlanRepo interface {
	// Save stores a new plan version for the trip and returns the
	// persisted record with its allocated version number. Versions are
	// strictly increasing per trip starting at 1.
	Save(ctx context.Context, tripID uuid.UUID, content string) (domain.Plan, error)

	// GetLatest returns the highest-version plan for the trip.
	// Returns domain.ErrNotFound when the trip has no plans.
	GetLatest(ctx context.Context, tripID uuid.UUID) (domain.Plan, error)

	// ListByTrip returns all of the trip's plans, newest version first.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Plan, error)
}

// pgPlanRepo is the Postgres implementation of PlanRepo.
type pgPlanRepo struct {
	db db
}

// NewPlanRepo constructs a PlanRepo backed by the provided db connection.
func NewPlanRepo(db db) PlanRepo {
	return &pgPlanRepo{db: db}
}

// Save allocates the next version number and inserts in one statement, so
// two writers cannot both read the same MAX. If they still collide, the
// unique (trip_id, version) constraint rejects one insert and the write
// is retried with a freshly computed version.
func (r *pgPlanRepo) Save(ctx context.Context, tripID uuid.UUID, content string) (domain.Plan, error) {
	const q = `
		INSERT INTO plans (trip_id, content, version)
		SELECT @trip_id, @content, COALESCE(MAX(version), 0) + 1
		FROM plans
		WHERE trip_id = @trip_id
		RETURNING id, trip_id, content, version, created_at`

	args := pgx.NamedArgs{
		"trip_id": tripID,
		"content": content,
	}

	var plan domain.Plan
	backoff := retry.WithMaxRetries(3, retry.NewConstant(10*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		row := r.db.QueryRow(ctx, q, args)
		result, err := scanPlan(row)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return retry.RetryableError(err)
			}
			return err
		}
		plan = result
		return nil
	})
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.PlanRepo.Save: %w", err)
	}
	return plan, nil
}

// GetLatest returns the max-version plan for a trip.
func (r *pgPlanRepo) GetLatest(ctx context.Context, tripID uuid.UUID) (domain.Plan, error) {
	const q = `
		SELECT id, trip_id, content, version, created_at
		FROM plans
		WHERE trip_id = @trip_id
		ORDER BY version DESC
		LIMIT 1`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	result, err := scanPlan(row)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.PlanRepo.GetLatest: %w", err)
	}
	return result, nil
}

// ListByTrip returns all plan versions for a trip, newest first.
func (r *pgPlanRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Plan, error) {
	const q = `
		SELECT id, trip_id, content, version, created_at
		FROM plans
		WHERE trip_id = @trip_id
		ORDER BY version DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.PlanRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PlanRepo.ListByTrip: scan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PlanRepo.ListByTrip: rows: %w", err)
	}

	return plans, nil
}

// scanPlan maps a single database row into a domain.Plan.
func scanPlan(s scanner) (domain.Plan, error) {
	var (
		p      domain.Plan
		id     pgtype.UUID
		tripID pgtype.UUID
	)

	err := s.Scan(&id, &tripID, &p.Content, &p.Version, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Plan{}, domain.ErrNotFound
		}
		return domain.Plan{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	p.TripID = uuid.UUID(tripID.Bytes)

	return p, nil
}
