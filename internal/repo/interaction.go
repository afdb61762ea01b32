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

// InteractionRepo defines the persistence operations for the append-only
// interaction log. There is no update or delete: interactions only go
// away when their trip is deleted.
type InteractionRepo interface {
	// Save appends one user/system exchange to the trip's log.
	Save(ctx context.Context, interaction domain.Interaction) (domain.Interaction, error)

	// ListByTrip returns the trip's interactions oldest-first.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Interaction, error)
}

// pgInteractionRepo is the Postgres implementation of InteractionRepo.
type pgInteractionRepo struct {
	db db
}

// NewInteractionRepo constructs an InteractionRepo backed by the provided
// db connection.
func NewInteractionRepo(db db) InteractionRepo {
	return &pgInteractionRepo{db: db}
}

// Save appends one interaction row.
func (r *pgInteractionRepo) Save(ctx context.Context, interaction domain.Interaction) (domain.Interaction, error) {
	const q = `
		INSERT INTO interactions (trip_id, input, intent, response)
		VALUES (@trip_id, @input, @intent, @response)
		RETURNING id, trip_id, input, intent, response, created_at`

	args := pgx.NamedArgs{
		"trip_id":  interaction.TripID,
		"input":    interaction.Input,
		"intent":   string(interaction.Intent),
		"response": interaction.Response,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanInteraction(row)
	if err != nil {
		return domain.Interaction{}, fmt.Errorf("repo.InteractionRepo.Save: %w", err)
	}
	return result, nil
}

// ListByTrip returns the trip's interactions in insertion order.
func (r *pgInteractionRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Interaction, error) {
	const q = `
		SELECT id, trip_id, input, intent, response, created_at
		FROM interactions
		WHERE trip_id = @trip_id
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.InteractionRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	var interactions []domain.Interaction
	for rows.Next() {
		i, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.InteractionRepo.ListByTrip: scan: %w", err)
		}
		interactions = append(interactions, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.InteractionRepo.ListByTrip: rows: %w", err)
	}

	return interactions, nil
}

// scanInteraction maps a single database row into a domain.Interaction.
func scanInteraction(s scanner) (domain.Interaction, error) {
	var (
		i      domain.Interaction
		id     pgtype.UUID
		tripID pgtype.UUID
		intent string
	)

	err := s.Scan(&id, &tripID, &i.Input, &intent, &i.Response, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Interaction{}, domain.ErrNotFound
		}
		return domain.Interaction{}, err
	}

	i.ID = uuid.UUID(id.Bytes)
	i.TripID = uuid.UUID(tripID.Bytes)
	i.Intent = domain.Intent(intent)

	return i, nil
}
