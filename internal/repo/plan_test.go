package repo_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbenedetti/viaggio/internal/domain"
	"github.com/mbenedetti/viaggio/internal/repo"
)

func TestPlanRepo_VersionSequence(t *testing.T) {
	tx := newTestTx(t)
	user := createUser(t, tx)
	trip, err := repo.NewTripRepo(tx).Create(context.Background(), tripFixture(user.ID))
	require.NoError(t, err)

	r := repo.NewPlanRepo(tx)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		plan, err := r.Save(ctx, trip.ID, fmt.Sprintf("plan v%d", want))
		require.NoError(t, err)
		assert.Equal(t, want, plan.Version)
	}

	latest, err := r.GetLatest(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, latest.Version)
	assert.Equal(t, "plan v3", latest.Content)
}

func TestPlanRepo_VersionsIndependentPerTrip(t *testing.T) {
	tx := newTestTx(t)
	user := createUser(t, tx)
	trips := repo.NewTripRepo(tx)
	ctx := context.Background()

	first, err := trips.Create(ctx, tripFixture(user.ID))
	require.NoError(t, err)
	second, err := trips.Create(ctx, tripFixture(user.ID))
	require.NoError(t, err)

	r := repo.NewPlanRepo(tx)
	_, err = r.Save(ctx, first.ID, "first trip plan")
	require.NoError(t, err)

	plan, err := r.Save(ctx, second.ID, "second trip plan")
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Version, "version counters are per trip")
}

func TestPlanRepo_ListByTrip(t *testing.T) {
	tx := newTestTx(t)
	user := createUser(t, tx)
	trip, err := repo.NewTripRepo(tx).Create(context.Background(), tripFixture(user.ID))
	require.NoError(t, err)

	r := repo.NewPlanRepo(tx)
	ctx := context.Background()

	_, err = r.Save(ctx, trip.ID, "v1")
	require.NoError(t, err)
	_, err = r.Save(ctx, trip.ID, "v2")
	require.NoError(t, err)

	plans, err := r.ListByTrip(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, 2, plans[0].Version, "newest version first")
	assert.Equal(t, 1, plans[1].Version)
}

func TestPlanRepo_GetLatest_NoPlans(t *testing.T) {
	tx := newTestTx(t)
	user := createUser(t, tx)
	trip, err := repo.NewTripRepo(tx).Create(context.Background(), tripFixture(user.ID))
	require.NoError(t, err)

	_, err = repo.NewPlanRepo(tx).GetLatest(context.Background(), trip.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
