package travel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbenedetti/viaggio/internal/domain"
)

// ---- degraded listings ----

func TestDegradedListings_CarryHotelIDs(t *testing.T) {
	ids := []string{"RTPAR001", "RTPAR002", "RTPAR003", "RTPAR004"}

	listings := degradedListings("Paris", ids)

	require.Len(t, listings, 3)
	for i, h := range listings {
		assert.Equal(t, ids[i], h.HotelID)
		assert.Equal(t, domain.PriceUnavailable, h.Price)
		assert.False(t, h.HasPricing)
		assert.Equal(t, "amadeus", h.Source)
	}
	assert.Equal(t, "Hotel in Paris (1)", listings[0].Name)
}

func TestDegradedListings_FewerIDsThanCap(t *testing.T) {
	listings := degradedListings("Lyon", []string{"RTLYS001"})

	require.Len(t, listings, 1)
	assert.Equal(t, "RTLYS001", listings[0].HotelID)
}
