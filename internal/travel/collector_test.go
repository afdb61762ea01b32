package travel

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbenedetti/viaggio/internal/domain"
)

// ---- provider mocks ----

type mockFlights struct {
	searchFn func(ctx context.Context, origin, destination string, date time.Time) ([]domain.Flight, error)
}

func (m *mockFlights) SearchFlights(ctx context.Context, origin, destination string, date time.Time) ([]domain.Flight, error) {
	return m.searchFn(ctx, origin, destination, date)
}

type mockWeather struct {
	forecastFn func(ctx context.Context, city string) ([]domain.Forecast, error)
}

func (m *mockWeather) Forecast(ctx context.Context, city string) ([]domain.Forecast, error) {
	return m.forecastFn(ctx, city)
}

type mockPlaces struct {
	attractionsFn func(ctx context.Context, city string) ([]domain.Attraction, error)
	hotelsFn      func(ctx context.Context, city string) ([]domain.Hotel, error)
}

func (m *mockPlaces) Attractions(ctx context.Context, city string) ([]domain.Attraction, error) {
	return m.attractionsFn(ctx, city)
}

func (m *mockPlaces) Hotels(ctx context.Context, city string) ([]domain.Hotel, error) {
	return m.hotelsFn(ctx, city)
}

type mockEvents struct {
	eventsFn func(ctx context.Context, city string) ([]domain.Event, error)
}

func (m *mockEvents) Events(ctx context.Context, city string) ([]domain.Event, error) {
	return m.eventsFn(ctx, city)
}

type mockPricer struct {
	offersFn func(ctx context.Context, city string, checkIn, checkOut time.Time, adults int) ([]domain.Hotel, error)
}

func (m *mockPricer) HotelOffers(ctx context.Context, city string, checkIn, checkOut time.Time, adults int) ([]domain.Hotel, error) {
	return m.offersFn(ctx, city, checkIn, checkOut, adults)
}

var (
	_ FlightSearcher  = (*mockFlights)(nil)
	_ WeatherProvider = (*mockWeather)(nil)
	_ PlacesProvider  = (*mockPlaces)(nil)
	_ EventsProvider  = (*mockEvents)(nil)
	_ HotelPricer     = (*mockPricer)(nil)
)

func healthyCollector() *Collector {
	return NewCollector(
		&mockFlights{searchFn: func(context.Context, string, string, time.Time) ([]domain.Flight, error) {
			return []domain.Flight{{Carrier: "AZ", FlightNumber: "608"}}, nil
		}},
		&mockWeather{forecastFn: func(context.Context, string) ([]domain.Forecast, error) {
			return []domain.Forecast{{Date: "2026-09-10", TempMin: 14, TempMax: 23}}, nil
		}},
		&mockPlaces{
			attractionsFn: func(context.Context, string) ([]domain.Attraction, error) {
				return []domain.Attraction{{Name: "Louvre"}}, nil
			},
			hotelsFn: func(context.Context, string) ([]domain.Hotel, error) {
				return []domain.Hotel{{Name: "Hotel Lutetia", Rating: 4.6}}, nil
			},
		},
		&mockEvents{eventsFn: func(context.Context, string) ([]domain.Event, error) {
			return []domain.Event{{Name: "Jazz Festival"}}, nil
		}},
		&mockPricer{offersFn: func(context.Context, string, time.Time, time.Time, int) ([]domain.Hotel, error) {
			return []domain.Hotel{{Name: "Hotel Lutetia", Price: "310.00", HasPricing: true}}, nil
		}},
		CurrencyLookup{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func parisRequest() domain.TripRequest {
	return domain.TripRequest{
		Destination:   "Paris",
		Country:       "France",
		DepartureCity: "Rome",
		StartDate:     time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC),
		Travelers:     2,
		Budget:        domain.BudgetMedium,
	}
}

// ---- happy path ----

func TestCollectAll_PopulatesEverySlot(t *testing.T) {
	data := healthyCollector().CollectAll(context.Background(), parisRequest())

	assert.True(t, data.Flights.OK())
	assert.True(t, data.Weather.OK())
	assert.True(t, data.Attractions.OK())
	assert.True(t, data.Events.OK())
	assert.True(t, data.Currency.OK())
	require.True(t, data.Accommodations.OK())

	// variety and pricing sides merged on the shared name
	require.Len(t, data.Accommodations.Value, 1)
	merged := data.Accommodations.Value[0]
	assert.Equal(t, "310.00", merged.Price)
	assert.Equal(t, 4.6, merged.Rating)
	assert.Equal(t, "EUR", data.Currency.Value.Currency)
}

// ---- fault isolation ----

func TestCollectAll_OneFailureDoesNotBlockOthers(t *testing.T) {
	c := healthyCollector()
	boom := errors.New("connection refused")
	c.weather = &mockWeather{forecastFn: func(context.Context, string) ([]domain.Forecast, error) {
		return nil, boom
	}}

	data := c.CollectAll(context.Background(), parisRequest())

	require.True(t, data.Weather.Failed())
	assert.ErrorIs(t, data.Weather.Err, boom)
	assert.True(t, data.Flights.OK())
	assert.True(t, data.Attractions.OK())
	assert.True(t, data.Events.OK())
	assert.True(t, data.Accommodations.OK())
}

func TestCollectAll_AllSourcesDown(t *testing.T) {
	down := errors.New("timeout")
	c := NewCollector(
		&mockFlights{searchFn: func(context.Context, string, string, time.Time) ([]domain.Flight, error) { return nil, down }},
		&mockWeather{forecastFn: func(context.Context, string) ([]domain.Forecast, error) { return nil, down }},
		&mockPlaces{
			attractionsFn: func(context.Context, string) ([]domain.Attraction, error) { return nil, down },
			hotelsFn:      func(context.Context, string) ([]domain.Hotel, error) { return nil, down },
		},
		&mockEvents{eventsFn: func(context.Context, string) ([]domain.Event, error) { return nil, down }},
		&mockPricer{offersFn: func(context.Context, string, time.Time, time.Time, int) ([]domain.Hotel, error) { return nil, down }},
		CurrencyLookup{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	data := c.CollectAll(context.Background(), parisRequest())

	assert.True(t, data.Flights.Failed())
	assert.True(t, data.Weather.Failed())
	assert.True(t, data.Attractions.Failed())
	assert.True(t, data.Events.Failed())
	assert.True(t, data.Accommodations.Failed())
	// the static lookup never fails
	assert.True(t, data.Currency.OK())
}

// ---- gating ----

func TestCollectAll_SkipsFlightsWithoutDeparture(t *testing.T) {
	c := healthyCollector()
	c.flights = &mockFlights{searchFn: func(context.Context, string, string, time.Time) ([]domain.Flight, error) {
		t.Error("flight search must not run without a departure city")
		return nil, nil
	}}

	req := parisRequest()
	req.DepartureCity = "unknown"
	data := c.CollectAll(context.Background(), req)

	assert.False(t, data.Flights.Set)
	assert.True(t, data.Weather.OK())
}

func TestCollectAll_SkipsCurrencyWithoutCountry(t *testing.T) {
	req := parisRequest()
	req.Country = ""
	data := healthyCollector().CollectAll(context.Background(), req)
	assert.False(t, data.Currency.Set)
}

func TestCollectAll_WildcardDestinationSkipsCityFetches(t *testing.T) {
	req := parisRequest()
	req.Destination = "any"
	data := healthyCollector().CollectAll(context.Background(), req)

	assert.False(t, data.Flights.Set)
	assert.False(t, data.Weather.Set)
	assert.False(t, data.Attractions.Set)
	assert.False(t, data.Events.Set)
	assert.False(t, data.Accommodations.Set)
	assert.True(t, data.Currency.OK())
}

// ---- accommodation degradation ----

func TestCollectAll_PricingFailureDegradesToVarietyOnly(t *testing.T) {
	c := healthyCollector()
	c.pricing = &mockPricer{offersFn: func(context.Context, string, time.Time, time.Time, int) ([]domain.Hotel, error) {
		return nil, errors.New("upstream 500")
	}}

	data := c.CollectAll(context.Background(), parisRequest())

	require.True(t, data.Accommodations.OK())
	require.Len(t, data.Accommodations.Value, 1)
	assert.False(t, data.Accommodations.Value[0].HasPricing)
}
