package travel

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mbenedetti/viaggio/internal/domain"
)

// FlightSearcher finds flight offers for a route and departure date.
type FlightSearcher interface {
	SearchFlights(ctx context.Context, origin, destination string, date time.Time) ([]domain.Flight, error)
}

// WeatherProvider returns a per-day forecast for a city.
type WeatherProvider interface {
	Forecast(ctx context.Context, city string) ([]domain.Forecast, error)
}

// PlacesProvider finds points of interest and unpriced hotel listings.
type PlacesProvider interface {
	Attractions(ctx context.Context, city string) ([]domain.Attraction, error)
	Hotels(ctx context.Context, city string) ([]domain.Hotel, error)
}

// EventsProvider returns upcoming events in a city.
type EventsProvider interface {
	Events(ctx context.Context, city string) ([]domain.Event, error)
}

// HotelPricer returns priced hotel offers for a city and stay.
type HotelPricer interface {
	HotelOffers(ctx context.Context, city string, checkIn, checkOut time.Time, adults int) ([]domain.Hotel, error)
}

// CurrencySource resolves a country to currency information.
type CurrencySource interface {
	Lookup(country string) domain.CurrencyInfo
}

// Collector fans one trip request out to every external provider and
// gathers the results into independent slots. A provider failure is
// recorded in its slot and never blocks, cancels, or fails the others.
type Collector struct {
	flights  FlightSearcher
	weather  WeatherProvider
	places   PlacesProvider
	events   EventsProvider
	pricing  HotelPricer
	currency CurrencySource
	log      *slog.Logger
}

// NewCollector wires the providers together.
func NewCollector(flights FlightSearcher, weather WeatherProvider, places PlacesProvider,
	events EventsProvider, pricing HotelPricer, currency CurrencySource, log *slog.Logger) *Collector {
	return &Collector{
		flights:  flights,
		weather:  weather,
		places:   places,
		events:   events,
		pricing:  pricing,
		currency: currency,
		log:      log,
	}
}

// CollectAll runs all applicable fetches concurrently and returns once
// every one has finished. Slots whose preconditions are not met (no
// departure city for flights, no country for currency, wildcard
// destination for everything city-bound) are left unattempted.
func (c *Collector) CollectAll(ctx context.Context, req domain.TripRequest) domain.CollectedData {
	var data domain.CollectedData

	cityKnown := req.Destination != "" && req.Destination != "any"
	departureKnown := req.DepartureCity != "" && req.DepartureCity != "unknown"

	// Deliberately not errgroup.WithContext: one slot's failure must not
	// cancel the in-flight fetches of the others.
	var g errgroup.Group

	if cityKnown && departureKnown {
		g.Go(func() error {
			flights, err := c.flights.SearchFlights(ctx, req.DepartureCity, req.Destination, req.StartDate)
			data.Flights = slotOf(flights, err)
			c.warn("flights", err)
			return nil
		})
	}

	if cityKnown {
		g.Go(func() error {
			forecasts, err := c.weather.Forecast(ctx, req.Destination)
			data.Weather = slotOf(forecasts, err)
			c.warn("weather", err)
			return nil
		})
		g.Go(func() error {
			attractions, err := c.places.Attractions(ctx, req.Destination)
			data.Attractions = slotOf(attractions, err)
			c.warn("attractions", err)
			return nil
		})
		g.Go(func() error {
			events, err := c.events.Events(ctx, req.Destination)
			data.Events = slotOf(events, err)
			c.warn("events", err)
			return nil
		})
		g.Go(func() error {
			data.Accommodations = c.collectAccommodations(ctx, req)
			return nil
		})
	}

	if req.Country != "" && req.Country != "unknown" {
		data.Currency = domain.Ok(c.currency.Lookup(req.Country))
	}

	g.Wait() //nolint:errcheck // goroutines never return errors

	return data
}

// collectAccommodations fetches the variety and pricing sides and merges
// them. Either side failing degrades to a one-source list; both failing
// marks the slot with the pricing error.
func (c *Collector) collectAccommodations(ctx context.Context, req domain.TripRequest) domain.Slot[[]domain.Hotel] {
	var g errgroup.Group
	var variety, priced []domain.Hotel
	var varietyErr, pricedErr error

	g.Go(func() error {
		variety, varietyErr = c.places.Hotels(ctx, req.Destination)
		c.warn("hotel variety", varietyErr)
		return nil
	})
	g.Go(func() error {
		priced, pricedErr = c.pricing.HotelOffers(ctx, req.Destination, req.StartDate, req.EndDate, req.Travelers)
		c.warn("hotel pricing", pricedErr)
		return nil
	})
	g.Wait() //nolint:errcheck

	if varietyErr != nil && pricedErr != nil {
		return domain.Fail[[]domain.Hotel](pricedErr)
	}
	return domain.Ok(MergeHotels(variety, priced))
}

// slotOf wraps a (value, err) pair into the matching slot state.
func slotOf[T any](v T, err error) domain.Slot[T] {
	if err != nil {
		return domain.Fail[T](err)
	}
	return domain.Ok(v)
}

func (c *Collector) warn(source string, err error) {
	if err != nil {
		c.log.Warn("data source unavailable", "source", source, "error", err)
	}
}
