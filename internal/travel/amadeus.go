package travel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sethvargo/go-retry"

	"github.com/mbenedetti/viaggio/internal/domain"
)

const (
	amadeusBaseURL = "https://test.api.amadeus.com"

	// tokenTTL is deliberately shorter than the provider's nominal token
	// lifetime so a cached token is always refreshed before it can expire
	// mid-request.
	tokenTTL = 25 * time.Minute

	tokenCacheKey = "amadeus_token"

	// maxHotelIDs bounds the offer-request fan-out per city.
	maxHotelIDs = 5
)

// rateUnavailableMarker appears in the provider's 400 body when none of
// the requested hotels has a rate for the dates. It is a normal condition,
// not a failure.
const rateUnavailableMarker = "RATE NOT AVAILABLE"

// Amadeus is the flight and hotel-pricing client. The access token is
// cached in memory with an explicit TTL and re-fetched on expiry.
type Amadeus struct {
	key      string
	secret   string
	baseURL  string
	http     *http.Client
	resolver *IATAResolver
	tokens   *gocache.Cache
}

// NewAmadeus constructs the client. key/secret may be empty, in which case
// every call fails with a configuration error that the collector records
// as a slot marker.
func NewAmadeus(key, secret string, resolver *IATAResolver, timeout time.Duration) *Amadeus {
	return &Amadeus{
		key:      key,
		secret:   secret,
		baseURL:  amadeusBaseURL,
		http:     &http.Client{Timeout: timeout},
		resolver: resolver,
		tokens:   gocache.New(tokenTTL, 10*time.Minute),
	}
}

// apiError carries a non-2xx provider response so callers can inspect the
// body (the hotel offer flow needs to detect the rate-unavailable case).
type apiError struct {
	status int
	body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("amadeus: status %d: %s", e.status, truncate(e.body, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// token returns a cached access token or fetches a fresh one.
func (a *Amadeus) token(ctx context.Context) (string, error) {
	if a.key == "" || a.secret == "" {
		return "", fmt.Errorf("travel.Amadeus.token: credentials not configured: %w", domain.ErrDataSource)
	}
	if cached, ok := a.tokens.Get(tokenCacheKey); ok {
		return cached.(string), nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {a.key},
		"client_secret": {a.secret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("travel.Amadeus.token: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("travel.Amadeus.token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("travel.Amadeus.token: %w", &apiError{resp.StatusCode, string(body)})
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("travel.Amadeus.token: decode: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("travel.Amadeus.token: empty access token")
	}

	a.tokens.Set(tokenCacheKey, payload.AccessToken, tokenTTL)
	return payload.AccessToken, nil
}

// get performs an authenticated GET and decodes the JSON response into out.
func (a *Amadeus) get(ctx context.Context, path string, params url.Values, out any) error {
	token, err := a.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return &apiError{resp.StatusCode, string(body)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// SearchFlights returns up to five flight offers for the route and date.
// An unresolvable origin or destination fails with domain.ErrResolution.
func (a *Amadeus) SearchFlights(ctx context.Context, origin, destination string, date time.Time) ([]domain.Flight, error) {
	originCode, err := a.resolver.Resolve(origin)
	if err != nil {
		return nil, fmt.Errorf("travel.Amadeus.SearchFlights: %w", err)
	}
	destCode, err := a.resolver.Resolve(destination)
	if err != nil {
		return nil, fmt.Errorf("travel.Amadeus.SearchFlights: %w", err)
	}

	params := url.Values{
		"originLocationCode":      {originCode},
		"destinationLocationCode": {destCode},
		"departureDate":           {date.Format("2006-01-02")},
		"adults":                  {"1"},
		"max":                     {"5"},
		"currencyCode":            {"EUR"},
	}

	var payload struct {
		Data []struct {
			Itineraries []struct {
				Segments []struct {
					CarrierCode string `json:"carrierCode"`
					Number      string `json:"number"`
					Departure   struct {
						At string `json:"at"`
					} `json:"departure"`
					Arrival struct {
						At string `json:"at"`
					} `json:"arrival"`
				} `json:"segments"`
			} `json:"itineraries"`
			Price struct {
				Total    string `json:"total"`
				Currency string `json:"currency"`
			} `json:"price"`
		} `json:"data"`
	}
	if err := a.get(ctx, "/v2/shopping/flight-offers", params, &payload); err != nil {
		return nil, fmt.Errorf("travel.Amadeus.SearchFlights: %w", err)
	}

	var flights []domain.Flight
	for _, offer := range payload.Data {
		if len(flights) == 5 {
			break
		}
		if len(offer.Itineraries) == 0 {
			continue
		}
		segments := offer.Itineraries[0].Segments
		if len(segments) == 0 {
			continue
		}
		first, last := segments[0], segments[len(segments)-1]
		currency := offer.Price.Currency
		if currency == "" {
			currency = "EUR"
		}
		flights = append(flights, domain.Flight{
			Carrier:       first.CarrierCode,
			FlightNumber:  first.Number,
			DepartureTime: first.Departure.At,
			ArrivalTime:   last.Arrival.At,
			Price:         offer.Price.Total,
			Currency:      currency,
		})
	}
	return flights, nil
}

// HotelOffers returns priced hotel listings for a city and stay.
//
// The provider rejects a batch offer request atomically when any one hotel
// in the batch has no rate for the dates, so the request is retried with
// decreasing batch sizes (all IDs, then 3, then 1). When every batch size
// fails with the rate-unavailable condition, degraded listings carrying
// the fetched identifiers and a price sentinel are returned instead of an
// error.
func (a *Amadeus) HotelOffers(ctx context.Context, city string, checkIn, checkOut time.Time, adults int) ([]domain.Hotel, error) {
	cityCode, err := a.resolver.Resolve(city)
	if err != nil {
		return nil, fmt.Errorf("travel.Amadeus.HotelOffers: %w", err)
	}

	ids, err := a.hotelIDs(ctx, cityCode)
	if err != nil {
		return nil, fmt.Errorf("travel.Amadeus.HotelOffers: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	batches := []int{len(ids), min(3, len(ids)), 1}
	attempt := 0
	rateUnavailable := false
	var hotels []domain.Hotel

	backoff := retry.WithMaxRetries(uint64(len(batches)-1), retry.NewConstant(200*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		batch := ids[:batches[attempt]]
		attempt++

		result, err := a.fetchOffers(ctx, batch, checkIn, checkOut, adults)
		if err != nil {
			var apiErr *apiError
			if errors.As(err, &apiErr) && strings.Contains(apiErr.body, rateUnavailableMarker) {
				rateUnavailable = true
			}
			return retry.RetryableError(err)
		}
		hotels = result
		return nil
	})
	if err != nil {
		if rateUnavailable {
			return degradedListings(city, ids), nil
		}
		return nil, fmt.Errorf("travel.Amadeus.HotelOffers: %w", err)
	}
	return hotels, nil
}

// hotelIDs returns up to maxHotelIDs hotel identifiers for a city code.
func (a *Amadeus) hotelIDs(ctx context.Context, cityCode string) ([]string, error) {
	var payload struct {
		Data []struct {
			HotelID string `json:"hotelId"`
		} `json:"data"`
	}
	params := url.Values{"cityCode": {cityCode}}
	if err := a.get(ctx, "/v1/reference-data/locations/hotels/by-city", params, &payload); err != nil {
		return nil, err
	}

	var ids []string
	for _, h := range payload.Data {
		if len(ids) == maxHotelIDs {
			break
		}
		if h.HotelID != "" {
			ids = append(ids, h.HotelID)
		}
	}
	return ids, nil
}

// fetchOffers requests priced offers for one batch of hotel IDs.
func (a *Amadeus) fetchOffers(ctx context.Context, ids []string, checkIn, checkOut time.Time, adults int) ([]domain.Hotel, error) {
	params := url.Values{
		"hotelIds":     {strings.Join(ids, ",")},
		"checkInDate":  {checkIn.Format("2006-01-02")},
		"checkOutDate": {checkOut.Format("2006-01-02")},
		"adults":       {fmt.Sprint(adults)},
		"currency":     {"EUR"},
	}

	var payload struct {
		Data []struct {
			Hotel struct {
				Name    string `json:"name"`
				HotelID string `json:"hotelId"`
			} `json:"hotel"`
			Offers []struct {
				Price struct {
					Total    string `json:"total"`
					Currency string `json:"currency"`
				} `json:"price"`
				Room struct {
					TypeEstimated struct {
						Category string `json:"category"`
					} `json:"typeEstimated"`
				} `json:"room"`
			} `json:"offers"`
		} `json:"data"`
	}
	if err := a.get(ctx, "/v3/shopping/hotel-offers", params, &payload); err != nil {
		return nil, err
	}

	var hotels []domain.Hotel
	for _, entry := range payload.Data {
		if len(entry.Offers) == 0 {
			continue
		}
		best := entry.Offers[0]
		currency := best.Price.Currency
		if currency == "" {
			currency = "EUR"
		}
		hotels = append(hotels, domain.Hotel{
			Name:       entry.Hotel.Name,
			HotelID:    entry.Hotel.HotelID,
			Price:      best.Price.Total,
			Currency:   currency,
			RoomType:   best.Room.TypeEstimated.Category,
			HasPricing: true,
			Source:     "amadeus",
		})
	}
	return hotels, nil
}

// degradedListings builds placeholder records for fetched hotel IDs when
// no batch size produced a rate. They carry the identifiers and a price
// sentinel so downstream merging still has something to work with.
func degradedListings(city string, ids []string) []domain.Hotel {
	var hotels []domain.Hotel
	for i := range min(3, len(ids)) {
		hotels = append(hotels, domain.Hotel{
			Name:       fmt.Sprintf("Hotel in %s (%d)", city, i+1),
			HotelID:    ids[i],
			Price:      domain.PriceUnavailable,
			Currency:   "EUR",
			RoomType:   "Standard",
			HasPricing: false,
			Source:     "amadeus",
		})
	}
	return hotels
}
