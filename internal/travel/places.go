package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mbenedetti/viaggio/internal/domain"
)

const placesBaseURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"

const (
	maxAttractions  = 10
	maxHotelVariety = 15
)

// Places is the points-of-interest client, used for both the attractions
// slot and the hotel variety side of the merge.
type Places struct {
	key     string
	baseURL string
	http    *http.Client
}

// NewPlaces constructs the client. A missing key yields empty result
// lists rather than errors: the provider is strictly optional.
func NewPlaces(key string, timeout time.Duration) *Places {
	return &Places{
		key:     key,
		baseURL: placesBaseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// placeResult is one entry of a text-search response.
type placeResult struct {
	Name             string  `json:"name"`
	FormattedAddress string  `json:"formatted_address"`
	Rating           float64 `json:"rating"`
	UserRatingsTotal int     `json:"user_ratings_total"`
}

// search performs one text search. With no key configured it returns an
// empty list, not an error.
func (p *Places) search(ctx context.Context, query string) ([]placeResult, error) {
	if p.key == "" {
		return nil, nil
	}

	params := url.Values{
		"query": {query},
		"key":   {p.key},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("places: status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var payload struct {
		Results []placeResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("places: decode: %w", err)
	}
	return payload.Results, nil
}

// Attractions returns up to ten points of interest for the destination.
func (p *Places) Attractions(ctx context.Context, city string) ([]domain.Attraction, error) {
	results, err := p.search(ctx, fmt.Sprintf("famous monuments in %s", city))
	if err != nil {
		return nil, fmt.Errorf("travel.Places.Attractions: %w", err)
	}

	var attractions []domain.Attraction
	for _, r := range results {
		if len(attractions) == maxAttractions {
			break
		}
		attractions = append(attractions, domain.Attraction{
			Name:    r.Name,
			Address: r.FormattedAddress,
			Rating:  r.Rating,
		})
	}
	return attractions, nil
}

// Hotels returns up to fifteen lodging listings for the destination.
// These carry ratings and review counts but no pricing; the merger
// combines them with the pricing provider's offers.
func (p *Places) Hotels(ctx context.Context, city string) ([]domain.Hotel, error) {
	results, err := p.search(ctx, fmt.Sprintf("hotels in %s", city))
	if err != nil {
		return nil, fmt.Errorf("travel.Places.Hotels: %w", err)
	}

	var hotels []domain.Hotel
	for _, r := range results {
		if len(hotels) == maxHotelVariety {
			break
		}
		hotels = append(hotels, domain.Hotel{
			Name:        r.Name,
			Address:     r.FormattedAddress,
			Rating:      r.Rating,
			ReviewCount: r.UserRatingsTotal,
			Price:       domain.PriceUnavailable,
			Currency:    "EUR",
			Source:      "places",
		})
	}
	return hotels, nil
}
