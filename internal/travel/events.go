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

const ticketmasterBaseURL = "https://app.ticketmaster.com/discovery/v2/events.json"

const maxEvents = 10

// Ticketmaster fetches upcoming events for a destination city.
type Ticketmaster struct {
	key     string
	baseURL string
	http    *http.Client
}

// NewTicketmaster constructs the client. A missing key yields an empty
// event list rather than an error: the provider is strictly optional.
func NewTicketmaster(key string, timeout time.Duration) *Ticketmaster {
	return &Ticketmaster{
		key:     key,
		baseURL: ticketmasterBaseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Events returns up to ten upcoming events in the city, soonest first.
func (t *Ticketmaster) Events(ctx context.Context, city string) ([]domain.Event, error) {
	if t.key == "" {
		return nil, nil
	}

	params := url.Values{
		"apikey": {t.key},
		"city":   {city},
		"size":   {fmt.Sprint(maxEvents)},
		"sort":   {"date,asc"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("travel.Ticketmaster.Events: %w", err)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("travel.Ticketmaster.Events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("travel.Ticketmaster.Events: status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var payload struct {
		Embedded struct {
			Events []struct {
				Name  string `json:"name"`
				Dates struct {
					Start struct {
						LocalDate string `json:"localDate"`
						LocalTime string `json:"localTime"`
					} `json:"start"`
				} `json:"dates"`
				Embedded struct {
					Venues []struct {
						Name string `json:"name"`
					} `json:"venues"`
				} `json:"_embedded"`
				PriceRanges []struct {
					Min      float64 `json:"min"`
					Currency string  `json:"currency"`
				} `json:"priceRanges"`
			} `json:"events"`
		} `json:"_embedded"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("travel.Ticketmaster.Events: decode: %w", err)
	}

	var events []domain.Event
	for _, e := range payload.Embedded.Events {
		if len(events) == maxEvents {
			break
		}
		event := domain.Event{
			Name: e.Name,
			Date: e.Dates.Start.LocalDate,
			Time: e.Dates.Start.LocalTime,
		}
		if len(e.Embedded.Venues) > 0 {
			event.Venue = e.Embedded.Venues[0].Name
		}
		if len(e.PriceRanges) > 0 && e.PriceRanges[0].Min > 0 {
			event.Price = fmt.Sprintf("%.2f %s", e.PriceRanges[0].Min, e.PriceRanges[0].Currency)
		}
		events = append(events, event)
	}
	return events, nil
}
