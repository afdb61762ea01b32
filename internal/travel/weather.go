package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mbenedetti/viaggio/internal/domain"
)

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5/forecast"

// owTimeslot is one 3-hour forecast entry from the provider.
type owTimeslot struct {
	DtTxt string `json:"dt_txt"` // "2006-01-02 15:04:05"
	Main  struct {
		TempMin float64 `json:"temp_min"`
		TempMax float64 `json:"temp_max"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// OpenWeather fetches the 5-day forecast and collapses the provider's
// 3-hour timeslots into one record per calendar day.
type OpenWeather struct {
	key     string
	baseURL string
	http    *http.Client
}

// NewOpenWeather constructs the client. An empty key makes every call fail
// with a configuration error recorded as a slot marker.
func NewOpenWeather(key string, timeout time.Duration) *OpenWeather {
	return &OpenWeather{
		key:     key,
		baseURL: openWeatherBaseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Forecast returns one entry per forecast day for the city, ordered by
// date. Per day: min/max temperature across all timeslots and the first
// textual description seen.
func (w *OpenWeather) Forecast(ctx context.Context, city string) ([]domain.Forecast, error) {
	if w.key == "" {
		return nil, fmt.Errorf("travel.OpenWeather.Forecast: API key not configured: %w", domain.ErrDataSource)
	}

	params := url.Values{
		"q":     {city},
		"appid": {w.key},
		"units": {"metric"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("travel.OpenWeather.Forecast: %w", err)
	}

	resp, err := w.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("travel.OpenWeather.Forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("travel.OpenWeather.Forecast: status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var payload struct {
		List []owTimeslot `json:"list"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("travel.OpenWeather.Forecast: decode: %w", err)
	}

	return aggregateForecasts(payload.List), nil
}

// aggregateForecasts folds per-timeslot entries into one Forecast per
// calendar day: min/max across the day's slots, first description kept.
// Split out of Forecast so the aggregation rule is testable without HTTP.
func aggregateForecasts(slots []owTimeslot) []domain.Forecast {
	byDay := map[string]*domain.Forecast{}
	var order []string

	for _, slot := range slots {
		date, _, found := strings.Cut(slot.DtTxt, " ")
		if !found || date == "" {
			continue
		}
		f, ok := byDay[date]
		if !ok {
			entry := &domain.Forecast{
				Date:    date,
				TempMin: slot.Main.TempMin,
				TempMax: slot.Main.TempMax,
			}
			if len(slot.Weather) > 0 {
				entry.Description = slot.Weather[0].Description
			}
			byDay[date] = entry
			order = append(order, date)
			continue
		}
		if slot.Main.TempMin < f.TempMin {
			f.TempMin = slot.Main.TempMin
		}
		if slot.Main.TempMax > f.TempMax {
			f.TempMax = slot.Main.TempMax
		}
	}

	sort.Strings(order)
	forecasts := make([]domain.Forecast, 0, len(order))
	for _, date := range order {
		forecasts = append(forecasts, *byDay[date])
	}
	return forecasts
}
