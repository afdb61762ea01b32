package planner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbenedetti/viaggio/internal/domain"
	"github.com/mbenedetti/viaggio/internal/llm"
)

func fixedNowParser(client llm.Client) *Parser {
	p := NewParser(client)
	p.now = func() time.Time {
		return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	}
	return p
}

func TestParse_FullExtraction(t *testing.T) {
	client := &stubLLM{completeFn: func(context.Context, llm.Request) (string, error) {
		return `{"destination": "Kyoto", "country": "Japan", "departure_city": "Milan",
			"start_date": "2026-11-02", "end_date": "2026-11-08",
			"travelers": 2, "budget": "high", "interests": ["temples", "food"]}`, nil
	}}

	req := fixedNowParser(client).Parse(context.Background(), "una settimana a Kyoto a novembre")

	assert.Equal(t, "Kyoto", req.Destination)
	assert.Equal(t, "Japan", req.Country)
	assert.Equal(t, "Milan", req.DepartureCity)
	assert.Equal(t, time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), req.StartDate)
	assert.Equal(t, time.Date(2026, 11, 8, 0, 0, 0, 0, time.UTC), req.EndDate)
	assert.Equal(t, 2, req.Travelers)
	assert.Equal(t, domain.BudgetHigh, req.Budget)
	assert.Equal(t, []string{"temples", "food"}, req.Interests)
}

// ---- defaults ----

func TestParse_ModelFailureYieldsDefaults(t *testing.T) {
	req := fixedNowParser(modelDown()).Parse(context.Background(), "boh")

	assert.Equal(t, "any", req.Destination)
	assert.Equal(t, "unknown", req.DepartureCity)
	assert.Equal(t, time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), req.StartDate)
	assert.Equal(t, time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC), req.EndDate)
	assert.Equal(t, 1, req.Travelers)
	assert.Equal(t, domain.BudgetMedium, req.Budget)
	assert.Equal(t, []string{"culture", "tourism"}, req.Interests)
}

func TestParse_MalformedOutputYieldsDefaults(t *testing.T) {
	client := &stubLLM{completeFn: func(context.Context, llm.Request) (string, error) {
		return "vorrei tanto aiutarti ma non ho capito", nil
	}}
	req := fixedNowParser(client).Parse(context.Background(), "boh")
	assert.Equal(t, "any", req.Destination)
}

func TestParse_MissingFieldsGetDefaults(t *testing.T) {
	client := &stubLLM{completeFn: func(context.Context, llm.Request) (string, error) {
		return `{"destination": "Lisbon", "country": "Portugal"}`, nil
	}}

	req := fixedNowParser(client).Parse(context.Background(), "Lisbona!")

	assert.Equal(t, "Lisbon", req.Destination)
	assert.Equal(t, "unknown", req.DepartureCity)
	assert.Equal(t, 1, req.Travelers)
	assert.Equal(t, domain.BudgetMedium, req.Budget)
	require.False(t, req.EndDate.Before(req.StartDate))
}

// ---- date repair ----

func TestParse_EndBeforeStartClampsToThreeDays(t *testing.T) {
	client := &stubLLM{completeFn: func(context.Context, llm.Request) (string, error) {
		return `{"destination": "Rome", "start_date": "2026-11-15", "end_date": "2026-11-10"}`, nil
	}}

	req := fixedNowParser(client).Parse(context.Background(), "Roma")

	assert.Equal(t, time.Date(2026, 11, 15, 0, 0, 0, 0, time.UTC), req.StartDate)
	assert.Equal(t, time.Date(2026, 11, 18, 0, 0, 0, 0, time.UTC), req.EndDate)
}

func TestParse_AcceptsAlternateDateFormats(t *testing.T) {
	client := &stubLLM{completeFn: func(context.Context, llm.Request) (string, error) {
		return `{"destination": "Rome", "start_date": "15/11/2026", "end_date": "18/11/2026"}`, nil
	}}

	req := fixedNowParser(client).Parse(context.Background(), "Roma")
	assert.Equal(t, time.Date(2026, 11, 15, 0, 0, 0, 0, time.UTC), req.StartDate)
	assert.Equal(t, time.Date(2026, 11, 18, 0, 0, 0, 0, time.UTC), req.EndDate)
}

func TestParse_UnknownDestinationKeptAsWildcard(t *testing.T) {
	client := &stubLLM{completeFn: func(context.Context, llm.Request) (string, error) {
		return `{"destination": "unknown", "country": "unknown"}`, nil
	}}
	req := fixedNowParser(client).Parse(context.Background(), "sorprendimi")
	assert.Equal(t, "any", req.Destination)
}
