package planner

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbenedetti/viaggio/internal/domain"
)

func romeRequest() domain.TripRequest {
	return domain.TripRequest{
		Destination:   "Rome",
		Country:       "Italy",
		DepartureCity: "Paris",
		StartDate:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC),
		Travelers:     2,
		Budget:        domain.BudgetMedium,
		Interests:     []string{"culture", "food"},
	}
}

// ---- section order and caps ----

func TestBuildContext_SectionOrder(t *testing.T) {
	data := domain.CollectedData{
		Flights:     domain.Ok([]domain.Flight{{Carrier: "AF", FlightNumber: "1204", Price: "120.00", Currency: "EUR"}}),
		Weather:     domain.Ok([]domain.Forecast{{Date: "2026-10-01", TempMin: 14, TempMax: 24, Description: "clear sky"}}),
		Attractions: domain.Ok([]domain.Attraction{{Name: "Colosseo", Rating: 4.7}}),
		Events:      domain.Ok([]domain.Event{{Name: "Opera", Date: "2026-10-02", Price: "45.00 EUR"}}),
		Currency:    domain.Ok(domain.CurrencyInfo{Currency: "EUR", RateVsEUR: "1.00"}),
	}
	excerpts := []domain.GuideExcerpt{{Source: "rome.md", Text: "Il Foro apre alle nove."}}

	ctx := BuildContext(romeRequest(), data, excerpts)

	sections := []string{
		"DETTAGLI VIAGGIO:",
		"VOLI DISPONIBILI:",
		"METEO PREVISTO:",
		"ATTRAZIONI PRINCIPALI:",
		"EVENTI IN PROGRAMMA:",
		"DATI REALI PER IL BUDGET:",
		"DALLE GUIDE DI VIAGGIO:",
	}
	last := -1
	for _, section := range sections {
		idx := strings.Index(ctx, section)
		require.GreaterOrEqual(t, idx, 0, section)
		assert.Greater(t, idx, last, "%s out of order", section)
		last = idx
	}

	// EUR destination omits the currency section
	assert.NotContains(t, ctx, "VALUTA LOCALE:")
	assert.Contains(t, ctx, "Giorno 1 (2026-10-01)")
	assert.Contains(t, ctx, "Giorno 4 (2026-10-04)")
	assert.Contains(t, ctx, "[rome.md]")
}

func TestBuildContext_NonEuroCurrencyIncluded(t *testing.T) {
	data := domain.CollectedData{
		Currency: domain.Ok(domain.CurrencyInfo{Currency: "JPY", RateVsEUR: "1 EUR = 165.20 JPY"}),
	}
	ctx := BuildContext(romeRequest(), data, nil)
	assert.Contains(t, ctx, "VALUTA LOCALE:")
	assert.Contains(t, ctx, "1 EUR = 165.20 JPY")
}

func TestBuildContext_CapsFlightsAndAttractions(t *testing.T) {
	var flights []domain.Flight
	for i := 0; i < 8; i++ {
		flights = append(flights, domain.Flight{Carrier: "AZ", FlightNumber: fmt.Sprint(600 + i)})
	}
	var attractions []domain.Attraction
	for i := 0; i < 12; i++ {
		attractions = append(attractions, domain.Attraction{Name: fmt.Sprintf("Museo %d", i)})
	}
	data := domain.CollectedData{
		Flights:     domain.Ok(flights),
		Attractions: domain.Ok(attractions),
	}

	ctx := BuildContext(romeRequest(), data, nil)

	assert.Contains(t, ctx, "AZ 604")
	assert.NotContains(t, ctx, "AZ 605")
	assert.Contains(t, ctx, "Museo 9")
	assert.NotContains(t, ctx, "Museo 10")
}

func TestBuildContext_FailedSlotsOmitted(t *testing.T) {
	data := domain.CollectedData{
		Flights: domain.Fail[[]domain.Flight](assert.AnError),
	}
	ctx := BuildContext(romeRequest(), data, nil)

	assert.Contains(t, ctx, "DETTAGLI VIAGGIO:")
	assert.NotContains(t, ctx, "VOLI DISPONIBILI:")
	assert.NotContains(t, ctx, "METEO PREVISTO:")
	assert.NotContains(t, ctx, "DALLE GUIDE DI VIAGGIO:")
}

func TestBuildContext_InvalidWindowOmitsDayLabels(t *testing.T) {
	req := romeRequest()
	req.EndDate = req.StartDate.AddDate(0, 0, -2)
	ctx := BuildContext(req, domain.CollectedData{}, nil)
	assert.NotContains(t, ctx, "Giorno 1")
}

// ---- budget inputs ----

func TestBudgetInputs_FlightRange(t *testing.T) {
	data := domain.CollectedData{
		Flights: domain.Ok([]domain.Flight{
			{Price: "€ 89,90"},
			{Price: "145.00"},
			{Price: domain.PriceUnavailable},
		}),
	}
	lines := budgetInputs(data)
	require.Len(t, lines, 1)
	assert.Equal(t, "Voli: 89.90-145.00 EUR", lines[0])
}

func TestBudgetInputs_UnparseablePricesListedRaw(t *testing.T) {
	data := domain.CollectedData{
		Flights: domain.Ok([]domain.Flight{{Price: "su richiesta"}}),
	}
	lines := budgetInputs(data)
	require.Len(t, lines, 1)
	assert.Equal(t, "Voli: su richiesta", lines[0])
}

func TestBudgetInputs_EventAndAttractionPricesVerbatim(t *testing.T) {
	data := domain.CollectedData{
		Events:      domain.Ok([]domain.Event{{Name: "Opera", Price: "45.00 EUR"}}),
		Attractions: domain.Ok([]domain.Attraction{{Name: "Colosseo", Price: "18 EUR"}}),
	}
	lines := budgetInputs(data)
	require.Len(t, lines, 2)
	assert.Equal(t, "Evento Opera: 45.00 EUR", lines[0])
	assert.Equal(t, "Attrazione Colosseo: 18 EUR", lines[1])
}

// ---- price normalization ----

func TestNormalizePrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"120.50", 120.50, true},
		{"€ 89,90", 89.90, true},
		{"1200 EUR", 1200, true},
		{domain.PriceUnavailable, 0, false},
		{"su richiesta", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := normalizePrice(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 0.001, tc.in)
		}
	}
}
