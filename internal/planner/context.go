package planner

import (
	"fmt"
	"strings"

	"github.com/mbenedetti/viaggio/internal/domain"
)

// Per-section caps applied when assembling the context block.
const (
	maxContextFlights     = 5
	maxContextWeatherDays = 5
	maxContextAttractions = 10
	maxContextEvents      = 10
)

// BuildContext composes the single text block handed to generation:
// everything known about the trip in a fixed section order. Sections
// backed by an empty or failed slot are omitted; the currency section is
// omitted when the local currency is the reference currency (EUR).
func BuildContext(req domain.TripRequest, data domain.CollectedData, excerpts []domain.GuideExcerpt) string {
	var b strings.Builder

	window := newTripWindow(req.StartDate, req.EndDate)

	b.WriteString("DETTAGLI VIAGGIO:\n")
	fmt.Fprintf(&b, "- Destinazione: %s (%s)\n", req.Destination, req.Country)
	fmt.Fprintf(&b, "- Date: %s - %s\n", req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Partenza da: %s\n", req.DepartureCity)
	fmt.Fprintf(&b, "- Viaggiatori: %d\n", req.Travelers)
	fmt.Fprintf(&b, "- Budget: %s\n", req.Budget)
	if len(req.Interests) > 0 {
		fmt.Fprintf(&b, "- Interessi: %s\n", strings.Join(req.Interests, ", "))
	}
	if labels := window.dayLabels(); labels != nil {
		b.WriteString("- Giorni:\n")
		for _, label := range labels {
			fmt.Fprintf(&b, "  %s\n", label)
		}
	}

	if data.Flights.OK() && len(data.Flights.Value) > 0 {
		b.WriteString("\nVOLI DISPONIBILI:\n")
		for i, f := range data.Flights.Value {
			if i == maxContextFlights {
				break
			}
			fmt.Fprintf(&b, "- %s %s: partenza %s, arrivo %s, %s %s\n",
				f.Carrier, f.FlightNumber, f.DepartureTime, f.ArrivalTime, f.Price, f.Currency)
		}
	}

	if data.Weather.OK() && len(data.Weather.Value) > 0 {
		b.WriteString("\nMETEO PREVISTO:\n")
		for i, w := range data.Weather.Value {
			if i == maxContextWeatherDays {
				break
			}
			fmt.Fprintf(&b, "- %s: %.0f-%.0f°C, %s\n", w.Date, w.TempMin, w.TempMax, w.Description)
		}
	}

	if data.Attractions.OK() && len(data.Attractions.Value) > 0 {
		b.WriteString("\nATTRAZIONI PRINCIPALI:\n")
		for i, a := range data.Attractions.Value {
			if i == maxContextAttractions {
				break
			}
			fmt.Fprintf(&b, "- %s (voto %.1f) - %s\n", a.Name, a.Rating, a.Address)
		}
	}

	if data.Events.OK() && len(data.Events.Value) > 0 {
		b.WriteString("\nEVENTI IN PROGRAMMA:\n")
		for i, e := range data.Events.Value {
			if i == maxContextEvents {
				break
			}
			line := fmt.Sprintf("- %s: %s %s", e.Name, e.Date, e.Time)
			if e.Venue != "" {
				line += " @ " + e.Venue
			}
			if e.Price != "" {
				line += ", da " + e.Price
			}
			b.WriteString(line + "\n")
		}
	}

	if data.Accommodations.OK() && len(data.Accommodations.Value) > 0 {
		b.WriteString("\nALLOGGI:\n")
		for _, h := range data.Accommodations.Value {
			line := fmt.Sprintf("- %s", h.Name)
			if h.Rating > 0 {
				line += fmt.Sprintf(" (voto %.1f, %d recensioni)", h.Rating, h.ReviewCount)
			}
			if h.HasPricing && h.Price != domain.PriceUnavailable {
				line += fmt.Sprintf(", %s %s", h.Price, h.Currency)
			}
			b.WriteString(line + "\n")
		}
	}

	if data.Currency.OK() && data.Currency.Value.Currency != "EUR" && data.Currency.Value.Currency != "" {
		b.WriteString("\nVALUTA LOCALE:\n")
		fmt.Fprintf(&b, "- %s (%s)\n", data.Currency.Value.Currency, data.Currency.Value.RateVsEUR)
	}

	if inputs := budgetInputs(data); len(inputs) > 0 {
		b.WriteString("\nDATI REALI PER IL BUDGET:\n")
		for _, line := range inputs {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}

	if len(excerpts) > 0 {
		b.WriteString("\nDALLE GUIDE DI VIAGGIO:\n")
		for _, ex := range excerpts {
			fmt.Fprintf(&b, "[%s]\n%s\n", ex.Source, ex.Text)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
