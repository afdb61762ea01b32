package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/mbenedetti/viaggio/internal/domain"
)

// Filename returns the export file name for a trip:
// piano_viaggio_{destination}_{yyyymmdd}_{hhmmss}.{ext}.
func Filename(trip domain.Trip, generatedAt time.Time, ext string) string {
	dest := strings.ToLower(strings.TrimSpace(trip.Destination))
	dest = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, dest)
	return fmt.Sprintf("piano_viaggio_%s_%s.%s", dest, generatedAt.Format("20060102_150405"), ext)
}

// Markdown renders the trip and its plan as a standalone document: a
// metadata table, the plan body verbatim, and a fixed footer. Request
// fields not recorded on the trip (travelers, budget) are simply left
// out of the table when zero.
func Markdown(trip domain.Trip, req domain.TripRequest, plan domain.Plan, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Piano di viaggio: %s\n\n", trip.Destination)

	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Destinazione | %s (%s) |\n", trip.Destination, trip.Country)
	fmt.Fprintf(&b, "| Date | %s - %s |\n", trip.StartDate.Format("2006-01-02"), trip.EndDate.Format("2006-01-02"))
	if trip.DepartureCity != "" && trip.DepartureCity != "unknown" {
		fmt.Fprintf(&b, "| Partenza da | %s |\n", trip.DepartureCity)
	}
	if req.Travelers > 0 {
		fmt.Fprintf(&b, "| Viaggiatori | %d |\n", req.Travelers)
	}
	if req.Budget != "" {
		fmt.Fprintf(&b, "| Budget | %s |\n", req.Budget)
	}
	if len(req.Interests) > 0 {
		fmt.Fprintf(&b, "| Interessi | %s |\n", strings.Join(req.Interests, ", "))
	}
	fmt.Fprintf(&b, "| Versione piano | %d |\n", plan.Version)
	fmt.Fprintf(&b, "| Generato il | %s |\n\n", generatedAt.Format("2006-01-02 15:04"))

	b.WriteString(plan.Content)

	b.WriteString("\n\n---\n")
	b.WriteString("*Documento generato automaticamente. Verificare orari e prezzi prima della partenza.*\n")

	return b.String()
}
