package planner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mbenedetti/viaggio/internal/domain"
)

// normalizePrice turns a provider price string into a float: currency
// symbols and grouping stripped, comma accepted as the decimal separator.
func normalizePrice(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == domain.PriceUnavailable {
		return 0, false
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9' || r == '.':
			b.WriteRune(r)
		case r == ',':
			b.WriteByte('.')
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// budgetInputs synthesizes the "real figures" section of the context so
// the generation step grounds its budget estimate on supplied data
// instead of inventing numbers.
//
// Flight prices that parse contribute a min-max range; when none parse
// the raw strings are listed instead. Price-like fields on events and
// attractions are listed verbatim.
func budgetInputs(data domain.CollectedData) []string {
	var lines []string

	if data.Flights.OK() && len(data.Flights.Value) > 0 {
		var parsed []float64
		var raw []string
		for _, f := range data.Flights.Value {
			if v, ok := normalizePrice(f.Price); ok {
				parsed = append(parsed, v)
			} else if f.Price != "" {
				raw = append(raw, f.Price)
			}
		}
		switch {
		case len(parsed) > 0:
			lo, hi := parsed[0], parsed[0]
			for _, v := range parsed[1:] {
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
			lines = append(lines, fmt.Sprintf("Voli: %.2f-%.2f EUR", lo, hi))
		case len(raw) > 0:
			lines = append(lines, "Voli: "+strings.Join(raw, ", "))
		}
	}

	if data.Events.OK() {
		for _, e := range data.Events.Value {
			if e.Price != "" {
				lines = append(lines, fmt.Sprintf("Evento %s: %s", e.Name, e.Price))
			}
		}
	}
	if data.Attractions.OK() {
		for _, a := range data.Attractions.Value {
			if a.Price != "" {
				lines = append(lines, fmt.Sprintf("Attrazione %s: %s", a.Name, a.Price))
			}
		}
	}
	return lines
}
