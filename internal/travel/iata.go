// Package travel contains the external data clients for the planning
// pipeline: flights and hotel pricing (Amadeus), weather (OpenWeather),
// points of interest and hotel variety (Places), events (Ticketmaster),
// and the static currency table. Every fetch is best-effort: failures are
// reported to the caller, which records them as per-slot markers.
package travel

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mbenedetti/viaggio/internal/domain"
)

// fallbackIATA covers the major cities the assistant is most often asked
// about, used when no data file is configured or the file cannot be read.
var fallbackIATA = map[string]string{
	"Rome":      "FCO",
	"Milan":     "MXP",
	"Paris":     "CDG",
	"London":    "LHR",
	"Barcelona": "BCN",
	"Madrid":    "MAD",
	"Berlin":    "BER",
	"Amsterdam": "AMS",
	"New York":  "JFK",
	"Tokyo":     "NRT",
}

var titleCaser = cases.Title(language.English)

// normalizeCity trims and title-cases a city name so lookups are
// insensitive to the casing the parser produced.
func normalizeCity(name string) string {
	return titleCaser.String(strings.TrimSpace(name))
}

// IATAResolver maps city names to IATA location codes from an optional
// JSON data file, falling back to the built-in table. An unresolvable
// name short-circuits flight and hotel-pricing search for that request
// only.
type IATAResolver struct {
	codes map[string]string
}

// NewIATAResolver loads the code table from path when it is non-empty and
// readable; otherwise it serves the built-in fallback table. A broken
// data file is not an error: the resolver degrades to the fallback.
func NewIATAResolver(path string) *IATAResolver {
	r := &IATAResolver{codes: fallbackIATA}
	if path == "" {
		return r
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return r
	}
	var loaded map[string]string
	if err := json.Unmarshal(raw, &loaded); err != nil || len(loaded) == 0 {
		return r
	}
	r.codes = loaded
	return r
}

// Resolve returns the IATA code for a city name.
// Returns domain.ErrResolution when the name is unknown.
func (r *IATAResolver) Resolve(city string) (string, error) {
	if code, ok := r.codes[normalizeCity(city)]; ok {
		return code, nil
	}
	return "", fmt.Errorf("travel.IATAResolver.Resolve: %q: %w", city, domain.ErrResolution)
}
