// Package planner turns a trip request, the collected data, and guide
// excerpts into a generated itinerary, and classifies follow-up messages
// against an existing plan. All LLM access goes through llm.Client so the
// package is testable with stubs.
package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/mbenedetti/viaggio/internal/domain"
)

// dateLayouts are the formats accepted for model-extracted date strings,
// tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2 January 2006",
	"January 2, 2006",
}

// parseDate tries each accepted layout in turn.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("planner.parseDate: %w: unrecognized date %q", domain.ErrValidation, s)
}

// tripWindow is the computed day-by-day span of a trip. Invalid when the
// end precedes the start, in which case day labels are omitted and the
// synthesizer falls back to an unordered itinerary instruction.
type tripWindow struct {
	start, end time.Time
	valid      bool
}

func newTripWindow(start, end time.Time) tripWindow {
	return tripWindow{start: start, end: end, valid: !start.IsZero() && !end.Before(start)}
}

// days returns the total number of itinerary days, inclusive of both
// endpoints. Zero for an invalid window.
func (w tripWindow) days() int {
	if !w.valid {
		return 0
	}
	return int(w.end.Sub(w.start).Hours()/24) + 1
}

// dayLabels returns "Giorno N (YYYY-MM-DD)" lines for the window, or nil
// when the window is invalid.
func (w tripWindow) dayLabels() []string {
	if !w.valid {
		return nil
	}
	labels := make([]string, 0, w.days())
	for i := 0; i < w.days(); i++ {
		d := w.start.AddDate(0, 0, i)
		labels = append(labels, fmt.Sprintf("Giorno %d (%s)", i+1, d.Format("2006-01-02")))
	}
	return labels
}
