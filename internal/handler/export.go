package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mbenedetti/viaggio/internal/domain"
	"github.com/mbenedetti/viaggio/internal/export"
)

// ExportTrip handles GET /trips/{id}/export.
// Content negotiation via ?format=ics (iCalendar) or default (Markdown).
// The export always reflects the latest plan version.
func (s *Server) ExportTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format != "" && format != "markdown" && format != "ics" {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("format must be markdown or ics"))
		return
	}

	trip, err := s.trips.GetTrip(r.Context(), userID, tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	plan, err := s.trips.LatestPlan(r.Context(), userID, tripID)
	if err != nil {
		writeError(w, err)
		return
	}

	// Travelers, budget, and interests are not persisted on the trip;
	// the renderers leave those rows out when zero.
	req := domain.TripRequest{
		Destination:   trip.Destination,
		Country:       trip.Country,
		DepartureCity: trip.DepartureCity,
		StartDate:     trip.StartDate,
		EndDate:       trip.EndDate,
	}
	generatedAt := time.Now().UTC()

	if format == "ics" {
		serve(w, "text/calendar", export.Filename(trip, generatedAt, "ics"),
			export.ICS(trip, plan, domain.CollectedData{}, generatedAt))
		return
	}
	serve(w, "text/markdown", export.Filename(trip, generatedAt, "md"),
		export.Markdown(trip, req, plan, generatedAt))
}

// serve writes a downloadable text document.
func serve(w http.ResponseWriter, contentType, filename, body string) {
	w.Header().Set("Content-Type", contentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write([]byte(body))
}
