package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/mbenedetti/viaggio/internal/domain"
)

const (
	slotDuration = 3 * time.Hour

	morningHour   = 9
	afternoonHour = 14
	eveningHour   = 19

	maxFlightEvents   = 2
	maxCalendarEvents = 5
)

// ICS renders the trip as an iCalendar document: one all-day event
// spanning the whole trip with one-week and one-day reminders, a 3-hour
// block per parsed itinerary slot, the first flights with a 3-hour
// reminder, and up to five scheduled local events. Collected data may be
// zero — the corresponding entries are simply omitted.
func ICS(trip domain.Trip, plan domain.Plan, data domain.CollectedData, generatedAt time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//viaggio//travel planner//IT")

	addTripEvent(cal, trip, generatedAt)
	addDayEvents(cal, trip, plan, generatedAt)
	addFlightEvents(cal, trip, data, generatedAt)
	addLocalEvents(cal, trip, data, generatedAt)

	return cal.Serialize()
}

// addTripEvent emits the all-day event spanning the trip, with reminders
// one week and one day ahead.
func addTripEvent(cal *ics.Calendar, trip domain.Trip, now time.Time) {
	e := cal.AddEvent(fmt.Sprintf("trip-%s@viaggio", trip.ID))
	e.SetCreatedTime(now)
	e.SetDtStampTime(now)
	e.SetSummary(fmt.Sprintf("Viaggio a %s", trip.Destination))
	e.SetLocation(fmt.Sprintf("%s, %s", trip.Destination, trip.Country))
	e.SetAllDayStartAt(trip.StartDate)
	// DTEND of an all-day event is exclusive
	e.SetAllDayEndAt(trip.EndDate.AddDate(0, 0, 1))

	week := e.AddAlarm()
	week.SetAction(ics.ActionDisplay)
	week.SetTrigger("-P7D")

	day := e.AddAlarm()
	day.SetAction(ics.ActionDisplay)
	day.SetTrigger("-P1D")
}

// addDayEvents emits one 3-hour block per parsed Mattina/Pomeriggio/Sera
// slot. A plan without recognizable day headings contributes nothing.
func addDayEvents(cal *ics.Calendar, trip domain.Trip, plan domain.Plan, now time.Time) {
	for _, day := range parseDays(plan.Content) {
		date := trip.StartDate.AddDate(0, 0, day.Number-1)
		if date.After(trip.EndDate) {
			continue
		}
		slots := []struct {
			name string
			hour int
			text string
		}{
			{"Mattina", morningHour, day.Morning},
			{"Pomeriggio", afternoonHour, day.Afternoon},
			{"Sera", eveningHour, day.Evening},
		}
		for _, slot := range slots {
			if slot.text == "" {
				continue
			}
			start := time.Date(date.Year(), date.Month(), date.Day(), slot.hour, 0, 0, 0, time.UTC)
			e := cal.AddEvent(fmt.Sprintf("day%d-%s-%s@viaggio", day.Number, slot.name, trip.ID))
			e.SetCreatedTime(now)
			e.SetDtStampTime(now)
			e.SetStartAt(start)
			e.SetEndAt(start.Add(slotDuration))
			e.SetSummary(fmt.Sprintf("Giorno %d - %s", day.Number, slot.name))
			e.SetDescription(slot.text)
			e.SetLocation(trip.Destination)
		}
	}
}

// addFlightEvents emits the first flights (outbound and return at most)
// with a 3-hour reminder each. Flights whose departure time does not
// parse are skipped.
func addFlightEvents(cal *ics.Calendar, trip domain.Trip, data domain.CollectedData, now time.Time) {
	if !data.Flights.OK() {
		return
	}
	added := 0
	for _, f := range data.Flights.Value {
		if added == maxFlightEvents {
			break
		}
		departure, err := time.Parse("2006-01-02T15:04:05", f.DepartureTime)
		if err != nil {
			continue
		}
		arrival, err := time.Parse("2006-01-02T15:04:05", f.ArrivalTime)
		if err != nil {
			arrival = departure.Add(2 * time.Hour)
		}

		e := cal.AddEvent(fmt.Sprintf("flight-%s%s-%s@viaggio", f.Carrier, f.FlightNumber, trip.ID))
		e.SetCreatedTime(now)
		e.SetDtStampTime(now)
		e.SetStartAt(departure)
		e.SetEndAt(arrival)
		e.SetSummary(fmt.Sprintf("Volo %s %s", f.Carrier, f.FlightNumber))
		e.SetDescription(fmt.Sprintf("Prezzo: %s %s", f.Price, f.Currency))

		alarm := e.AddAlarm()
		alarm.SetAction(ics.ActionDisplay)
		alarm.SetTrigger("-PT3H")

		added++
	}
}

// addLocalEvents emits up to five scheduled local events.
func addLocalEvents(cal *ics.Calendar, trip domain.Trip, data domain.CollectedData, now time.Time) {
	if !data.Events.OK() {
		return
	}
	added := 0
	for i, ev := range data.Events.Value {
		if added == maxCalendarEvents {
			break
		}
		start, err := time.Parse("2006-01-02 15:04", ev.Date+" "+ev.Time)
		if err != nil {
			start, err = time.Parse("2006-01-02 15:04:05", ev.Date+" "+ev.Time)
			if err != nil {
				continue
			}
		}

		e := cal.AddEvent(fmt.Sprintf("event%d-%s@viaggio", i, trip.ID))
		e.SetCreatedTime(now)
		e.SetDtStampTime(now)
		e.SetStartAt(start)
		e.SetEndAt(start.Add(2 * time.Hour))
		e.SetSummary(ev.Name)
		if ev.Venue != "" {
			e.SetLocation(ev.Venue)
		}
		if ev.Price != "" {
			e.SetDescription("Da " + ev.Price)
		}

		added++
	}
}
