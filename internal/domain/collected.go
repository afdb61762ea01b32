package domain

// PriceUnavailable is the sentinel used wherever a provider could not
// supply a numeric price for the requested dates.
const PriceUnavailable = "N/A"

// Flight is one flight offer returned by the pricing provider.
type Flight struct {
	Carrier       string
	FlightNumber  string
	DepartureTime string
	ArrivalTime   string
	Price         string // raw provider string; may not parse as a number
	Currency      string
}

// Forecast is the weather summary for one calendar day, aggregated from a
// provider's per-timeslot entries: min/max across all timeslots of the day,
// first textual description seen.
type Forecast struct {
	Date        string // YYYY-MM-DD
	TempMin     float64
	TempMax     float64
	Description string
}

// Attraction is a point of interest found by text search.
type Attraction struct {
	Name    string
	Address string
	Rating  float64
	// Price carries a ticket price when the provider exposes one; usually empty.
	Price string
}

// Event is an upcoming local event during the trip window.
type Event struct {
	Name  string
	Date  string // YYYY-MM-DD as reported by the provider
	Time  string
	Venue string
	Price string
}

// CurrencyInfo is the result of the static currency lookup.
// Unknown countries yield {Currency: "Unknown", RateVsEUR: "N/A"}.
type CurrencyInfo struct {
	Currency  string
	RateVsEUR string
}

// Hotel is one merged accommodation listing. Identity for merge purposes is
// the case/whitespace-normalized name. Produced per request, never persisted.
type Hotel struct {
	Name         string
	HotelID      string // provider identifier, empty for unpriced sources
	Address      string
	Rating       float64
	ReviewCount  int
	Price        string // PriceUnavailable when no source priced it
	Currency     string
	RoomType     string
	HasPricing   bool
	Source       string // "amadeus", "places", or "merged"
}

// Slot holds the outcome of one independent external fetch: either a value
// or an error marker, never both. The zero Slot means "not attempted".
type Slot[T any] struct {
	Value T
	Err   error
	Set   bool
}

// OK reports whether the slot was populated without error.
func (s Slot[T]) OK() bool { return s.Set && s.Err == nil }

// Failed reports whether the fetch was attempted and recorded an error.
func (s Slot[T]) Failed() bool { return s.Set && s.Err != nil }

// Ok wraps a successful fetch result.
func Ok[T any](v T) Slot[T] { return Slot[T]{Value: v, Set: true} }

// Fail wraps a fetch failure.
func Fail[T any](err error) Slot[T] { return Slot[T]{Err: err, Set: true} }

// CollectedData carries the results of all external fetches for one
// request. Slots are independent: the failure of one never blocks the
// population of the others.
type CollectedData struct {
	Flights        Slot[[]Flight]
	Weather        Slot[[]Forecast]
	Attractions    Slot[[]Attraction]
	Events         Slot[[]Event]
	Currency       Slot[CurrencyInfo]
	Accommodations Slot[[]Hotel]
}
