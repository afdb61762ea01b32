package planner

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/mbenedetti/viaggio/internal/domain"
	"github.com/mbenedetti/viaggio/internal/llm"
)

const (
	parserTemperature = 0.3

	parserSystem = `Estrai i parametri di viaggio dal messaggio dell'utente.
Rispondi SOLO con un oggetto JSON con i campi:
{"destination": "città", "country": "paese", "departure_city": "città di partenza o unknown",
"start_date": "YYYY-MM-DD", "end_date": "YYYY-MM-DD", "travelers": 1,
"budget": "low|medium|high|any", "interests": ["..."]}
Usa "unknown" per i campi che il messaggio non specifica.`
)

// Default values substituted when a field is missing or the whole
// extraction fails.
const (
	defaultDestination  = "any"
	defaultTravelers    = 1
	defaultStartOffset  = 60 * 24 * time.Hour
	defaultTripDuration = 3 * 24 * time.Hour
)

var defaultInterests = []string{"culture", "tourism"}

// Parser extracts a structured TripRequest from a free-text query.
type Parser struct {
	llm llm.Client
	now func() time.Time
}

// NewParser constructs a Parser over the given model client.
func NewParser(client llm.Client) *Parser {
	return &Parser{llm: client, now: time.Now}
}

// extractedQuery is the raw shape the model is asked for. All fields are
// optional; validation substitutes defaults.
type extractedQuery struct {
	Destination   string   `json:"destination"`
	Country       string   `json:"country"`
	DepartureCity string   `json:"departure_city"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	Travelers     int      `json:"travelers"`
	Budget        string   `json:"budget"`
	Interests     []string `json:"interests"`
}

// Parse extracts trip parameters from a free-text query. It never
// returns an error: a failed call or malformed output yields the
// deterministic default request, and individually missing or invalid
// fields are replaced by their defaults.
func (p *Parser) Parse(ctx context.Context, query string) domain.TripRequest {
	raw, err := p.llm.Complete(ctx, llm.Request{
		Prompt:      query,
		System:      parserSystem,
		Temperature: parserTemperature,
		JSONMode:    true,
	})
	if err != nil {
		return p.defaultRequest()
	}

	var extracted extractedQuery
	if err := json.Unmarshal([]byte(extractJSON(raw)), &extracted); err != nil {
		return p.defaultRequest()
	}
	return p.validate(extracted)
}

// defaultRequest is the request used when extraction fails entirely:
// a wildcard destination two months out for a short stay.
func (p *Parser) defaultRequest() domain.TripRequest {
	start := p.now().Add(defaultStartOffset).Truncate(24 * time.Hour)
	return domain.TripRequest{
		Destination:   defaultDestination,
		Country:       "unknown",
		DepartureCity: "unknown",
		StartDate:     start,
		EndDate:       start.Add(defaultTripDuration),
		Travelers:     defaultTravelers,
		Budget:        domain.BudgetMedium,
		Interests:     defaultInterests,
	}
}

// validate fills defaults for missing fields and repairs inconsistent
// dates. End before start clamps to a three-day stay.
func (p *Parser) validate(q extractedQuery) domain.TripRequest {
	req := p.defaultRequest()

	if d := strings.TrimSpace(q.Destination); d != "" && !strings.EqualFold(d, "unknown") {
		req.Destination = d
	}
	if c := strings.TrimSpace(q.Country); c != "" {
		req.Country = c
	}
	if dep := strings.TrimSpace(q.DepartureCity); dep != "" {
		req.DepartureCity = dep
	}

	if start, err := parseDate(q.StartDate); err == nil {
		req.StartDate = start
		req.EndDate = start.Add(defaultTripDuration)
	}
	if end, err := parseDate(q.EndDate); err == nil {
		req.EndDate = end
	}
	if req.EndDate.Before(req.StartDate) {
		req.EndDate = req.StartDate.Add(defaultTripDuration)
	}

	if q.Travelers > 0 {
		req.Travelers = q.Travelers
	}
	switch strings.ToLower(strings.TrimSpace(q.Budget)) {
	case domain.BudgetLow:
		req.Budget = domain.BudgetLow
	case domain.BudgetHigh:
		req.Budget = domain.BudgetHigh
	case domain.BudgetAny:
		req.Budget = domain.BudgetAny
	}
	if len(q.Interests) > 0 {
		req.Interests = q.Interests
	}
	return req
}
