package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/mbenedetti/viaggio/internal/domain"
	"github.com/mbenedetti/viaggio/internal/llm"
)

const (
	planTemperature = 0.7
	planMaxTokens   = 3000

	planSystemMessage = "Sei un esperto pianificatore di viaggi. Crei itinerari dettagliati, " +
		"realistici e ben organizzati in italiano, basandoti esclusivamente sui dati forniti."
)

// Synthesizer drives plan generation and guarantees a non-empty,
// presentable plan even when the model call fails.
type Synthesizer struct {
	llm llm.Client
}

// NewSynthesizer constructs a Synthesizer over the given model client.
func NewSynthesizer(client llm.Client) *Synthesizer {
	return &Synthesizer{llm: client}
}

// GeneratePlan asks the model for an itinerary grounded on the assembled
// context. The instructions adapt to what the context actually contains:
// explicit dated day headings when the trip window is valid, narrative
// blending when guide excerpts are present, figure-grounded budgeting
// when budget inputs are present. A model failure yields the
// deterministic fallback plan instead of an error.
func (s *Synthesizer) GeneratePlan(ctx context.Context, req domain.TripRequest, data domain.CollectedData, contextText string) (string, error) {
	prompt := buildPlanPrompt(req, data, contextText)

	plan, err := s.llm.Complete(ctx, llm.Request{
		Prompt:      prompt,
		System:      planSystemMessage,
		Temperature: planTemperature,
		MaxTokens:   planMaxTokens,
	})
	if err != nil {
		return FallbackPlan(req, contextText), nil
	}
	return plan, nil
}

func buildPlanPrompt(req domain.TripRequest, data domain.CollectedData, contextText string) string {
	window := newTripWindow(req.StartDate, req.EndDate)

	var b strings.Builder
	fmt.Fprintf(&b, "Crea un piano di viaggio completo per %s.\n\n", req.Destination)
	b.WriteString(contextText)
	b.WriteString("\n\nISTRUZIONI:\n")

	if window.valid {
		fmt.Fprintf(&b, "- Struttura l'itinerario in %d giorni con intestazioni \"Giorno N (data)\" usando le date elencate.\n", window.days())
	} else {
		b.WriteString("- Struttura l'itinerario con intestazioni \"Giorno N\", coprendo ogni giorno del viaggio.\n")
	}
	b.WriteString("- Per ogni giorno indica Mattina, Pomeriggio e Sera con attività concrete.\n")

	if strings.Contains(contextText, "DALLE GUIDE DI VIAGGIO:") {
		b.WriteString("- Integra i dettagli narrativi delle guide nelle sezioni su attrazioni ed eventi.\n")
	}
	if strings.Contains(contextText, "DATI REALI PER IL BUDGET:") {
		b.WriteString("- Basa la stima del budget sulle cifre reali fornite, senza inventare numeri.\n")
	} else {
		b.WriteString("- Fornisci una stima di budget indicativa per la fascia richiesta.\n")
	}
	b.WriteString("- Concludi con consigli pratici su trasporti locali e prenotazioni.\n")

	return b.String()
}

// fallbackChecklist closes every fallback plan with actionable next steps.
var fallbackChecklist = []string{
	"Verificare voli e orari sui siti delle compagnie",
	"Prenotare l'alloggio con cancellazione gratuita",
	"Controllare il meteo nei giorni precedenti la partenza",
	"Verificare documenti di viaggio ed eventuali visti",
	"Stipulare un'assicurazione di viaggio",
}

// FallbackPlan is the deterministic plan used when generation fails: the
// trip header, the assembled context verbatim, and a fixed checklist.
// It never fails and is never empty.
func FallbackPlan(req domain.TripRequest, contextText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Piano di viaggio: %s\n\n", req.Destination)
	fmt.Fprintf(&b, "Periodo: %s - %s | Viaggiatori: %d | Budget: %s\n\n",
		req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"),
		req.Travelers, req.Budget)
	b.WriteString("Il piano dettagliato non è al momento disponibile. ")
	b.WriteString("Di seguito i dati raccolti per il viaggio.\n\n")
	b.WriteString(contextText)
	b.WriteString("\n\n## Checklist\n")
	for _, item := range fallbackChecklist {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	return b.String()
}

// Refine asks the model to update an existing plan per a user request.
// On failure the current plan is returned unchanged with a note appended,
// so the caller always has a presentable plan body.
func (s *Synthesizer) Refine(ctx context.Context, currentPlan, request string) (string, error) {
	prompt := fmt.Sprintf("PIANO ATTUALE:\n%s\n\nRICHIESTA DI MODIFICA:\n%s\n\n"+
		"Riscrivi il piano completo applicando la modifica richiesta, mantenendo la stessa struttura.",
		currentPlan, request)

	refined, err := s.llm.Complete(ctx, llm.Request{
		Prompt:      prompt,
		System:      planSystemMessage,
		Temperature: planTemperature,
		MaxTokens:   planMaxTokens,
	})
	if err != nil {
		note := fmt.Sprintf("\n\n---\nNota: la modifica richiesta (%q) non è stata applicata per un problema tecnico. Riprovare.", request)
		return currentPlan + note, nil
	}
	return refined, nil
}
