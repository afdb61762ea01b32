package planner

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mbenedetti/viaggio/internal/domain"
	"github.com/mbenedetti/viaggio/internal/llm"
)

const (
	classifierTemperature = 0.3

	classifierSystem = `Classifica il messaggio dell'utente rispetto al piano di viaggio attivo.
Gli intenti possibili sono:
- "modification": l'utente vuole cambiare o aggiungere qualcosa al piano ("aggiungi un giorno", "troppo caro", "preferisco un altro hotel")
- "information": l'utente chiede informazioni senza voler cambiare il piano ("che tempo farà?", "quanto costa il volo?")
- "new_trip": l'utente vuole pianificare un viaggio completamente diverso ("ora organizziamo Tokyo")
- "done": l'utente è soddisfatto e vuole chiudere ("perfetto, grazie", "va bene così")
Rispondi SOLO con un oggetto JSON: {"intent": "...", "response": "..."} dove response è una breve risposta in italiano.`

	classifierErrorReply = "Mi dispiace, non sono riuscito a elaborare il messaggio. Può riformularlo?"
)

// Classification is the classifier's verdict on one follow-up message.
type Classification struct {
	Intent   domain.Intent `json:"intent"`
	Response string        `json:"response"`
}

// Classifier assigns an intent to each follow-up message in a session
// with an active plan.
type Classifier struct {
	llm llm.Client
}

// NewClassifier constructs a Classifier over the given model client.
func NewClassifier(client llm.Client) *Classifier {
	return &Classifier{llm: client}
}

// Classify determines the intent of a user message. The method never
// returns an error: a failed model call yields IntentError with an
// apology, and malformed or unexpected model output defaults to
// IntentModification carrying the raw text, so the session loop always
// has a defined next step.
func (c *Classifier) Classify(ctx context.Context, message string) Classification {
	raw, err := c.llm.Complete(ctx, llm.Request{
		Prompt:      message,
		System:      classifierSystem,
		Temperature: classifierTemperature,
		JSONMode:    true,
	})
	if err != nil {
		return Classification{Intent: domain.IntentError, Response: classifierErrorReply}
	}

	var result Classification
	if err := json.Unmarshal([]byte(extractJSON(raw)), &result); err != nil || !result.Intent.Valid() {
		return Classification{Intent: domain.IntentModification, Response: raw}
	}
	if result.Response == "" {
		result.Response = raw
	}
	return result
}

// extractJSON strips markdown code fences the model sometimes wraps
// around its JSON object.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "{"); i >= 0 {
		if j := strings.LastIndex(s, "}"); j > i {
			return s[i : j+1]
		}
	}
	return s
}
