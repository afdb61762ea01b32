package domain

// Intent is the classified purpose of a follow-up user message.
type Intent string

const (
	// IntentNewTrip starts a brand-new planning cycle.
	IntentNewTrip Intent = "new_trip"
	// IntentModification changes or updates part of the current plan.
	IntentModification Intent = "modification"
	// IntentInformation asks about the plan without changing it.
	IntentInformation Intent = "information"
	// IntentDone finalizes the current trip.
	IntentDone Intent = "done"
	// IntentError marks a turn where classification itself failed.
	IntentError Intent = "error"
)

// Valid reports whether i is one of the four user-facing intents.
// IntentError is internal and never produced by a well-formed classifier
// response.
func (i Intent) Valid() bool {
	switch i {
	case IntentNewTrip, IntentModification, IntentInformation, IntentDone:
		return true
	}
	return false
}
