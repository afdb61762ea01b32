package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, malformed date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnauthorized is returned when credentials are wrong, a token is
// invalid, or a user tries to access a trip they do not own.
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrModel is returned by the LLM client on transport, auth, or quota
// failures. The plan synthesizer recovers from it with a deterministic
// fallback plan; it must never reach a handler unhandled.
var ErrModel = errors.New("model error")

// ErrDataSource marks the failure of a single external data fetch.
// It is recorded as a per-slot marker inside CollectedData and never
// propagates out of the collector.
var ErrDataSource = errors.New("data source error")

// ErrResolution is returned when a city name cannot be mapped to a
// transport location code. It downgrades flight and hotel-pricing
// fetches for the current request only.
var ErrResolution = errors.New("location code not found")
