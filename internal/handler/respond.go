package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mbenedetti/viaggio/internal/middleware"
)

// writeJSON encodes v as the response body with the given status.
// Encoding failures are unrecoverable at this point (headers are already
// written), so they are ignored.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck
	json.NewEncoder(w).Encode(v)
}

// decodeJSON parses the request body into v. Unknown fields are
// rejected so typos in client payloads fail loudly instead of being
// silently dropped. A false return means the error response has already
// been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			writeJSON(w, http.StatusRequestEntityTooLarge, requestBody("request body too large"))
			return false
		}
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("invalid JSON body"))
		return false
	}
	return true
}

// pathID parses the {id} URL parameter. A false return means the error
// response has already been written.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("invalid trip id"))
		return uuid.Nil, false
	}
	return id, true
}

// authedUser extracts the user ID injected by the auth middleware.
// Reaching a protected handler without one means the route was wired
// without the middleware; treat it as unauthorized rather than panic.
func authedUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{errorDetail{Code: "unauthorized", Message: "missing or invalid token"}})
		return uuid.Nil, false
	}
	return userID, true
}
