package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mbenedetti/viaggio/internal/domain"
)

// errorResponse is the JSON shape of every non-2xx response.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps a service error onto the HTTP status and body the
// sentinel calls for. Unrecognized errors become an opaque 500 so
// internal details never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{errorDetail{Code: "not_found", Message: "trip not found"}})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{errorDetail{Code: "validation_error", Message: unwrapMessage(err)}})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{errorDetail{Code: "unauthorized", Message: "invalid credentials"}})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{errorDetail{Code: "internal_error", Message: "internal server error"}})
	}
}

// requestBody returns an errorResponse for a bad request rejected before
// reaching the service layer (e.g. missing or malformed body).
func requestBody(message string) errorResponse {
	return errorResponse{errorDetail{Code: "validation_error", Message: message}}
}

// unwrapMessage extracts the human-readable part from a wrapped
// validation error, e.g.
// "service.AuthService.Register: validation error: username is required"
// → "username is required".
func unwrapMessage(err error) string {
	msg := err.Error()
	if _, after, found := strings.Cut(msg, "validation error: "); found {
		return after
	}
	return msg
}
