// Helper functions for sending standardized JSON responses.

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okutan/kitaplik-go/internal/shelf"
)

// RespondWithJSON writes a JSON response with the given status code and payload.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		// If marshaling fails, return an error response
		RespondWithError(w, http.StatusInternalServerError, "Failed to marshal response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithError writes a standardized JSON error response.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// respondShelfError maps the adapter's error taxonomy onto HTTP status codes.
func respondShelfError(w http.ResponseWriter, err error) {
	var (
		validationErr *shelf.ValidationError
		duplicateErr  *shelf.DuplicateError
		notFoundErr   *shelf.NotFoundError
		decodeErr     *shelf.DecodeError
	)
	switch {
	case errors.As(err, &validationErr):
		RespondWithError(w, http.StatusUnprocessableEntity, validationErr.Error())
	case errors.As(err, &duplicateErr):
		RespondWithError(w, http.StatusConflict, duplicateErr.Error())
	case errors.As(err, &notFoundErr):
		RespondWithError(w, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &decodeErr):
		RespondWithError(w, http.StatusInternalServerError, "Stored collection is corrupt")
	default:
		RespondWithError(w, http.StatusInternalServerError, "Storage operation failed")
	}
}
