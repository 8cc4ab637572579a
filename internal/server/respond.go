package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/desertthunder/tapedeck/internal/shared"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// statusFor maps pipeline errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrPlaylistNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrMissingArgument), errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrCatalogUnavailable),
		errors.Is(err, shared.ErrSearch),
		errors.Is(err, shared.ErrAPIRequest),
		errors.Is(err, shared.ErrServiceUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// streamStatus maps a fatal pre-stream error: 401 without a usable session, 502 for any other catalog failure.
func streamStatus(err error) int {
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrCatalogUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
