package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"counseld/internal/apperr"
)

func decodeJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return errors.New("request body required")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError maps the error taxonomy onto HTTP statuses. Unclassified errors
// are logged and reported as a generic 500 so internals never leak.
func respondError(w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	status := statusOf(apperr.KindOf(err))
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
		var ae *apperr.Error
		if !errors.As(err, &ae) {
			msg = "internal server error"
		}
	}

	respondJSON(w, status, map[string]any{"error": msg})
}

func respondBadRequest(w http.ResponseWriter, err error) {
	respondError(w, apperr.New(apperr.InvalidInput, err.Error()))
}

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.InvalidInput:
		return http.StatusBadRequest
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
