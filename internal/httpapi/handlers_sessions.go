package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"counseld/internal/apperr"
	"counseld/internal/sessions"
)

func handleSaveSession(svc *sessions.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			respondError(w, apperr.New(apperr.Unauthorized, "missing bearer token"))
			return
		}

		bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
		if err != nil {
			respondError(w, apperr.New(apperr.InvalidInput, "booking id must be a valid id"))
			return
		}

		var patch sessions.Patch
		if err := decodeJSON(r, &patch); err != nil {
			respondBadRequest(w, err)
			return
		}

		view, err := svc.Save(r.Context(), actor, bookingID, patch)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, map[string]any{
			"message": "session saved",
			"session": view,
		})
	}
}

func handleGetSession(svc *sessions.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			respondError(w, apperr.New(apperr.Unauthorized, "missing bearer token"))
			return
		}

		bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
		if err != nil {
			respondError(w, apperr.New(apperr.InvalidInput, "booking id must be a valid id"))
			return
		}

		view, err := svc.Get(r.Context(), actor, bookingID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, view)
	}
}
