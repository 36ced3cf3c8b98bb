package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"counseld/internal/apperr"
	"counseld/internal/slots"
)

func handleCreateSlot(svc *slots.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			respondError(w, apperr.New(apperr.Unauthorized, "missing bearer token"))
			return
		}

		var req slots.CreateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondBadRequest(w, err)
			return
		}

		view, err := svc.Create(r.Context(), actor, req)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, view)
	}
}

func handleListSlots(svc *slots.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			respondError(w, apperr.New(apperr.Unauthorized, "missing bearer token"))
			return
		}

		var counselorID *uuid.UUID
		if raw := strings.TrimSpace(r.URL.Query().Get("counselorId")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				respondError(w, apperr.New(apperr.InvalidInput, "counselorId must be a valid id"))
				return
			}
			counselorID = &id
		}
		includeBookings := r.URL.Query().Get("includeBookings") == "true"

		views, err := svc.List(r.Context(), actor, counselorID, includeBookings)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"slots": views})
	}
}

func handleSlotBookings(svc *slots.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			respondError(w, apperr.New(apperr.Unauthorized, "missing bearer token"))
			return
		}

		slotID, err := uuid.Parse(chi.URLParam(r, "slotID"))
		if err != nil {
			respondError(w, apperr.New(apperr.InvalidInput, "slot id must be a valid id"))
			return
		}

		views, err := svc.BookingsForSlot(r.Context(), actor, slotID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"bookings": views})
	}
}

func handleUpdateSlot(svc *slots.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			respondError(w, apperr.New(apperr.Unauthorized, "missing bearer token"))
			return
		}

		slotID, err := uuid.Parse(chi.URLParam(r, "slotID"))
		if err != nil {
			respondError(w, apperr.New(apperr.InvalidInput, "slot id must be a valid id"))
			return
		}

		var req slots.UpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondBadRequest(w, err)
			return
		}

		view, err := svc.Update(r.Context(), actor, slotID, req)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, view)
	}
}

func handleDeleteSlot(svc *slots.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			respondError(w, apperr.New(apperr.Unauthorized, "missing bearer token"))
			return
		}

		slotID, err := uuid.Parse(chi.URLParam(r, "slotID"))
		if err != nil {
			respondError(w, apperr.New(apperr.InvalidInput, "slot id must be a valid id"))
			return
		}

		if err := svc.Delete(r.Context(), actor, slotID); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusNoContent, nil)
	}
}
