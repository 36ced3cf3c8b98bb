package httpapi

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"counseld/internal/apperr"
	"counseld/internal/booking"
	"counseld/internal/slots"
)

func handlePublicSlots(svc *slots.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.URL.Query().Get("counselorId"))
		if raw == "" {
			respondError(w, apperr.New(apperr.InvalidInput, "counselorId is required"))
			return
		}
		counselorID, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, apperr.New(apperr.InvalidInput, "counselorId must be a valid id"))
			return
		}

		views, err := svc.PublicAvailability(r.Context(), counselorID, r.URL.Query().Get("date"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"slots": views})
	}
}

func handleCreateBooking(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req booking.CreateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondBadRequest(w, err)
			return
		}

		result, err := svc.Create(r.Context(), req)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, map[string]any{
			"message":   "booking confirmed",
			"bookingId": result.BookingID,
		})
	}
}
