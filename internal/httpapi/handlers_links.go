package httpapi

import (
	"net/http"

	"counseld/internal/apperr"
	"counseld/internal/tokens"
)

func handleCreateEmailLink(svc *tokens.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			respondError(w, apperr.New(apperr.Unauthorized, "missing bearer token"))
			return
		}

		var req tokens.CreateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondBadRequest(w, err)
			return
		}

		result, err := svc.Create(r.Context(), actor, req)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, result)
	}
}
