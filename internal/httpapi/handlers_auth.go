package httpapi

import (
	"net/http"

	"counseld/internal/auth"
	"counseld/internal/models"
)

func handleRegister(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string      `json:"email"`
			Password string      `json:"password"`
			Role     models.Role `json:"role"`
		}
		if err := decodeJSON(r, &req); err != nil {
			respondBadRequest(w, err)
			return
		}

		result, err := svc.Register(r.Context(), req.Email, req.Password, req.Role)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, result)
	}
}

func handleLogin(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := decodeJSON(r, &req); err != nil {
			respondBadRequest(w, err)
			return
		}

		result, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}
