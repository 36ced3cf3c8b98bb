package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"counseld/internal/auth"
	"counseld/internal/models"
)

func TestAuthenticator(t *testing.T) {
	jwt := auth.NewJWT("test-secret", time.Hour)
	user := &models.User{ID: uuid.New(), Role: models.RoleCounselor}
	token, err := jwt.Issue(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	handler := Authenticator(jwt)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			t.Fatal("actor missing from context")
		}
		if actor.UserID != user.ID || actor.Role != models.RoleCounselor {
			t.Fatalf("actor = %+v", actor)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + token, http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/slots", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
