package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"counseld/internal/apperr"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.InvalidInput, http.StatusBadRequest},
		{apperr.Unauthorized, http.StatusUnauthorized},
		{apperr.Forbidden, http.StatusForbidden},
		{apperr.NotFound, http.StatusNotFound},
		{apperr.Conflict, http.StatusConflict},
		{apperr.Internal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusOf(tt.kind); got != tt.want {
			t.Fatalf("statusOf(%v) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestRespondErrorMasksUnclassifiedErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, errors.New("pq: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "internal server error" {
		t.Fatalf("error = %q, internals must not leak", body["error"])
	}
}

func TestRespondErrorKeepsClassifiedMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, apperr.New(apperr.Conflict, "this slot is fully booked (capacity 3)"))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "fully booked") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.c","surprise":true}`))
	var dest struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(req, &dest); err == nil {
		t.Fatal("unknown fields should be rejected")
	}
}
