// Package httpapi exposes the service over HTTP with chi.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"counseld/internal/auth"
	"counseld/internal/booking"
	"counseld/internal/sessions"
	"counseld/internal/slots"
	"counseld/internal/tokens"
)

// RouterOptions bundles the dependencies the HTTP layer wires together.
type RouterOptions struct {
	JWT            *auth.JWT
	Auth           *auth.Service
	Tokens         *tokens.Service
	Slots          *slots.Service
	Booking        *booking.Service
	Sessions       *sessions.Service
	AllowedOrigins []string
}

// Router builds the full HTTP surface: open auth and public booking routes,
// authenticated admin routes, and the operational endpoints.
func Router(opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	allowed := opts.AllowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handleRegister(opts.Auth))
		r.Post("/login", handleLogin(opts.Auth))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(Authenticator(opts.JWT))

		r.Post("/email-links", handleCreateEmailLink(opts.Tokens))

		r.Route("/slots", func(r chi.Router) {
			r.Post("/", handleCreateSlot(opts.Slots))
			r.Get("/", handleListSlots(opts.Slots))
			r.Get("/{slotID}/bookings", handleSlotBookings(opts.Slots))
			r.Patch("/{slotID}", handleUpdateSlot(opts.Slots))
			r.Delete("/{slotID}", handleDeleteSlot(opts.Slots))
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/{bookingID}/session", handleSaveSession(opts.Sessions))
			r.Get("/{bookingID}/session", handleGetSession(opts.Sessions))
		})
	})

	r.Route("/public", func(r chi.Router) {
		r.Use(httprate.Limit(60, time.Minute))
		r.Get("/slots", handlePublicSlots(opts.Slots))
		r.Post("/bookings", handleCreateBooking(opts.Booking))
	})

	return r
}
