package booking

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var bookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "counseld_bookings_total",
	Help: "Booking attempts by outcome.",
}, []string{"result"})
