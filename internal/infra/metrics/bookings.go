package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(bookingsTotal, paymentsTotal)
}

var (
	bookingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Bookings by lifecycle event (created/confirmed/cancelled).",
		},
		[]string{"event"},
	)

	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payments by status (pending/verified/rejected).",
		},
		[]string{"status"},
	)
)

func IncBooking(event string) {
	bookingsTotal.WithLabelValues(norm(event)).Inc()
}

func IncPayment(status string) {
	paymentsTotal.WithLabelValues(norm(status)).Inc()
}
