package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		PaymentVerifyRequests,
		PaymentVerifyDuration,
		ReceiptNotifyTotal,
	)
}

var (
	// Count of verify calls grouped by result and bounded reason.
	// result: ok|fail
	// reason (fail only): gateway_declined|missing_metadata|amount_mismatch|access_denied|internal|unknown
	PaymentVerifyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verify_requests_total",
			Help: "Count of /api/v1/payments/verify calls by result and reason.",
		},
		[]string{"result", "reason"},
	)

	// Latency of verify handler grouped by result.
	PaymentVerifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_verify_duration_seconds",
			Help:    "Duration of /api/v1/payments/verify handler in seconds.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"result"},
	)

	// Receipt notification attempts by delivery status.
	// status: sent|error|no_user
	ReceiptNotifyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receipt_notify_total",
			Help: "Receipt notifications about verified payments by delivery status.",
		},
		[]string{"status"},
	)
)

func IncVerifyRequest(result, reason string) {
	PaymentVerifyRequests.WithLabelValues(norm(result), norm(reason)).Inc()
}

func ObserveVerifyDuration(result string, seconds float64) {
	PaymentVerifyDuration.WithLabelValues(norm(result)).Observe(seconds)
}

func IncReceiptNotify(status string) {
	ReceiptNotifyTotal.WithLabelValues(norm(status)).Inc()
}
