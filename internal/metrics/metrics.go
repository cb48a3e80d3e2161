package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gympass_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gympass_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PassPurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gympass_pass_purchases_total",
			Help: "Total number of gym pass purchases",
		},
		[]string{"kind"},
	)

	PassSuspensionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gympass_pass_suspensions_total",
			Help: "Total number of pass suspensions",
		},
	)

	PassDeletionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gympass_pass_deletions_total",
			Help: "Total number of pass deletions",
		},
	)

	PassCheckInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gympass_pass_checkins_total",
			Help: "Total number of pass check-in attempts",
		},
		[]string{"result"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gympass_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gympass_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	WalletTopUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gympass_wallet_topups_total",
			Help: "Total number of wallet top-ups",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordPassPurchase(kind string) {
	PassPurchasesTotal.WithLabelValues(kind).Inc()
}

func RecordPassSuspension() {
	PassSuspensionsTotal.Inc()
}

func RecordPassDeletion() {
	PassDeletionsTotal.Inc()
}

func RecordPassCheckIn(result string) {
	PassCheckInsTotal.WithLabelValues(result).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordWalletTopUp() {
	WalletTopUpsTotal.Inc()
}
