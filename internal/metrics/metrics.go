package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "passhub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "passhub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CheckoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "passhub_checkouts_total",
			Help: "Total number of checkout attempts",
		},
		[]string{"instrument", "outcome"},
	)

	NoticesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "passhub_notices_total",
			Help: "Total number of post-purchase notices dispatched",
		},
		[]string{"notice"},
	)

	FollowUpBookingsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "passhub_follow_up_bookings_total",
			Help: "Total number of dependent bookings issued after a pass purchase",
		},
	)

	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "passhub_orders_total",
			Help: "Total number of orders created",
		},
		[]string{"payment_source", "status"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "passhub_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "passhub_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	SubscriptionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "passhub_subscriptions_created_total",
			Help: "Total number of subscriptions created",
		},
		[]string{"plan"},
	)

	PassCreditsSpentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "passhub_pass_credits_spent_total",
			Help: "Total number of pass credits redeemed",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordCheckout(instrument, outcome string) {
	CheckoutsTotal.WithLabelValues(instrument, outcome).Inc()
}

func RecordNotice(notice string) {
	NoticesTotal.WithLabelValues(notice).Inc()
}

func RecordFollowUpBooking() {
	FollowUpBookingsTotal.Inc()
}

func RecordOrder(paymentSource, status string) {
	OrdersTotal.WithLabelValues(paymentSource, status).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordSubscription(plan string) {
	SubscriptionsCreatedTotal.WithLabelValues(plan).Inc()
}

func RecordPassCreditSpent() {
	PassCreditsSpentTotal.Inc()
}
