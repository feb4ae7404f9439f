// Package metrics declares the Prometheus collectors exported at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "noskip_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	CompletionToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noskip_habit_completion_toggles_total",
			Help: "Habit completion toggles",
		},
		[]string{"result"}, // result: completed, uncompleted
	)

	TransactionsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noskip_transactions_created_total",
			Help: "Expenses and incomes recorded",
		},
		[]string{"kind"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noskip_cache_lookups_total",
			Help: "Expense cache lookups",
		},
		[]string{"result"}, // result: hit, miss
	)

	AMQPPublishes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noskip_amqp_publish_total",
			Help: "AMQP publish attempts",
		},
		[]string{"routing_key", "status"}, // status: success, failed
	)

	RemindersSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "noskip_habit_reminders_total",
			Help: "Habit reminders published",
		},
	)
)

func RecordHTTPRequestDuration(method, route, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

func RecordToggle(completed bool) {
	if completed {
		CompletionToggles.WithLabelValues("completed").Inc()
		return
	}
	CompletionToggles.WithLabelValues("uncompleted").Inc()
}

func RecordCacheLookup(hit bool) {
	if hit {
		CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	CacheLookups.WithLabelValues("miss").Inc()
}

func RecordPublish(routingKey string, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	AMQPPublishes.WithLabelValues(routingKey, status).Inc()
}
