// Package metrics provides Prometheus collectors for the site.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderRequestsTotal counts content provider reads by endpoint and outcome.
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "climbcoach",
			Name:      "provider_requests_total",
			Help:      "Total number of content provider requests",
		},
		[]string{"endpoint", "status"},
	)

	// ProviderRequestDuration measures content provider latency.
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "climbcoach",
			Name:      "provider_request_duration_seconds",
			Help:      "Duration of content provider requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// FormSubmissionsTotal counts form submissions by form and outcome.
	FormSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "climbcoach",
			Name:      "form_submissions_total",
			Help:      "Total number of form submissions",
		},
		[]string{"form", "status"},
	)

	// CategoryMisconfigured is 1 while the configured category slug is missing on the provider.
	CategoryMisconfigured = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "climbcoach",
			Name:      "category_misconfigured",
			Help:      "Configured content category is missing on the provider (1 = missing)",
		},
	)
)

// RecordProviderRequest records one provider read. statusCode 0 means a transport failure.
func RecordProviderRequest(endpoint string, statusCode int, seconds float64) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	ProviderRequestsTotal.WithLabelValues(endpoint, status).Inc()
	ProviderRequestDuration.WithLabelValues(endpoint).Observe(seconds)
}

// RecordFormSubmission records one submission attempt.
func RecordFormSubmission(form string, ok bool) {
	status := "failed"
	if ok {
		status = "delivered"
	}
	FormSubmissionsTotal.WithLabelValues(form, status).Inc()
}

// RecordCategoryResolution flips the misconfiguration gauge.
func RecordCategoryResolution(found bool) {
	if found {
		CategoryMisconfigured.Set(0)
		return
	}
	CategoryMisconfigured.Set(1)
}
