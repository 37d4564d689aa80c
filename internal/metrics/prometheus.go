// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the Gram Seva grievance backend.
var (
	// Counters.
	ComplaintsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complaints_submitted_total",
			Help: "Total number of complaints submitted",
		},
		[]string{"category", "area_type", "routed"},
	)

	ComplaintsResolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complaints_resolved_total",
			Help: "Total number of complaints marked resolved",
		},
		[]string{"category"},
	)

	OTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_requests_total",
			Help: "Total number of OTP requests",
		},
		[]string{"status"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total number of successful logins",
		},
		[]string{"role"},
	)

	ChatRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Total number of chatbot requests",
		},
		[]string{"status"},
	)

	FeedbackSubmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedback_submitted_total",
			Help: "Total number of supervisor feedback submissions",
		},
	)

	// Gauges.
	OpenComplaints = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "open_complaints",
			Help: "Current number of complaints by status",
		},
		[]string{"status"},
	)

	// Histograms.
	ComplaintResolutionSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "complaint_resolution_seconds",
			Help:    "Time from submission to resolution in seconds",
			Buckets: prometheus.ExponentialBuckets(3600, 2, 10), // 1h to ~42 days
		},
	)

	ChatCompletionSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_completion_seconds",
			Help:    "Latency of chat completion calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 250ms to ~32s
		},
	)

	// Scheduler metrics.
	DigestJobsRunTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_jobs_run_total",
			Help: "Total stale-complaint digest job executions",
		},
		[]string{"status"},
	)

	DigestNotificationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "digest_notifications_total",
			Help: "Total digest notifications written",
		},
	)
)

// RecordComplaintSubmitted records a complaint submission.
func RecordComplaintSubmitted(category, areaType string, routed bool) {
	label := "unrouted"
	if routed {
		label = "routed"
	}
	ComplaintsSubmittedTotal.WithLabelValues(category, areaType, label).Inc()
}

// RecordComplaintResolved records a complaint resolution.
func RecordComplaintResolved(category string) {
	ComplaintsResolvedTotal.WithLabelValues(category).Inc()
}

// RecordOTPRequest records an OTP request outcome.
func RecordOTPRequest(status string) {
	OTPRequestsTotal.WithLabelValues(status).Inc()
}

// RecordLogin records a successful login by role.
func RecordLogin(role string) {
	LoginsTotal.WithLabelValues(role).Inc()
}

// RecordChatRequest records a chatbot request outcome.
func RecordChatRequest(status string) {
	ChatRequestsTotal.WithLabelValues(status).Inc()
}

// SetOpenComplaints sets the current complaint count for a status.
func SetOpenComplaints(status string, count int64) {
	OpenComplaints.WithLabelValues(status).Set(float64(count))
}

// ObserveResolutionTime observes time from submission to resolution.
func ObserveResolutionTime(seconds float64) {
	ComplaintResolutionSeconds.Observe(seconds)
}

// ObserveChatLatency observes chat completion latency.
func ObserveChatLatency(seconds float64) {
	ChatCompletionSeconds.Observe(seconds)
}

// RecordDigestRun records a digest job execution outcome.
func RecordDigestRun(status string) {
	DigestJobsRunTotal.WithLabelValues(status).Inc()
}

// RecordDigestNotifications records digest notifications written.
func RecordDigestNotifications(count int) {
	DigestNotificationsTotal.Add(float64(count))
}
