package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	analysesTotal      *prometheus.CounterVec
	analysisLatency    *prometheus.HistogramVec
	riskScoreHistogram prometheus.Histogram
	flagsTotal         *prometheus.CounterVec
	apiRequestsTotal   *prometheus.CounterVec
	apiLatencySeconds  *prometheus.HistogramVec
	apiErrorsTotal     *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the engine.
func RegisterMetrics() {
	registerOnce.Do(func() {
		analysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "integrity_analyses_total",
			Help: "Total number of integrity analyses performed.",
		}, []string{"mode", "recommendation"})

		analysisLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "integrity_analysis_seconds",
			Help:    "Latency distribution for integrity analyses.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"mode"})

		riskScoreHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "integrity_risk_score",
			Help:    "Distribution of computed risk scores.",
			Buckets: []float64{0, 10, 25, 40, 50, 60, 70, 85, 100},
		})

		flagsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "integrity_flags_total",
			Help: "Total number of integrity flags raised, by type and severity.",
		}, []string{"type", "severity"})

		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "integrity_api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "integrity_api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "integrity_api_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		prometheus.MustRegister(analysesTotal, analysisLatency, riskScoreHistogram, flagsTotal,
			apiRequestsTotal, apiLatencySeconds, apiErrorsTotal)
	})
}

// Analyses exposes the counter for completed analyses.
func Analyses() *prometheus.CounterVec {
	RegisterMetrics()
	return analysesTotal
}

// AnalysisLatency exposes the analysis latency histogram.
func AnalysisLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return analysisLatency
}

// RiskScores exposes the risk score distribution histogram.
func RiskScores() prometheus.Histogram {
	RegisterMetrics()
	return riskScoreHistogram
}

// Flags exposes the counter for raised flags.
func Flags() *prometheus.CounterVec {
	RegisterMetrics()
	return flagsTotal
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}
