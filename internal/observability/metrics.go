package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL job.
type Metrics struct {
	TaskRuns     *prometheus.CounterVec   // labels: task={extract,transform,load}, outcome={success,error,skipped}
	TaskDuration *prometheus.HistogramVec // labels: task
	LastSuccess  prometheus.Gauge

	// Weather API metrics.
	APIRequests *prometheus.CounterVec // labels: outcome={success,error}
	APIDuration prometheus.Histogram

	RecordsLoaded *prometheus.CounterVec // labels: sink
}

// NewMetrics creates and registers all job metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.TaskRuns,
		m.TaskDuration,
		m.LastSuccess,
		m.APIRequests,
		m.APIDuration,
		m.RecordsLoaded,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		TaskRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_etl",
			Name:      "task_runs_total",
			Help:      "Task executions by task and outcome.",
		}, []string{"task", "outcome"}),
		TaskDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_etl",
			Name:      "task_duration_seconds",
			Help:      "Duration of a single task execution.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"task"}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_etl",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that completed every task of the DAG.",
		}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_etl",
			Name:      "api_requests_total",
			Help:      "Weather API requests by outcome.",
		}, []string{"outcome"}),
		APIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_etl",
			Name:      "api_request_duration_seconds",
			Help:      "Weather API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RecordsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_etl",
			Name:      "records_loaded_total",
			Help:      "Records delivered by the load task, by sink.",
		}, []string{"sink"}),
	}
}
