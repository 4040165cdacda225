package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes pipeline metrics to Prometheus.
type Recorder struct {
	eventsIngested  *prometheus.CounterVec
	segmentsSkipped prometheus.Counter
	stageFailures   *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	reportValues    *prometheus.GaugeVec
	httpRequests    *prometheus.CounterVec
}

// New creates a recorder registered with reg. Tests pass a fresh
// prometheus.NewRegistry() so recorders don't collide on the default registry.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		eventsIngested: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drivecost_events_ingested_total",
				Help: "Total number of flattened events by category",
			},
			[]string{"category"},
		),
		segmentsSkipped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "drivecost_segments_skipped_total",
				Help: "Total number of export segments skipped at or before the cutoff",
			},
		),
		stageFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drivecost_stage_failures_total",
				Help: "Total number of pipeline stage failures by kind",
			},
			[]string{"stage", "kind"},
		),
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "drivecost_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		reportValues: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "drivecost_report_value",
				Help: "Headline figures of the last generated report",
			},
			[]string{"figure"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drivecost_http_requests_total",
				Help: "Total number of report API requests",
			},
			[]string{"method", "route", "status"},
		),
	}
}

// RecordEvents adds flattened events of one category.
func (r *Recorder) RecordEvents(category string, n int) {
	r.eventsIngested.WithLabelValues(category).Add(float64(n))
}

// RecordSkipped adds skipped segments.
func (r *Recorder) RecordSkipped(n int) {
	r.segmentsSkipped.Add(float64(n))
}

// RecordFailure records a failed stage.
func (r *Recorder) RecordFailure(stage, kind string) {
	r.stageFailures.WithLabelValues(stage, kind).Inc()
}

// RecordLatency records stage latency in seconds.
func (r *Recorder) RecordLatency(stage string, seconds float64) {
	r.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordValue sets a headline report figure.
func (r *Recorder) RecordValue(figure string, v float64) {
	r.reportValues.WithLabelValues(figure).Set(v)
}

// RecordRequest counts an API request.
func (r *Recorder) RecordRequest(method, route, status string) {
	r.httpRequests.WithLabelValues(method, route, status).Inc()
}
