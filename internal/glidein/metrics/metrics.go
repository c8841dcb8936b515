package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/glideinproject/glidein/internal/glidein/admission"
)

const GlideinClientMetricsPrefix = "glidein_client_"

type Metrics struct {
	cycleLatency    prometheus.Histogram
	jobsRunning     prometheus.Gauge
	jobsIdle        prometheus.Gauge
	jobsLaunched    prometheus.Counter
	submitLimit     prometheus.Gauge
	demandsSkipped  *prometheus.CounterVec
	demandsDeferred prometheus.Counter
	pollFailures    prometheus.Counter
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		cycleLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    GlideinClientMetricsPrefix + "cycle_latency_seconds",
			Help:    "Poll, admit and report cycle latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		jobsRunning: factory.NewGauge(prometheus.GaugeOpts{
			Name: GlideinClientMetricsPrefix + "jobs_running",
			Help: "Glideins running in the local scheduler at the start of the last cycle",
		}),
		jobsIdle: factory.NewGauge(prometheus.GaugeOpts{
			Name: GlideinClientMetricsPrefix + "jobs_idle",
			Help: "Glideins queued in the local scheduler at the start of the last cycle",
		}),
		jobsLaunched: factory.NewCounter(prometheus.CounterOpts{
			Name: GlideinClientMetricsPrefix + "jobs_launched_total",
			Help: "Glideins submitted to the local scheduler",
		}),
		submitLimit: factory.NewGauge(prometheus.GaugeOpts{
			Name: GlideinClientMetricsPrefix + "submit_limit",
			Help: "Number of glideins the last cycle was allowed to submit",
		}),
		demandsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: GlideinClientMetricsPrefix + "demands_skipped_total",
			Help: "Demands not admitted because of cluster policy",
		}, []string{"reason"}),
		demandsDeferred: factory.NewCounter(prometheus.CounterOpts{
			Name: GlideinClientMetricsPrefix + "demands_deferred_total",
			Help: "Demands left for a later cycle once the submit limit was reached",
		}),
		pollFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: GlideinClientMetricsPrefix + "poll_failures_total",
			Help: "Cycles abandoned because the local scheduler could not be queried",
		}),
	}
}

func (m *Metrics) RecordCycle(duration time.Duration) {
	m.cycleLatency.Observe(duration.Seconds())
}

func (m *Metrics) RecordCounters(counters admission.Counters) {
	m.jobsRunning.Set(float64(counters.Running))
	m.jobsIdle.Set(float64(counters.Idle))
}

func (m *Metrics) RecordPlan(plan *admission.Plan) {
	m.submitLimit.Set(float64(plan.Limit))
	m.jobsLaunched.Add(float64(plan.Admitted))
	m.demandsDeferred.Add(float64(plan.Deferred))
	for reason, count := range plan.Skipped {
		m.demandsSkipped.WithLabelValues(string(reason)).Add(float64(count))
	}
}

func (m *Metrics) RecordPollFailure() {
	m.pollFailures.Inc()
}
