package fleet

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/joshelser/opscenter-autoscaler/scaler/trace"
)

const namespace = "wh_autoscaler"

// Metrics counts what the runner did. All methods are safe on a nil *Metrics.
type Metrics struct {
	partitions *prometheus.CounterVec
	records    *prometheus.CounterVec
	restarts   prometheus.Counter
	flaps      prometheus.Counter
	reward     prometheus.Histogram
}

// NewMetrics creates the runner metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		partitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partitions_total",
			Help:      "Partitions processed, by outcome.",
		}, []string{"outcome"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Recommendation records emitted, by controller phase.",
		}, []string{"phase"}),
		restarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "restarts_total",
			Help:      "Restart procedures entered after a reward collapse.",
		}),
		flaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flaps_total",
			Help:      "Steps that carried a flapping penalty.",
		}),
		reward: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_reward",
			Help:      "Reward of each non-bootstrap record.",
			Buckets:   []float64{-10, -1, -0.1, 0, 0.1, 1, 10},
		}),
	}
	reg.MustRegister(m.partitions, m.records, m.restarts, m.flaps, m.reward)
	return m
}

// observe folds one partition result into the metrics.
func (m *Metrics) observe(res Result) {
	if m == nil {
		return
	}
	m.partitions.WithLabelValues(outcome(res)).Inc()
	if res.Trace == nil {
		return
	}
	summary := trace.Summarize(res.Trace)
	for phase, n := range summary.PhaseCounts {
		m.records.WithLabelValues(string(phase)).Add(float64(n))
	}
	m.restarts.Add(float64(summary.Restarts))
	m.flaps.Add(float64(summary.Flaps))
	for _, r := range res.Trace.Records() {
		if r.Phase == trace.PhaseStep || r.Phase == trace.PhaseRestart {
			m.reward.Observe(r.Reward)
		}
	}
}

// outcome labels a result: "error", "completed", or the termination reason.
func outcome(res Result) string {
	switch {
	case res.Err != nil:
		return "error"
	case res.Trace == nil || res.Trace.Termination == trace.TerminationNone:
		return "completed"
	default:
		return string(res.Trace.Termination)
	}
}
