package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "steamwatch"

// Cycle results
const (
	CycleOK      = "ok"
	CyclePartial = "partial"
	CycleFailed  = "failed"
	CycleSkipped = "skipped"
)

// Broadcast outcomes
const (
	BroadcastSent    = "sent"
	BroadcastNothing = "nothing"
	BroadcastFailed  = "failed"
	BroadcastPanic   = "panic"
)

// Metrics records poll and broadcast activity. A nil *Metrics discards everything.
type Metrics struct {
	cycles           *prometheus.CounterVec
	cycleDuration    prometheus.Histogram
	upstreamFailures prometheus.Counter
	broadcasts       *prometheus.CounterVec
	trackedPlayers   prometheus.Gauge
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_cycles_total",
			Help:      "Poll cycles by result.",
		}, []string{"result"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_cycle_duration_seconds",
			Help:      "Wall time of completed poll cycles.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		upstreamFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_failures_total",
			Help:      "Poll cycles where the Steam API could not return every player.",
		}),
		broadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcasts_total",
			Help:      "Per-group broadcast decisions by outcome.",
		}, []string{"outcome"}),
		trackedPlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tracked_players",
			Help:      "Distinct Steam IDs bound across all groups.",
		}),
	}

	for _, c := range []prometheus.Collector{m.cycles, m.cycleDuration, m.upstreamFailures, m.broadcasts, m.trackedPlayers} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Handler serves the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) CycleFinished(result string, took time.Duration) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(result).Inc()
	if result != CycleSkipped {
		m.cycleDuration.Observe(took.Seconds())
	}
}

func (m *Metrics) UpstreamFailure() {
	if m == nil {
		return
	}
	m.upstreamFailures.Inc()
}

func (m *Metrics) Broadcast(outcome string) {
	if m == nil {
		return
	}
	m.broadcasts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) TrackedPlayers(n int) {
	if m == nil {
		return
	}
	m.trackedPlayers.Set(float64(n))
}
