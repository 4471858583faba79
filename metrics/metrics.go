// Package metrics wires the simulator's Prometheus instrumentation: swap
// latency, hydration fetch/retry counts, and tick-index size, following the
// Registerer-injection pattern used throughout the teacher repo (see
// differ.StateDifferConfig.Registry, chains/ethereum.Dial).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds every counter/histogram the simulator emits. Zero value is
// not usable; construct with New.
type Metrics struct {
	SwapDuration     prometheus.Histogram
	SwapSteps        prometheus.Histogram
	HydrationFetches prometheus.Counter
	HydrationRetries prometheus.Counter
	HydrationFaults  *prometheus.CounterVec
	TickIndexSize    prometheus.Gauge
	BitmapWordsKnown prometheus.Gauge
}

// New registers and returns a Metrics bound to reg. reg must not be nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SwapDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "poolsim",
			Subsystem: "swap",
			Name:      "duration_seconds",
			Help:      "Wall-clock time spent executing a single Trade call, including any resumes.",
			Buckets:   prometheus.DefBuckets,
		}),
		SwapSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "poolsim",
			Subsystem: "swap",
			Name:      "steps_total",
			Help:      "Number of tick crossings a single Trade call performed.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128},
		}),
		HydrationFetches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "poolsim",
			Subsystem: "hydration",
			Name:      "fetches_total",
			Help:      "Number of external fetches issued by the hydration controller.",
		}),
		HydrationRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "poolsim",
			Subsystem: "hydration",
			Name:      "retries_total",
			Help:      "Number of resume attempts after a recoverable tick fault.",
		}),
		HydrationFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poolsim",
			Subsystem: "hydration",
			Name:      "faults_total",
			Help:      "Recoverable tick faults observed, by kind.",
		}, []string{"kind"}),
		TickIndexSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "poolsim",
			Subsystem: "pool",
			Name:      "tick_index_size",
			Help:      "Number of ticks currently held in a pool's TickIndex.",
		}),
		BitmapWordsKnown: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "poolsim",
			Subsystem: "pool",
			Name:      "bitmap_words_known",
			Help:      "Number of bitmap words currently fetched for a pool.",
		}),
	}

	reg.MustRegister(
		m.SwapDuration,
		m.SwapSteps,
		m.HydrationFetches,
		m.HydrationRetries,
		m.HydrationFaults,
		m.TickIndexSize,
		m.BitmapWordsKnown,
	)

	return m
}
