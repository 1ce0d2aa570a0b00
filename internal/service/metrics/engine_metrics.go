package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	PassDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "confluence",
			Subsystem: "engine",
			Name:      "pass_duration_seconds",
			Help:      "Duration of one full scoring pass",
			Buckets:   prometheus.DefBuckets,
		},
	)

	FamilyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "confluence",
			Subsystem: "engine",
			Name:      "family_duration_seconds",
			Help:      "Duration of one indicator family computation",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"family"},
	)

	DegradedSubIndicators = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "confluence",
			Subsystem: "engine",
			Name:      "degraded_subindicators_total",
			Help:      "Sub-indicators that fell back to neutral",
		},
		[]string{"family"},
	)

	FamilyScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "confluence",
			Subsystem: "engine",
			Name:      "family_score",
			Help:      "Latest aggregated family score",
		},
		[]string{"family"},
	)

	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "confluence",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Indicator cache hits",
		},
	)

	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "confluence",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Indicator cache misses (including degraded backends)",
		},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			PassDuration,
			FamilyDuration,
			DegradedSubIndicators,
			FamilyScore,
			CacheHits,
			CacheMisses,
		)
	})
}
