// Package metrics exposes Prometheus collectors for background jobs.
package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "loyalty"

var (
	sweepRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "presence_sweep",
		Name:      "runs_total",
		Help:      "Presence sweep runs by sweep and outcome.",
	}, []string{"sweep", "outcome"})

	sweepRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "presence_sweep",
		Name:      "records_total",
		Help:      "Presence records handled by sweeps, by stage (matched, cleared, published, skipped).",
	}, []string{"sweep", "stage"})

	sweepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "presence_sweep",
		Name:      "duration_seconds",
		Help:      "Duration of presence sweep runs.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"sweep"})
)

// SweepCounts is what one sweep run reports.
type SweepCounts struct {
	Matched   int
	Cleared   int64
	Published int
	Skipped   int
}

// ObserveSweep records the outcome of one sweep run.
func ObserveSweep(sweep string, counts SweepCounts, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	sweepRuns.WithLabelValues(sweep, outcome).Inc()
	sweepRecords.WithLabelValues(sweep, "matched").Add(float64(counts.Matched))
	sweepRecords.WithLabelValues(sweep, "cleared").Add(float64(counts.Cleared))
	sweepRecords.WithLabelValues(sweep, "published").Add(float64(counts.Published))
	sweepRecords.WithLabelValues(sweep, "skipped").Add(float64(counts.Skipped))
	sweepDuration.WithLabelValues(sweep).Observe(elapsed.Seconds())
}

// Handler serves the default registry for gin.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
