// Package metrics holds the Prometheus instruments shared by the resolver,
// the orchestrator and the HTTP adapters.  All collectors are registered with
// the default registry, so serving promhttp.Handler() is enough to expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ProbesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lyricslink_probes_total",
			Help: "Candidate URL probes by fallback state and result.",
		}, []string{"state", "result"})

	ProbeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lyricslink_probe_duration_seconds",
			Help:    "Latency of candidate URL probes.",
			Buckets: prometheus.DefBuckets,
		})

	ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lyricslink_resolutions_total",
			Help: "Finished resolutions by outcome (resolved, unresolved, error).",
		}, []string{"outcome"})

	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lyricslink_cache_hits_total",
			Help: "Resolutions answered from the history store without probing.",
		})
)

func init() {
	prometheus.MustRegister(
		ProbesTotal,
		ProbeDuration,
		ResolutionsTotal,
		CacheHitsTotal,
	)
}

// Result turns a probe status into a label value.
func Result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
