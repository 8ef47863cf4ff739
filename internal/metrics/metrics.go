// Package metrics exposes the pipeline counters to prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Processed counts finished webmentions by protocol and result code.
	Processed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "webmention",
		Name:      "processed_total",
		Help:      "Webmentions processed, by protocol and result.",
	}, []string{"protocol", "result"})

	// Duration observes the wall time of one pipeline run.
	Duration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "webmention",
		Name:      "process_seconds",
		Help:      "Time spent processing one webmention.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	// SideEffectFailures counts swallowed notifier and archive failures.
	SideEffectFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "webmention",
		Name:      "side_effect_failures_total",
		Help:      "Best effort calls that failed.",
	}, []string{"task"})
)
