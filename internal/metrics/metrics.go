// Package metrics holds the dashboard's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "space_dashboard"

// Upstream request outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Cache lookups answered from the local store.",
		},
		[]string{"ns"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Cache lookups that required an upstream fetch.",
		},
		[]string{"ns"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Requests sent to third-party providers.",
		},
		[]string{"provider", "outcome"},
	)

	TranslationFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translation_fallbacks_total",
			Help:      "Fields that kept the English text because translation failed.",
		},
		[]string{"lang", "field"},
	)
)

// ObserveUpstream counts one provider request.
func ObserveUpstream(provider string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	UpstreamRequests.WithLabelValues(provider, outcome).Inc()
}
