// Package metrics holds the prometheus instrumentation for the Handoff
// core, registered the same way weed/stats registers SeaweedFS's own
// metrics: package-level vectors against a shared registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	Namespace = "Handoff"
)

var (
	Gather = prometheus.NewRegistry()

	VerifyRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "verifier",
			Name:      "requests_total",
			Help:      "Count of verification requests dispatched, by transport and outcome.",
		}, []string{"transport", "outcome"})

	VerifyLatencySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "verifier",
			Name:      "latency_seconds",
			Help:      "Latency of a single verification round trip to the Authenticator.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"transport"})

	ChannelRebuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "verifier",
			Name:      "channel_rebuilds_total",
			Help:      "Count of gRPC channel rebuilds triggered by a config change, by outcome.",
		}, []string{"outcome"})

	SigningKeyFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "skf",
			Name:      "fetches_total",
			Help:      "Count of streaming signing key fetches, by outcome.",
		}, []string{"outcome"})

	StoreQueryCommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "storequery",
			Name:      "commands_total",
			Help:      "Count of StoreQuery side-channel commands dispatched, by command and outcome.",
		}, []string{"command", "outcome"})
)

func init() {
	Gather.MustRegister(
		VerifyRequestsTotal,
		VerifyLatencySeconds,
		ChannelRebuildsTotal,
		SigningKeyFetchesTotal,
		StoreQueryCommandsTotal,
	)
}
