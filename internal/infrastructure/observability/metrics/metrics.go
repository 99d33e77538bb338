// Package metrics holds the prometheus instrumentation for the ad service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all prometheus collectors for the ad service.
type Metrics struct {
	registry *prometheus.Registry

	// Serving metrics
	AdsServed   *prometheus.CounterVec // by provider
	AdsSkipped  *prometheus.CounterVec // by skip reason
	AdsFailed   prometheus.Counter
	GateResults *prometheus.CounterVec // by credits gate decision

	// Click metrics
	ClicksRecorded *prometheus.CounterVec // by provider
	ClicksRejected *prometheus.CounterVec // by rejection reason
	RewardsIssued  prometheus.Counter

	// Revenue sync metrics
	RevenueBatches prometheus.Counter
}

// New creates the service metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		AdsServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adserve",
			Name:      "ads_served_total",
			Help:      "Total ads served, by provider",
		}, []string{"provider"}),
		AdsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adserve",
			Name:      "ads_skipped_total",
			Help:      "Total ad requests skipped for entitled users, by reason",
		}, []string{"reason"}),
		AdsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "adserve",
			Name:      "ads_failed_total",
			Help:      "Total ad requests that failed to produce an ad",
		}),
		GateResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adserve",
			Name:      "credits_gate_total",
			Help:      "Credits gate outcomes, by decision",
		}, []string{"decision"}),
		ClicksRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adserve",
			Name:      "clicks_recorded_total",
			Help:      "Total clicks recorded, by provider",
		}, []string{"provider"}),
		ClicksRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adserve",
			Name:      "clicks_rejected_total",
			Help:      "Total clicks rejected before persistence, by reason",
		}, []string{"reason"}),
		RewardsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "adserve",
			Name:      "credit_rewards_issued_total",
			Help:      "Total credit rewards successfully issued on clicks",
		}),
		RevenueBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "adserve",
			Name:      "revenue_batches_synced_total",
			Help:      "Total provider revenue batches upserted by the sync worker",
		}),
	}

	registry.MustRegister(
		m.AdsServed, m.AdsSkipped, m.AdsFailed, m.GateResults,
		m.ClicksRecorded, m.ClicksRejected, m.RewardsIssued,
		m.RevenueBatches,
	)

	return m
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
