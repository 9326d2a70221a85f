// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/holomush/examplemodule/internal/command"
)

var consoleOutputFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "examplemodule_console_output_failures_total",
		Help: "Total number of console output write failures by topic",
	},
	[]string{"topic"},
)

// RecordConsoleOutputFailure counts a console write that failed while
// rendering output for topic.
func RecordConsoleOutputFailure(topic string) {
	consoleOutputFailures.WithLabelValues(topic).Inc()
}

// Metrics holds the region host gauges and counters.
type Metrics struct {
	ClientsTotal  *prometheus.CounterVec
	RegionsActive prometheus.Gauge
}

// NewMetrics registers the region host metrics, the console failure counter
// and the command router metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ClientsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "examplemodule_clients_total",
			Help: "Total number of client arrivals by region",
		}, []string{"region"}),
		RegionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "examplemodule_regions_active",
			Help: "Number of regions currently hosted",
		}),
	}
	reg.MustRegister(m.ClientsTotal, m.RegionsActive, consoleOutputFailures)
	command.RegisterMetrics(reg)
	return m
}
