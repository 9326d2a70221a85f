// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for command dispatch metrics.
const (
	StatusSuccess       = "success"
	StatusError         = "error"
	StatusNotFound      = "not_found"
	StatusArgumentCount = "argument_count"
)

// unknownCommandLabel replaces unmatched names so typos cannot grow label cardinality.
const unknownCommandLabel = "<unknown>"

// CommandDispatches is the counter for dispatched command lines.
// Use RegisterMetrics to register this with a Prometheus registry.
var CommandDispatches = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "examplemodule_command_dispatches_total",
		Help: "Total number of dispatched console commands",
	},
	[]string{"router", "command", "source", "status"},
)

// CommandDuration is the histogram for command handler duration.
// Use RegisterMetrics to register this with a Prometheus registry.
var CommandDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "examplemodule_command_duration_seconds",
		Help:    "Console command dispatch duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"router", "command"},
)

// RegisterMetrics registers command package metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(CommandDispatches)
	reg.MustRegister(CommandDuration)
}

// RecordCommandDispatch increments the dispatch counter with the given attributes.
func RecordCommandDispatch(router, command, source, status string) {
	CommandDispatches.WithLabelValues(router, command, source, status).Inc()
}

// RecordCommandDuration records how long a dispatch took.
func RecordCommandDuration(router, command string, duration time.Duration) {
	CommandDuration.WithLabelValues(router, command).Observe(duration.Seconds())
}
