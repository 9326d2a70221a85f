// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import "time"

// MetricsRecorder tracks command metrics for a single dispatch.
type MetricsRecorder struct {
	startTime     time.Time
	router        string
	commandName   string
	commandSource string
	status        string
}

// NewMetricsRecorder initializes a recorder for a single dispatch on router.
func NewMetricsRecorder(router string) *MetricsRecorder {
	return &MetricsRecorder{startTime: time.Now(), router: router}
}

// SetCommandName sets the command name for metrics.
func (m *MetricsRecorder) SetCommandName(name string) {
	m.commandName = name
}

// SetCommandSource sets the command source for metrics.
func (m *MetricsRecorder) SetCommandSource(source string) {
	m.commandSource = source
}

// SetStatus sets the dispatch status for metrics.
func (m *MetricsRecorder) SetStatus(status string) {
	m.status = status
}

// Record writes the collected metrics if command name is available.
func (m *MetricsRecorder) Record() {
	if m.commandName == "" {
		return
	}

	RecordCommandDispatch(m.router, m.commandName, m.commandSource, m.status)
	RecordCommandDuration(m.router, m.commandName, time.Since(m.startTime))
}
