// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dispatchCount(router, cmd, source, status string) float64 {
	return testutil.ToFloat64(CommandDispatches.With(prometheus.Labels{
		"router":  router,
		"command": cmd,
		"source":  source,
		"status":  status,
	}))
}

func TestRouter_RecordsDispatchMetrics(t *testing.T) {
	r := NewRouter(WithName("metrics-test"), WithStrictArguments())
	require.NoError(t, r.Register(Command{Name: "ok", Handler: noopHandler, Source: "test"}))
	require.NoError(t, r.Register(Command{Name: "bad", Handler: func(_ context.Context, _ *Invocation) error {
		return errors.New("nope")
	}, Source: "test"}))
	require.NoError(t, r.Register(Command{Name: "needs", Args: []ArgumentSpec{{Name: "x"}}, Handler: noopHandler, Source: "test"}))

	okBefore := dispatchCount("metrics-test", "ok", "test", StatusSuccess)
	badBefore := dispatchCount("metrics-test", "bad", "test", StatusError)
	needsBefore := dispatchCount("metrics-test", "needs", "test", StatusArgumentCount)
	unknownBefore := dispatchCount("metrics-test", unknownCommandLabel, "", StatusNotFound)

	r.Dispatch(context.Background(), "ok")
	r.Dispatch(context.Background(), "bad")
	r.Dispatch(context.Background(), "needs")
	r.Dispatch(context.Background(), "whatever")
	r.Dispatch(context.Background(), "whatever-else")

	assert.InDelta(t, okBefore+1, dispatchCount("metrics-test", "ok", "test", StatusSuccess), 0)
	assert.InDelta(t, badBefore+1, dispatchCount("metrics-test", "bad", "test", StatusError), 0)
	assert.InDelta(t, needsBefore+1, dispatchCount("metrics-test", "needs", "test", StatusArgumentCount), 0)
	assert.InDelta(t, unknownBefore+2, dispatchCount("metrics-test", unknownCommandLabel, "", StatusNotFound), 0)
}

func TestMetricsRecorder_SkipsWithoutCommandName(t *testing.T) {
	before := testutil.CollectAndCount(CommandDispatches)

	rec := NewMetricsRecorder("skip-test")
	rec.SetStatus(StatusSuccess)
	rec.Record()

	assert.Equal(t, before, testutil.CollectAndCount(CommandDispatches))
}

func TestRegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { RegisterMetrics(reg) })

	RecordCommandDispatch("r", "c", "s", StatusSuccess)
	RecordCommandDuration("r", "c", 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "examplemodule_command_dispatches_total")
	assert.Contains(t, names, "examplemodule_command_duration_seconds")
}
