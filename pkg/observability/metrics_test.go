package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/internal/testutils"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	engine := runtime.NewEngine(runtime.WithLifecycleHooks(m.Hooks()))
	table := testutils.FlipperTable(t)
	ctx := context.Background()

	out, err := engine.Evaluate(ctx, table, "01 ")
	require.NoError(t, err)
	require.Equal(t, domain.ResultAccepted, out.Result)

	out, err = engine.Evaluate(ctx, table, "00")
	require.NoError(t, err)
	require.Equal(t, domain.ResultRejectedHalted, out.Result)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("rejected_halted")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.StateVisits.WithLabelValues("q0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StateVisits.WithLabelValues("qf")))

	count, err := testutil.GatherAndCount(reg, "turing_evaluation_steps")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_NilRegistry(t *testing.T) {
	m := observability.NewMetrics(nil)
	m.Hooks().OnHalt(context.Background(), &domain.HaltEvent{Outcome: domain.Outcome{Result: domain.ResultRejectedStuck}})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("rejected_stuck")))
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	engine := runtime.NewEngine(runtime.WithLifecycleHooks(observability.LogHooks(logger)))

	_, err := engine.Evaluate(context.Background(), testutils.FlipperTable(t), "0 ")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "msg=transition")
	assert.Contains(t, out, "rule=0:1,R")
	assert.Contains(t, out, "result=accepted")
	assert.Contains(t, out, "halt=accepted")
}
