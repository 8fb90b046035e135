package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/testutils"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/definition"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/history"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMachine(t *testing.T, opts ...turing.Option) *turing.Machine {
	t.Helper()
	m, err := turing.FromDefinition(testutils.Flipper(), opts...)
	require.NoError(t, err)
	return m
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthAndInfo(t *testing.T) {
	h := NewHandler(newMachine(t))

	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"machine":"flipper"`)
}

func TestGetTable(t *testing.T) {
	h := NewHandler(newMachine(t))

	w := do(t, h, "GET", "/table", "")
	require.Equal(t, http.StatusOK, w.Code)

	var def definition.Definition
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &def))
	assert.Equal(t, testutils.Flipper(), def)
}

func TestGetGraph(t *testing.T) {
	h := NewHandler(newMachine(t))

	w := do(t, h, "GET", "/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "digraph G {"))
	assert.Contains(t, w.Header().Get("Content-Type"), "graphviz")

	w = do(t, h, "GET", "/graph?format=mermaid", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph LR"))

	w = do(t, h, "GET", "/graph?format=png", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvaluate_Single(t *testing.T) {
	mgr := history.NewManager(memory.NewStore())
	h := NewHandler(newMachine(t), WithHistory(mgr))

	w := do(t, h, "POST", "/evaluate", `{"input":"01%"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp EvaluateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Outcome)
	assert.Equal(t, domain.ResultAccepted, resp.Outcome.Result)
	assert.Equal(t, "11 ", resp.Outcome.Tape)
	require.NotEmpty(t, resp.RunID)

	w = do(t, h, "GET", "/runs/"+resp.RunID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var run domain.Run
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.Equal(t, "flipper", run.Machine)
	assert.Equal(t, *resp.Outcome, run.Outcome)

	w = do(t, h, "GET", "/runs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["`+resp.RunID+`"]`, w.Body.String())

	w = do(t, h, "DELETE", "/runs/"+resp.RunID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, "GET", "/runs/"+resp.RunID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEvaluate_Batch(t *testing.T) {
	h := NewHandler(newMachine(t))

	w := do(t, h, "POST", "/evaluate", `{"inputs":["0%","00","x"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp EvaluateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Outcomes, 3)
	assert.Equal(t, domain.ResultAccepted, resp.Outcomes[0].Result)
	assert.Equal(t, domain.ResultRejectedHalted, resp.Outcomes[1].Result)
	assert.Equal(t, domain.ResultRejectedStuck, resp.Outcomes[2].Result)
	assert.Empty(t, resp.RunID)
}

func TestEvaluate_BadRequests(t *testing.T) {
	h := NewHandler(newMachine(t))

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"input":`},
		{"neither field", `{}`},
		{"both fields", `{"input":"0","inputs":["1"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/evaluate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestEvaluate_InputTooLarge(t *testing.T) {
	t.Setenv("TURING_MAX_INPUT_SIZE", "4")
	h := NewHandler(newMachine(t))

	w := do(t, h, "POST", "/evaluate", `{"input":"000000"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "input exceeds maximum allowed size")
}

func TestEvaluate_BodyTooLarge(t *testing.T) {
	old := MaxBodySize
	MaxBodySize = 32
	t.Cleanup(func() { MaxBodySize = old })
	h := NewHandler(newMachine(t))

	w := do(t, h, "POST", "/evaluate", `{"input":"`+strings.Repeat("0", 64)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = do(t, h, "POST", "/evaluate", `{"input":"0%"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEvaluate_BatchTooLarge(t *testing.T) {
	old := MaxBatchSize
	MaxBatchSize = 2
	t.Cleanup(func() { MaxBatchSize = old })
	h := NewHandler(newMachine(t))

	w := do(t, h, "POST", "/evaluate", `{"inputs":["0%","1%","0"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "exceeds the limit of 2")

	w = do(t, h, "POST", "/evaluate", `{"inputs":["0%","1%"]}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRuns_HistoryDisabled(t *testing.T) {
	h := NewHandler(newMachine(t))
	w := do(t, h, "GET", "/runs", "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	h := NewHandler(newMachine(t, turing.WithLifecycleHooks(metrics.Hooks())), WithMetrics(reg))

	require.Equal(t, http.StatusOK, do(t, h, "POST", "/evaluate", `{"input":"0%"}`).Code)

	w := do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `turing_evaluations_total{result="accepted"} 1`)
}

func TestCORS_Preflight(t *testing.T) {
	h := NewHandler(newMachine(t))
	w := do(t, h, "OPTIONS", "/evaluate", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubscribeEvents(t *testing.T) {
	handler := NewHandler(newMachine(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wSub := httptest.NewRecorder()
	reqSub := httptest.NewRequest("GET", "/events", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeHTTP(wSub, reqSub)
	}()

	time.Sleep(100 * time.Millisecond) // Wait for subscription to register

	w := do(t, handler, "POST", "/evaluate", `{"input":"0%"}`)
	require.Equal(t, http.StatusOK, w.Code)

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	output := wSub.Body.String()
	assert.Contains(t, output, "event: ping")
	assert.Contains(t, output, "event: outcome")
	assert.Contains(t, output, `"result":"accepted"`)
}

func TestStreamManager_DropsUseConfiguredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	sm := newServer(newMachine(t), WithLogger(logger)).Streams
	ch, cancel := sm.Subscribe()
	defer cancel()

	for i := 0; i < cap(ch)+1; i++ {
		sm.Broadcast("x")
	}
	assert.Len(t, ch, cap(ch))
	assert.Contains(t, buf.String(), "Client buffer full")
}
