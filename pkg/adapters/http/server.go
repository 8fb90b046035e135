package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/definition"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/history"
	"github.com/aretw0/turing/pkg/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MaxBodySize bounds the POST /evaluate request body in bytes.
	MaxBodySize int64 = 8 << 20
	// MaxBatchSize bounds the number of inputs in one batch request.
	MaxBatchSize = 1000
)

// Machine is the part of turing.Machine the server needs.
type Machine interface {
	Evaluate(ctx context.Context, input string) (domain.Outcome, error)
	EvaluateAll(ctx context.Context, inputs []string) ([]domain.Outcome, error)
	Definition() definition.Definition
	Graph(format turing.GraphFormat) (string, error)
}

// EvaluateRequest is the body of POST /evaluate. Exactly one of Input or
// Inputs is expected; '%' in either stands for the blank symbol.
type EvaluateRequest struct {
	Input  *string  `json:"input,omitempty"`
	Inputs []string `json:"inputs,omitempty"`
}

// EvaluateResponse carries one outcome, or a batch.
type EvaluateResponse struct {
	RunID    string           `json:"run_id,omitempty"`
	Outcome  *domain.Outcome  `json:"outcome,omitempty"`
	Outcomes []domain.Outcome `json:"outcomes,omitempty"`
}

// Server exposes one machine over HTTP.
type Server struct {
	Machine Machine
	History *history.Manager
	Streams *StreamManager

	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithHistory records every single evaluation and enables the /runs routes.
func WithHistory(h *history.Manager) Option {
	return func(s *Server) {
		s.History = h
	}
}

// WithMetrics serves the gatherer's collectors on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func newServer(machine Machine, opts ...Option) *Server {
	s := &Server{
		Machine: machine,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates a new HTTP handler for the machine.
func NewHandler(machine Machine, opts ...Option) http.Handler {
	s := newServer(machine, opts...)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/table", s.GetTable)
	r.Get("/graph", s.GetGraph)
	r.Post("/evaluate", s.Evaluate)
	r.Get("/events", s.SubscribeEvents)

	r.Route("/runs", func(r chi.Router) {
		r.Get("/", s.ListRuns)
		r.Get("/{id}", s.GetRun)
		r.Delete("/{id}", s.DeleteRun)
	})

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "turing-http",
		"version": strings.TrimSpace(turing.Version),
		"machine": s.Machine.Definition().Name,
	})
}

// GetTable handles the GET /table request.
func (s *Server) GetTable(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Machine.Definition())
}

// GetGraph handles the GET /graph request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	format := turing.GraphFormat(r.URL.Query().Get("format"))
	text, err := s.Machine.Graph(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	contentType := "text/vnd.graphviz; charset=utf-8"
	if format == turing.GraphMermaid {
		contentType = "text/plain; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write([]byte(text))
}

// Evaluate handles the POST /evaluate request.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var body EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			s.logger.Warn("Evaluate: Request body too large", "limit", tooLarge.Limit)
			return
		}
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Evaluate: Invalid request body", "err", err)
		return
	}

	switch {
	case body.Input != nil && body.Inputs == nil:
		s.evaluateOne(w, r, *body.Input)
	case body.Input == nil && body.Inputs != nil:
		s.evaluateBatch(w, r, body.Inputs)
	default:
		http.Error(w, "Exactly one of 'input' or 'inputs' is required", http.StatusBadRequest)
	}
}

func (s *Server) evaluateOne(w http.ResponseWriter, r *http.Request, raw string) {
	input, err := validation.Input(raw)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.logger.Warn("Evaluate: Input rejected", "err", err, "size", len(raw))
		return
	}

	out, err := s.Machine.Evaluate(r.Context(), input)
	if err != nil {
		s.evaluationFailed(w, err)
		return
	}

	resp := EvaluateResponse{Outcome: &out}
	if s.History != nil {
		run, err := s.History.Record(r.Context(), s.Machine.Definition().Name, out)
		if err != nil {
			s.logger.Error("Evaluate: Failed to record run", "err", err)
		} else {
			resp.RunID = run.ID
		}
	}

	s.broadcast(out)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) evaluateBatch(w http.ResponseWriter, r *http.Request, raw []string) {
	if len(raw) > MaxBatchSize {
		http.Error(w, fmt.Sprintf("Batch of %d inputs exceeds the limit of %d", len(raw), MaxBatchSize), http.StatusBadRequest)
		s.logger.Warn("Evaluate: Batch rejected", "size", len(raw), "limit", MaxBatchSize)
		return
	}
	inputs := make([]string, len(raw))
	for i, in := range raw {
		clean, err := validation.Input(in)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid input %d: %v", i, err), http.StatusBadRequest)
			return
		}
		inputs[i] = clean
	}

	outs, err := s.Machine.EvaluateAll(r.Context(), inputs)
	if err != nil {
		s.evaluationFailed(w, err)
		return
	}
	for _, out := range outs {
		s.broadcast(out)
	}
	s.writeJSON(w, http.StatusOK, EvaluateResponse{Outcomes: outs})
}

func (s *Server) evaluationFailed(w http.ResponseWriter, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		http.Error(w, "Evaluation cancelled", http.StatusServiceUnavailable)
		return
	}
	http.Error(w, fmt.Sprintf("Evaluate error: %v", err), http.StatusInternalServerError)
	s.logger.Error("Evaluate failed", "err", err)
}

// ListRuns handles the GET /runs request.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.historyEnabled(w) {
		return
	}
	ids, err := s.History.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetRun handles the GET /runs/{id} request.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	if !s.historyEnabled(w) {
		return
	}
	run, err := s.History.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

// DeleteRun handles the DELETE /runs/{id} request.
func (s *Server) DeleteRun(w http.ResponseWriter, r *http.Request) {
	if !s.historyEnabled(w) {
		return
	}
	if err := s.History.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) historyEnabled(w http.ResponseWriter) bool {
	if s.History == nil {
		http.Error(w, "Run history is disabled", http.StatusNotImplemented)
		return false
	}
	return true
}

func (s *Server) broadcast(out domain.Outcome) {
	if bytes, err := json.Marshal(out); err == nil {
		s.Streams.Broadcast(string(bytes))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
