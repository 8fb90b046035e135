package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/definition"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/history"
	"github.com/aretw0/turing/pkg/validation"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// Machine is the part of turing.Machine the server needs.
type Machine interface {
	Evaluate(ctx context.Context, input string) (domain.Outcome, error)
	EvaluateAll(ctx context.Context, inputs []string) ([]domain.Outcome, error)
	Definition() definition.Definition
	Graph(format turing.GraphFormat) (string, error)
}

// EvaluateArgs are the arguments of the evaluate tool.
type EvaluateArgs struct {
	Input string `mapstructure:"input"`
}

// BatchArgs are the arguments of the evaluate_batch tool.
type BatchArgs struct {
	Inputs []string `mapstructure:"inputs"`
}

// GraphArgs are the arguments of the export_graph tool.
type GraphArgs struct {
	Format string `mapstructure:"format"`
}

// EvaluateResult is the structured output of the evaluate tool.
type EvaluateResult struct {
	Outcome     domain.Outcome `json:"outcome" jsonschema_description:"Final configuration and result of the run"`
	Description string         `json:"description" jsonschema_description:"Human readable explanation of the result"`
	RunID       string         `json:"run_id,omitempty" jsonschema_description:"ID of the recorded run, when history is enabled"`
}

// BatchResult is the structured output of the evaluate_batch tool.
type BatchResult struct {
	Outcomes []domain.Outcome `json:"outcomes" jsonschema_description:"One outcome per input, in input order"`
}

// Server wraps a machine and exposes it as an MCP server.
type Server struct {
	machine   Machine
	history   *history.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithHistory records every evaluate call.
func WithHistory(h *history.Manager) Option {
	return func(s *Server) {
		s.history = h
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(machine Machine, opts ...Option) *Server {
	s := &Server{
		machine:   machine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("turing-mcp", strings.TrimSpace(turing.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and blocks until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	evaluateTool := mcp.NewTool("evaluate",
		mcp.WithDescription("Run the Turing machine on one input string and report whether it is accepted. Use '%' for blank cells."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Initial tape contents")),
		mcp.WithOutputSchema[EvaluateResult](),
	)
	s.mcpServer.AddTool(evaluateTool, mcp.NewStructuredToolHandler(s.handleEvaluate))

	batchTool := mcp.NewTool("evaluate_batch",
		mcp.WithDescription("Run the Turing machine on several inputs concurrently. Use '%' for blank cells."),
		mcp.WithArray("inputs", mcp.Required(), mcp.WithStringItems(), mcp.Description("Initial tape contents, one per run")),
		mcp.WithOutputSchema[BatchResult](),
	)
	s.mcpServer.AddTool(batchTool, mcp.NewStructuredToolHandler(s.handleEvaluateBatch))

	s.mcpServer.AddTool(mcp.NewTool("export_graph",
		mcp.WithDescription("Render the transition table as a directed graph."),
		mcp.WithString("format", mcp.Enum("dot", "mermaid"), mcp.Description("Graph syntax (default: dot)")),
	), s.handleExportGraph)

	s.mcpServer.AddTool(mcp.NewTool("describe_table",
		mcp.WithDescription("Get the machine definition: start state, accepting states and transition rules."),
	), s.handleDescribeTable)
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (EvaluateResult, error) {
	var in EvaluateArgs
	if err := mapstructure.Decode(args, &in); err != nil {
		return EvaluateResult{}, fmt.Errorf("invalid arguments: %w", err)
	}

	clean, err := validation.Input(in.Input)
	if err != nil {
		s.logger.Warn("MCP Evaluate: Input rejected", "err", err, "size", len(in.Input))
		return EvaluateResult{}, fmt.Errorf("input rejected: %w", err)
	}

	out, err := s.machine.Evaluate(ctx, clean)
	if err != nil {
		return EvaluateResult{}, fmt.Errorf("evaluate failed: %w", err)
	}

	res := EvaluateResult{Outcome: out, Description: out.Result.Description()}
	if s.history != nil {
		run, err := s.history.Record(ctx, s.machine.Definition().Name, out)
		if err != nil {
			s.logger.Error("MCP Evaluate: Failed to record run", "err", err)
		} else {
			res.RunID = run.ID
		}
	}
	return res, nil
}

func (s *Server) handleEvaluateBatch(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (BatchResult, error) {
	var in BatchArgs
	if err := mapstructure.Decode(args, &in); err != nil {
		return BatchResult{}, fmt.Errorf("invalid arguments: %w", err)
	}

	inputs := make([]string, len(in.Inputs))
	for i, raw := range in.Inputs {
		clean, err := validation.Input(raw)
		if err != nil {
			return BatchResult{}, fmt.Errorf("input %d rejected: %w", i, err)
		}
		inputs[i] = clean
	}

	outs, err := s.machine.EvaluateAll(ctx, inputs)
	if err != nil {
		return BatchResult{}, fmt.Errorf("evaluate failed: %w", err)
	}
	return BatchResult{Outcomes: outs}, nil
}

func (s *Server) handleExportGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in GraphArgs
	if err := mapstructure.Decode(request.GetArguments(), &in); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	text, err := s.machine.Graph(turing.GraphFormat(in.Format))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleDescribeTable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(s.machine.Definition())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("turing://table", "Transition Table",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.machine.Definition())
		if err != nil {
			return nil, fmt.Errorf("failed to encode table: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "turing://table",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource("turing://graph", "Transition Graph (DOT)",
		mcp.WithMIMEType("text/vnd.graphviz"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := s.machine.Graph(turing.GraphDOT)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "turing://graph",
				MIMEType: "text/vnd.graphviz",
				Text:     text,
			},
		}, nil
	})
}
