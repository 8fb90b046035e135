package turing

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	engine "github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/definition"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// GraphFormat selects the output of Machine.Graph.
type GraphFormat string

const (
	GraphDOT     GraphFormat = "dot"
	GraphMermaid GraphFormat = "mermaid"
)

// GraphOverlay highlights visited and current states in Mermaid output.
type GraphOverlay = graph.GraphOverlay

// Machine is the high-level entry point of the library.
// It pairs an immutable transition table with an engine and is safe for concurrent use.
type Machine struct {
	Name string

	table      *domain.Table
	engine     *engine.Engine
	engineOpts []engine.EngineOption
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	parallel   int
}

// Option defines a functional option for configuring the Machine.
type Option func(*Machine)

// WithName labels the machine in logs and recorded runs.
func WithName(name string) Option {
	return func(m *Machine) {
		m.Name = name
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithMaxSteps overrides the step cutoff. Zero or a negative value disables it.
func WithMaxSteps(n int) Option {
	return func(m *Machine) {
		m.engineOpts = append(m.engineOpts, engine.WithMaxSteps(n))
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls accumulate.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = m.hooks.Merge(hooks)
	}
}

// WithParallelism bounds the number of concurrent evaluations in EvaluateAll.
// It defaults to GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(m *Machine) {
		m.parallel = n
	}
}

// New wraps an already built table.
func New(table *domain.Table, opts ...Option) (*Machine, error) {
	if table == nil {
		return nil, fmt.Errorf("table is required")
	}

	m := &Machine{
		table:    table,
		parallel: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.logger == nil {
		m.logger = logging.NewNop()
	}
	if m.Name != "" {
		m.logger = m.logger.With("machine", m.Name)
	}

	engineOpts := []engine.EngineOption{
		engine.WithLogger(m.logger),
		engine.WithLifecycleHooks(m.hooks),
	}
	m.engine = engine.NewEngine(append(engineOpts, m.engineOpts...)...)

	return m, nil
}

// FromDefinition validates def and wraps the resulting table.
// The definition's name is used unless WithName overrides it.
func FromDefinition(def definition.Definition, opts ...Option) (*Machine, error) {
	table, err := def.Build()
	if err != nil {
		return nil, err
	}
	return New(table, append([]Option{WithName(def.Name)}, opts...)...)
}

// Open loads a definition file (bulk, YAML or JSON, chosen by extension).
func Open(path string, opts ...Option) (*Machine, error) {
	def, err := definition.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return FromDefinition(def, opts...)
}

// Load fetches the named definition from loader.
func Load(ctx context.Context, loader ports.TableLoader, name string, opts ...Option) (*Machine, error) {
	def, err := loader.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if def.Name == "" {
		def.Name = name
	}
	return FromDefinition(def, opts...)
}

// Table returns the underlying transition table.
func (m *Machine) Table() *domain.Table {
	return m.table
}

// Definition returns the serialisable form of the table.
func (m *Machine) Definition() definition.Definition {
	return definition.FromTable(m.Name, m.table)
}

// MaxSteps returns the effective step cutoff (0 means unbounded).
func (m *Machine) MaxSteps() int {
	return m.engine.MaxSteps()
}

// Evaluate runs one input. Blank cells are spaces; user-facing placeholders
// must already be translated (see validation.Input).
func (m *Machine) Evaluate(ctx context.Context, input string) (domain.Outcome, error) {
	return m.engine.Evaluate(ctx, m.table, input)
}

// EvaluateAll runs every input concurrently and returns the outcomes in input order.
// The first error (a cancelled context) aborts the batch.
func (m *Machine) EvaluateAll(ctx context.Context, inputs []string) ([]domain.Outcome, error) {
	outcomes := make([]domain.Outcome, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	if m.parallel > 0 {
		g.SetLimit(m.parallel)
	}
	for i, input := range inputs {
		g.Go(func() error {
			out, err := m.engine.Evaluate(ctx, m.table, input)
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// Graph renders the table in the requested format.
func (m *Machine) Graph(format GraphFormat) (string, error) {
	switch format {
	case GraphDOT, "":
		return ExportDOT(m.table), nil
	case GraphMermaid:
		return ExportMermaid(m.table, nil), nil
	default:
		return "", fmt.Errorf("unknown graph format %q", format)
	}
}

// ExportDOT renders table as a Graphviz digraph.
func ExportDOT(table *domain.Table) string {
	return graph.GenerateDOT(table)
}

// ExportMermaid renders table as a Mermaid flowchart, optionally highlighting
// the states of a run.
func ExportMermaid(table *domain.Table, overlay *GraphOverlay) string {
	return graph.GenerateMermaid(table, overlay)
}
