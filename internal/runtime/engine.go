package runtime

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
)

const (
	// DefaultMaxSteps bounds a single evaluation unless overridden.
	DefaultMaxSteps = 1_000_000
	// EnvMaxSteps overrides DefaultMaxSteps.
	EnvMaxSteps = "TURING_MAX_STEPS"

	// cancelCheckInterval is how many steps run between context checks.
	cancelCheckInterval = 1024
)

// Engine runs the step loop of a single-tape machine. It holds no per-run
// state, so one Engine may evaluate many inputs concurrently.
type Engine struct {
	maxSteps int
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithMaxSteps sets the step cutoff. Zero or a negative value disables it.
func WithMaxSteps(n int) EngineOption {
	return func(e *Engine) {
		e.maxSteps = n
	}
}

// WithLogger sets the logger used for step tracing at debug level.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// NewEngine creates an engine. The step cutoff defaults to DefaultMaxSteps,
// or to $TURING_MAX_STEPS when set.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		maxSteps: maxStepsFromEnv(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxSteps returns the configured cutoff (0 means unbounded).
func (e *Engine) MaxSteps() int {
	if e.maxSteps < 0 {
		return 0
	}
	return e.maxSteps
}

// Evaluate runs input on table and classifies the result.
// The only error returned is the context's, when it is cancelled mid-run.
func (e *Engine) Evaluate(ctx context.Context, table *domain.Table, input string) (domain.Outcome, error) {
	tape := []rune(input)
	state := table.Start()
	position := 0
	steps := 0
	halt := domain.HaltEmptyTape

	finish := func(result domain.Result, halt domain.Halt) domain.Outcome {
		out := domain.Outcome{
			Input:      input,
			Result:     result,
			Halt:       halt,
			Steps:      steps,
			FinalState: state,
			Tape:       string(tape),
			Position:   position,
		}
		e.logger.Debug("evaluation halted",
			"result", out.Result,
			"halt", out.Halt,
			"steps", out.Steps,
			"state", out.FinalState,
		)
		if e.hooks.OnHalt != nil {
			e.hooks.OnHalt(ctx, &domain.HaltEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventHalt},
				Outcome:   out,
			})
		}
		return out
	}

	for position >= 0 && position < len(tape) {
		t, ok := table.Lookup(state, tape[position])
		if !ok {
			halt = domain.HaltStuck
			break
		}
		// The bound only cuts a run that still has a step to take.
		if e.maxSteps > 0 && steps >= e.maxSteps {
			return finish(domain.ResultStepLimitExceeded, domain.HaltStepLimit), nil
		}

		tape[position] = t.Write()
		state = t.To()
		position += t.Move().Offset()
		steps++

		e.logger.Debug("step",
			"step", steps,
			"rule", t.String(),
			"position", position,
		)
		if e.hooks.OnStep != nil {
			e.hooks.OnStep(ctx, &domain.StepEvent{
				EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventStep},
				Step:       steps,
				Transition: t,
				Position:   position,
			})
		}

		if table.IsAccepting(state) {
			return finish(domain.ResultAccepted, domain.HaltAccepted), nil
		}
		if steps%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return domain.Outcome{}, err
			}
		}

		switch {
		case position < 0:
			halt = domain.HaltOffLeft
		case position >= len(tape):
			halt = domain.HaltOffRight
		}
	}

	if table.IsAccepting(state) {
		return finish(domain.ResultAccepted, halt), nil
	}
	if halt == domain.HaltStuck {
		return finish(domain.ResultRejectedStuck, halt), nil
	}
	return finish(domain.ResultRejectedHalted, halt), nil
}

func maxStepsFromEnv() int {
	if val := os.Getenv(EnvMaxSteps); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return DefaultMaxSteps
}
