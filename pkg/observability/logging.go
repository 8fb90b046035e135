package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/turing/pkg/domain"
)

// LogHooks returns hooks that write one record per halt, and one per step at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "transition",
				"step", e.Step,
				"from", e.Transition.From(),
				"rule", e.Transition.Rule(),
				"to", e.Transition.To(),
			)
		},
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) {
			logger.InfoContext(ctx, "evaluation",
				"result", e.Outcome.Result,
				"halt", e.Outcome.Halt,
				"steps", e.Outcome.Steps,
				"final_state", e.Outcome.FinalState,
			)
		},
	}
}
