package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/history"
	"github.com/aretw0/turing/pkg/validation"
)

// Session is the interactive evaluation loop.
type Session struct {
	Machine  *turing.Machine
	Prompter *Prompter
	Out      io.Writer
	History  *history.Manager
	Logger   *slog.Logger
	Color    bool
}

// Run reads one input per line until an exit word, EOF or cancellation.
// Rejected inputs (too large, invalid UTF-8) are reported and the loop goes on.
func (s *Session) Run(ctx context.Context) error {
	for {
		fmt.Fprintln(s.Out, "\n_______________________________")
		line, err := s.Prompter.Raw(ctx, "Input to evaluate (% = blank, 'exit' to finish): ")
		if err != nil {
			return err
		}
		if IsExitWord(line) {
			printSystemMessage(s.Out, "End of evaluation.")
			return nil
		}

		input, err := validation.Input(line)
		if err != nil {
			fmt.Fprintf(s.Out, "Error: %v\n", err)
			continue
		}

		out, err := s.Machine.Evaluate(ctx, input)
		if err != nil {
			return err
		}

		if s.Color {
			fmt.Fprintln(s.Out, tui.Verdict(out))
		} else {
			fmt.Fprintln(s.Out, tui.VerdictText(out))
		}

		if s.History != nil {
			run, err := s.History.Record(ctx, s.Machine.Name, out)
			if err != nil {
				s.logger().Warn("failed to record run", "err", err)
				continue
			}
			s.logger().Debug("run recorded", "run_id", run.ID)
		}
	}
}

func (s *Session) logger() *slog.Logger {
	if s.Logger == nil {
		return logging.NewNop()
	}
	return s.Logger
}

// ErrNoSource is returned when no machine was given and none can be built interactively.
var ErrNoSource = errors.New("no machine given: use --file, --dir with --machine, or run in a terminal")
