package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/history"
)

// RunOptions configures the interactive 'run' command.
type RunOptions struct {
	Options
	GraphOut  string // DOT file written before the loop, empty to skip
	PNG       string // image rendered from GraphOut with Graphviz, empty to skip
	NoHistory bool
	Quiet     bool // no banner
	Color     bool
}

// Run loads or builds a machine, shows its table, exports its graph and
// then evaluates inputs read from in until the user leaves.
func Run(ctx context.Context, opts RunOptions, in io.Reader, out io.Writer, logger *slog.Logger) error {
	if !opts.Quiet {
		tui.PrintBanner(out, turing.Version)
	}

	prompter := NewPrompter(in, out)

	var machine *turing.Machine
	var err error
	switch {
	case opts.HasSource():
		machine, err = OpenMachine(ctx, opts.Options, logger)
	case in != os.Stdin || stdinIsTerminal():
		def, buildErr := prompter.BuildDefinition(ctx)
		if buildErr != nil {
			return buildErr
		}
		def.Name = "console"
		machine, err = turing.FromDefinition(def, opts.MachineOptions(logger)...)
	default:
		return ErrNoSource
	}
	if err != nil {
		return err
	}

	if err := printTable(out, machine); err != nil {
		return err
	}

	if opts.GraphOut != "" {
		if err := exportGraph(ctx, machine, opts.GraphOut, opts.PNG, out, logger); err != nil {
			return err
		}
	}

	var runs *history.Manager
	if !opts.NoHistory {
		if runs, err = OpenHistory(opts.Options, logger); err != nil {
			return err
		}
	}

	session := &Session{
		Machine:  machine,
		Prompter: prompter,
		Out:      out,
		History:  runs,
		Logger:   logger,
		Color:    opts.Color,
	}
	return session.Run(ctx)
}

func printTable(out io.Writer, machine *turing.Machine) error {
	rendered, err := tui.NewRenderer()(tui.TableMarkdown(machine.Definition()))
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	fmt.Fprint(out, rendered)
	return nil
}

func exportGraph(ctx context.Context, machine *turing.Machine, dotPath, pngPath string, out io.Writer, logger *slog.Logger) error {
	dot, err := machine.Graph(turing.GraphDOT)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dotPath, []byte(dot), 0o644); err != nil {
		return fmt.Errorf("failed to write graph: %w", err)
	}
	printSystemMessage(out, "Graph written to %s.", dotPath)

	if pngPath == "" {
		return nil
	}
	if err := graph.RenderImage(ctx, dotPath, pngPath); err != nil {
		if errors.Is(err, graph.ErrRendererNotFound) {
			logger.Warn("skipping image rendering", "err", err)
			printSystemMessage(out, "Graphviz not found, %s not rendered.", pngPath)
			return nil
		}
		return err
	}
	printSystemMessage(out, "Image written to %s.", pngPath)
	return nil
}
