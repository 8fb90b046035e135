package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/validation"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [input...]",
		Short: "Evaluate inputs without prompting",
		Long: `Evaluates every argument against the machine, or one input per line read
from stdin when no argument is given. Use '%' for blank cells.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := sharedOptions(cmd)
			asJSON, _ := cmd.Flags().GetBool("json")
			record, _ := cmd.Flags().GetBool("record")
			parallel, _ := cmd.Flags().GetInt("parallel")

			logger, closer, err := setupLogger(o)
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()

			machine, err := cli.OpenMachine(ctx, o, logger, parallelism(parallel)...)
			if err != nil {
				return err
			}

			raw := args
			if len(raw) == 0 {
				if raw, err = readLines(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			inputs := make([]string, len(raw))
			for i, r := range raw {
				if inputs[i], err = validation.Input(r); err != nil {
					return fmt.Errorf("input %d: %w", i+1, err)
				}
			}

			outcomes, err := machine.EvaluateAll(ctx, inputs)
			if err != nil {
				return cli.HandleExecutionError(err)
			}

			if record {
				runs, err := cli.OpenHistory(o, logger)
				if err != nil {
					return err
				}
				for _, out := range outcomes {
					if _, err := runs.Record(ctx, machine.Name, out); err != nil {
						return err
					}
				}
			}

			return printOutcomes(cmd.OutOrStdout(), outcomes, asJSON)
		},
	}

	cmd.Flags().Bool("json", false, "Print outcomes as a JSON array")
	cmd.Flags().Bool("record", false, "Record every evaluation in the run history")
	cmd.Flags().Int("parallel", 0, "Maximum concurrent evaluations (default GOMAXPROCS)")
	return cmd
}

func parallelism(n int) []turing.Option {
	if n <= 0 {
		return nil
	}
	return []turing.Option{turing.WithParallelism(n)}
}

// readLines skips blank lines and exit words.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || cli.IsExitWord(line) {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inputs: %w", err)
	}
	return lines, nil
}

func printOutcomes(w io.Writer, outcomes []domain.Outcome, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(outcomes)
	}
	for _, out := range outcomes {
		fmt.Fprintln(w, tui.VerdictText(out))
	}
	return nil
}
