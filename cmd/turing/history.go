package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/pkg/history"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded evaluations",
	}
	cmd.AddCommand(newHistoryListCmd(), newHistoryInspectCmd(), newHistoryRemoveCmd())
	return cmd
}

func openRuns(cmd *cobra.Command) (*history.Manager, func(), error) {
	o := sharedOptions(cmd)
	logger, closer, err := setupLogger(o)
	if err != nil {
		return nil, nil, err
	}
	runs, err := cli.OpenHistory(o, logger)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return runs, func() { closer.Close() }, nil
}

func newHistoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List recorded runs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, done, err := openRuns(cmd)
			if err != nil {
				return err
			}
			defer done()

			ids, err := runs.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMACHINE\tRESULT\tSTEPS\tCREATED")
			for _, id := range ids {
				run, err := runs.Load(cmd.Context(), id)
				if err != nil {
					fmt.Fprintf(w, "%s\t?\t%v\t\t\n", id, err)
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					run.ID, run.Machine, run.Outcome.Result, run.Outcome.Steps,
					run.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}

func newHistoryInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <run-id>",
		Short: "Print a recorded run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, done, err := openRuns(cmd)
			if err != nil {
				return err
			}
			defer done()

			run, err := runs.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(run)
		},
	}
}

func newHistoryRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <run-id>...",
		Aliases: []string{"delete"},
		Short:   "Delete recorded runs",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, done, err := openRuns(cmd)
			if err != nil {
				return err
			}
			defer done()

			for _, id := range args {
				if err := runs.Delete(cmd.Context(), id); err != nil {
					return fmt.Errorf("failed to delete %s: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			}
			return nil
		},
	}
}
