package main

import (
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build a machine and evaluate inputs interactively",
		Long: `Loads the machine given by --file or --dir/--machine, or asks for its
states and transitions on the console, prints the transition table, writes the
state graph and then evaluates one input per line until 'exit'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.RunOptions{Options: sharedOptions(cmd)}
			flags := cmd.Flags()
			opts.GraphOut, _ = flags.GetString("graph-out")
			opts.PNG, _ = flags.GetString("png")
			opts.NoHistory, _ = flags.GetBool("no-history")
			opts.Quiet, _ = flags.GetBool("quiet")
			noColor, _ := flags.GetBool("no-color")
			opts.Color = !noColor && cli.IsTerminal(os.Stdout)

			logger, closer, err := setupLogger(opts.Options)
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()

			err = cli.Run(ctx, opts, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
			if sig := ctx.Signal(); sig != nil {
				logger.Debug("interrupted", "signal", sig)
			}
			return cli.HandleExecutionError(err)
		},
	}

	cmd.Flags().String("graph-out", "grafo.turing.dot", "DOT file written before evaluating, empty to skip")
	cmd.Flags().String("png", "", "Render the graph to this PNG with Graphviz")
	cmd.Flags().Bool("no-history", false, "Do not record evaluations")
	cmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
	cmd.Flags().Bool("no-color", false, "Disable coloured verdicts")
	return cmd
}
