package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "turing",
		Short: "Turing is a deterministic Turing machine simulator",
		Long: `Turing builds a transition table from the console or a definition file,
exports its state graph and evaluates input strings against it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags (available to all commands)
	flags := root.PersistentFlags()
	flags.StringP("file", "f", "", "Definition file (bulk .tm/.txt, YAML or JSON)")
	flags.String("dir", "", "Directory containing machine definitions")
	flags.StringP("machine", "m", "", "Machine name inside --dir")
	flags.Bool("loam", false, "Read --dir as a Loam markdown repository")
	flags.Int("max-steps", -1, "Step bound per evaluation, 0 for unbounded (default from TURING_MAX_STEPS or 1000000)")
	flags.Bool("debug", false, "Enable debug logging on stderr")
	flags.String("log-file", "", "Also write logs to this file as JSON")
	flags.String("runs-dir", "", "Directory for the run history (default .turing/runs)")
	flags.String("redis-url", "", "Keep the run history in Redis instead of files")
	flags.Bool("redact-history", false, "Mask inputs and tapes in recorded runs")

	root.AddCommand(
		newRunCmd(),
		newEvalCmd(),
		newTableCmd(),
		newGraphCmd(),
		newValidateCmd(),
		newServeCmd(),
		newMCPCmd(),
		newHistoryCmd(),
		newVersionCmd(),
	)

	// 'run' is the default when no command is given.
	run := newRunCmd()
	root.Flags().AddFlagSet(run.Flags())
	root.RunE = run.RunE

	return root
}

// Execute builds the command tree and runs it.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// sharedOptions reads the persistent flags.
func sharedOptions(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	var o cli.Options
	o.File, _ = flags.GetString("file")
	o.Dir, _ = flags.GetString("dir")
	o.Machine, _ = flags.GetString("machine")
	o.Loam, _ = flags.GetBool("loam")
	o.MaxSteps, _ = flags.GetInt("max-steps")
	o.Debug, _ = flags.GetBool("debug")
	o.LogFile, _ = flags.GetString("log-file")
	o.RunsDir, _ = flags.GetString("runs-dir")
	o.RedisURL, _ = flags.GetString("redis-url")
	o.Redact, _ = flags.GetBool("redact-history")
	o.HistoryKey = os.Getenv(cli.EnvHistoryKey)
	return o
}

// setupLogger builds the logger for a command; the closer must be called on exit.
func setupLogger(o cli.Options) (*slog.Logger, io.Closer, error) {
	logger, closer, err := cli.CreateLogger(o.Debug, o.LogFile)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return logger, closer, nil
}
