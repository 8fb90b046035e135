package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the state graph",
		Long: `Outputs the state graph of the machine as Graphviz DOT (default) or a
Mermaid diagram. With --png the DOT graph is also rendered by the 'dot' binary.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := sharedOptions(cmd)
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			png, _ := cmd.Flags().GetString("png")

			logger, closer, err := setupLogger(o)
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()

			machine, err := cli.OpenMachine(ctx, o, logger)
			if err != nil {
				return err
			}

			gf := turing.GraphFormat(format)
			if png != "" && gf != turing.GraphDOT {
				return fmt.Errorf("--png needs --format %s", turing.GraphDOT)
			}
			text, err := machine.Graph(gf)
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), text)
			} else if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
				return fmt.Errorf("failed to write graph: %w", err)
			}

			if png == "" {
				return nil
			}

			dotPath := output
			if dotPath == "" {
				tmp, err := os.MkdirTemp("", "turing-graph-")
				if err != nil {
					return err
				}
				defer os.RemoveAll(tmp)
				dotPath = filepath.Join(tmp, "graph.dot")
				if err := os.WriteFile(dotPath, []byte(text), 0o644); err != nil {
					return err
				}
			}
			return graph.RenderImage(ctx, dotPath, png)
		},
	}

	cmd.Flags().String("format", string(turing.GraphDOT), "Output format: dot or mermaid")
	cmd.Flags().StringP("output", "o", "", "Write the graph to this file instead of stdout")
	cmd.Flags().String("png", "", "Also render the graph to this PNG with Graphviz")
	return cmd
}
