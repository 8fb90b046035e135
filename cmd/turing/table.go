package main

import (
	"fmt"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/definition"
	"github.com/spf13/cobra"
)

func newTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the transition table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := sharedOptions(cmd)
			raw, _ := cmd.Flags().GetBool("raw")
			format, _ := cmd.Flags().GetString("format")

			logger, closer, err := setupLogger(o)
			if err != nil {
				return err
			}
			defer closer.Close()

			machine, err := cli.OpenMachine(cmd.Context(), o, logger)
			if err != nil {
				return err
			}
			def := machine.Definition()

			if format != "" {
				data, err := encodeDefinition(def, format)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			md := tui.TableMarkdown(def)
			if raw {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}
			rendered, err := tui.NewRenderer()(md)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().Bool("raw", false, "Print plain markdown instead of the styled table")
	cmd.Flags().String("format", "", "Print the definition instead: yaml, json or bulk")
	return cmd
}

func encodeDefinition(def definition.Definition, format string) ([]byte, error) {
	switch format {
	case "yaml", "yml":
		return definition.Encode(def, definition.FormatYAML)
	case "json":
		return definition.Encode(def, definition.FormatJSON)
	case "bulk", "tm":
		return definition.Encode(def, definition.FormatBulk)
	default:
		return nil, fmt.Errorf("unknown format %q: use yaml, json or bulk", format)
	}
}
