package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/pkg/definition"
	"github.com/aretw0/turing/pkg/validation"
	"github.com/spf13/cobra"
)

// errInvalid is returned once the failures have been printed.
var errInvalid = errors.New("validation failed")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check machine definitions",
		Long: `Checks the definition given by --file, the machine named by --dir/--machine,
or every machine in --dir. All failures of a definition are reported together.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := sharedOptions(cmd)
			out := cmd.OutOrStdout()

			defs, err := collectDefinitions(cmd.Context(), o)
			if err != nil {
				return err
			}

			valid := true
			for _, def := range defs {
				if !reportDefinition(out, def) {
					valid = false
				}
			}
			if !valid {
				return errInvalid
			}
			return nil
		},
	}
}

func collectDefinitions(ctx context.Context, o cli.Options) ([]definition.Definition, error) {
	if o.File != "" {
		def, err := definition.LoadFile(o.File)
		if err != nil {
			return nil, err
		}
		return []definition.Definition{def}, nil
	}
	if o.Dir == "" {
		return nil, cli.ErrNoSource
	}

	loader, err := o.Loader()
	if err != nil {
		return nil, err
	}
	names := []string{o.Machine}
	if o.Machine == "" {
		if names, err = loader.List(ctx); err != nil {
			return nil, err
		}
	}

	defs := make([]definition.Definition, 0, len(names))
	for _, name := range names {
		def, err := loader.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// reportDefinition prints the outcome for one definition and reports whether it is valid.
func reportDefinition(out io.Writer, def definition.Definition) bool {
	_, err := def.Build()
	if err == nil {
		fmt.Fprintf(out, "%s: ok (%d transitions)\n", def.Name, len(def.Transitions))
		return true
	}

	errs := validation.Errors(err)
	if len(errs) == 0 {
		errs = []error{err}
	}
	fmt.Fprintf(out, "%s: %d problem(s)\n", def.Name, len(errs))
	for _, e := range errs {
		fmt.Fprintf(out, "  - %v\n", e)
	}
	return false
}
