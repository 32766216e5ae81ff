package cmd

import (
	"github.com/spf13/cobra"

	"github.com/synthctl/synthctl/internal/cmdtypes"
	oerrors "github.com/synthctl/synthctl/internal/errors"
	"github.com/synthctl/synthctl/internal/manifest"
	"github.com/synthctl/synthctl/internal/output"
)

type validateOptions struct {
	manifestPath string
}

func newValidateCmd(global *cmdtypes.GlobalConfig) *cobra.Command {
	opts := &validateOptions{}

	c := &cobra.Command{
		Use:   "validate <manifest>",
		Short: "Validate a manifest against the schema and reference rules, without synthesizing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.manifestPath = args[0]
			return runValidate(global, opts)
		},
	}

	return c
}

func runValidate(global *cmdtypes.GlobalConfig, opts *validateOptions) error {
	tree, err := manifest.Load(opts.manifestPath)
	if err != nil {
		return oerrors.NewExitError(err)
	}

	diags, err := newOrchestrator().Validate(tree)
	if err != nil {
		return oerrors.NewExitError(err)
	}

	printDiagnostics(diags)
	if code := worstExitCode(diags); code != oerrors.ExitSuccess {
		return &oerrors.ExitError{Err: errValidationFailed, Code: code, Printed: true}
	}

	output.Println("manifest is valid")
	return nil
}
