package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/synthctl/synthctl/internal/cmdtypes"
	oerrors "github.com/synthctl/synthctl/internal/errors"
	"github.com/synthctl/synthctl/internal/manifest"
	"github.com/synthctl/synthctl/internal/output"
)

func newExplainPrecedenceCmd(global *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "explain-precedence <manifest> <component>",
		Short: "Show which config layer won each leaf of one component's effective config",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplainPrecedence(global, args[0], args[1])
		},
	}
}

func runExplainPrecedence(global *cmdtypes.GlobalConfig, manifestPath, componentName string) error {
	tree, err := manifest.Load(manifestPath)
	if err != nil {
		return oerrors.NewExitError(err)
	}

	entries, err := newOrchestrator().ExplainPrecedence(tree, componentName, pipelineOptions(global))
	if err != nil {
		return oerrors.NewExitError(err)
	}

	for _, e := range entries {
		output.Println(fmt.Sprintf("%-40s = %-20v (%s / %s)", e.Path, e.Value, e.Layer, e.Source))
	}
	return nil
}
