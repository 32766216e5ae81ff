package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/synthctl/synthctl/internal/cmdtypes"
	oerrors "github.com/synthctl/synthctl/internal/errors"
	"github.com/synthctl/synthctl/internal/manifest"
	"github.com/synthctl/synthctl/internal/output"
)

type synthesizeOptions struct {
	manifestPath string
	outputFormat string
	outputFile   string
}

func newSynthesizeCmd(global *cmdtypes.GlobalConfig) *cobra.Command {
	opts := &synthesizeOptions{}

	c := &cobra.Command{
		Use:   "synthesize <manifest>",
		Short: "Synthesize a manifest into a resource plan",
		Long: `synthesize runs the full pipeline: schema validation, reference
checking, context hydration, per-component config resolution, dependency
ordering and synthesis, binding, and logical-id/drift tracking. It emits
the resulting resources plus a side-car report of diagnostics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.manifestPath = args[0]
			return runSynthesize(global, opts)
		},
	}

	c.Flags().StringVarP(&opts.outputFormat, "output", "o", "yaml", "output format (yaml, json)")
	c.Flags().StringVar(&opts.outputFile, "output-file", "", "file to write the plan to (stdout if not specified)")

	return c
}

func runSynthesize(global *cmdtypes.GlobalConfig, opts *synthesizeOptions) error {
	format, ok := output.ParseFormat(opts.outputFormat)
	if !ok || (format != output.FormatYAML && format != output.FormatJSON) {
		return oerrors.NewExitError(&oerrors.Diagnostic{
			Kind:    oerrors.KindValidation,
			Message: "invalid --output: use yaml or json",
		})
	}

	tree, err := manifest.Load(opts.manifestPath)
	if err != nil {
		return oerrors.NewExitError(err)
	}

	plan, err := newOrchestrator().Synthesize(tree, pipelineOptions(global))
	if err != nil {
		return oerrors.NewExitError(err)
	}

	printDiagnostics(plan.Report.Diagnostics)
	blocking := plan.Report.Diagnostics
	if flagAllowDegradedBindings {
		// Degraded binding diagnostics are reported but do not block the plan.
		blocking = nil
		for _, d := range plan.Report.Diagnostics {
			if d.Kind != oerrors.KindBinding {
				blocking = append(blocking, d)
			}
		}
	}
	if code := worstExitCode(blocking); code != oerrors.ExitSuccess {
		return &oerrors.ExitError{Err: errSynthesisFailed, Code: code, Printed: true}
	}

	resources := make([]output.ResourceInfo, len(plan.Resources))
	for i, r := range plan.Resources {
		resources[i] = r
	}

	w := os.Stdout
	if opts.outputFile != "" {
		f, err := os.Create(opts.outputFile)
		if err != nil {
			return oerrors.NewExitError(err)
		}
		defer f.Close()
		return output.WriteManifests(resources, output.ManifestOptions{Format: format, Writer: f})
	}
	return output.WriteManifests(resources, output.ManifestOptions{Format: format, Writer: w})
}
