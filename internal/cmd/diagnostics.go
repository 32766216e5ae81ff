package cmd

import (
	"fmt"

	"github.com/synthctl/synthctl/internal/capability"
	"github.com/synthctl/synthctl/internal/cmdtypes"
	"github.com/synthctl/synthctl/internal/component"
	oerrors "github.com/synthctl/synthctl/internal/errors"
	"github.com/synthctl/synthctl/internal/output"
	"github.com/synthctl/synthctl/internal/pipeline"
)

// newOrchestrator builds an Orchestrator over the reference component and
// binder catalogs. A single process only ever needs one instance; commands
// build their own rather than sharing a package-level global so tests can
// run concurrently without interference (§5, "Shared-resource policy").
func newOrchestrator() *pipeline.Orchestrator {
	return pipeline.NewOrchestrator(component.DefaultRegistry(), capability.DefaultRegistry())
}

// pipelineOptions translates resolved global config into pipeline.Options.
func pipelineOptions(global *cmdtypes.GlobalConfig) pipeline.Options {
	cfg := global.Config
	return pipeline.Options{
		ConfigDir:             cfg.ConfigDir,
		EnvironmentsDir:       cfg.EnvironmentsDir,
		PoliciesDir:           cfg.PoliciesDir,
		LogicalIDMapPath:      cfg.LogicalIDMapPath,
		AllowDrift:            cfg.AllowDrift,
		AllowDegradedBindings: flagAllowDegradedBindings,
	}
}

// printDiagnostics renders every diagnostic to stderr via internal/output,
// one Details block per diagnostic so long suggestion text doesn't fight
// the key-value log line format.
func printDiagnostics(diags []*oerrors.Diagnostic) {
	for _, d := range diags {
		line := fmt.Sprintf("[%s] %s", d.Kind, d.Error())
		if d.Suggestion != "" {
			line += fmt.Sprintf("\n  suggestion: %s", d.Suggestion)
		}
		output.Details(line)
	}
}

// worstExitCode returns the highest-severity exit code among diags, or
// ExitSuccess if there are none.
func worstExitCode(diags []*oerrors.Diagnostic) int {
	code := oerrors.ExitSuccess
	for _, d := range diags {
		if c := d.Kind.ExitCode(); c > code {
			code = c
		}
	}
	return code
}
