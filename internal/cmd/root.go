// Package cmd wires synthctl's cobra command tree to the pipeline
// orchestrator, mirroring the donor's internal/cmd layout (root command +
// one file per subcommand) but threading a *cmdtypes.GlobalConfig
// explicitly into each constructor instead of reading package-level
// mutable globals (spec.md §6, "Entry point").
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/synthctl/synthctl/internal/cmdtypes"
	"github.com/synthctl/synthctl/internal/config"
	"github.com/synthctl/synthctl/internal/output"
)

var (
	flagVerbose               bool
	flagConfigDir             string
	flagEnvDir                string
	flagPoliciesDir           string
	flagLogicalIDMap          string
	flagAllowDrift            bool
	flagAllowDegradedBindings bool
)

// NewRootCmd builds the synthctl root command.
func NewRootCmd() *cobra.Command {
	global := &cmdtypes.GlobalConfig{}

	root := &cobra.Command{
		Use:           "synthctl",
		Short:         "Synthesize and validate infrastructure manifests",
		Long: `synthctl composes a manifest-driven component catalog into a
provider-ready resource plan: it validates a manifest against the
registered component schemas, checks its bind/trigger references and
compliance rules, resolves dependency order, synthesizes each
component, wires bindings, and assigns stable logical identifiers
while tracking drift against a prior run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(global)
		},
	}

	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug-level logging")
	root.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "directory of platform-default config layers (env: SYNTHCTL_CONFIG_DIR)")
	root.PersistentFlags().StringVar(&flagEnvDir, "environments-dir", "", "directory of environment-default config layers (env: SYNTHCTL_ENVIRONMENTS_DIR)")
	root.PersistentFlags().StringVar(&flagPoliciesDir, "policies-dir", "", "directory of compliance policy overlays (env: SYNTHCTL_POLICIES_DIR)")
	root.PersistentFlags().StringVar(&flagLogicalIDMap, "logical-id-map", "", "path to logical-id-map.json (env: SYNTHCTL_LOGICAL_ID_MAP)")
	root.PersistentFlags().BoolVar(&flagAllowDrift, "allow-drift", false, "proceed past a critical drift finding instead of aborting")
	root.PersistentFlags().BoolVar(&flagAllowDegradedBindings, "allow-degraded-bindings", false, "emit a plan with diagnostics instead of aborting on a binding failure")

	root.AddCommand(newValidateCmd(global))
	root.AddCommand(newSynthesizeCmd(global))
	root.AddCommand(newExplainPrecedenceCmd(global))
	root.AddCommand(newVersionCmd())

	return root
}

// initializeGlobals resolves ambient settings (flag > env > config file >
// default) and sets up logging, mirroring the donor's PersistentPreRunE
// (§5, "Shared-resource policy").
func initializeGlobals(global *cmdtypes.GlobalConfig) error {
	output.SetupLogging(output.LogConfig{Verbose: flagVerbose})

	fileCfg, err := config.LoadFileConfig()
	if err != nil {
		output.Warn("ignoring ~/.synthctl/config.yaml", "error", err)
	}

	cfg := config.DefaultConfig()
	cfg.ConfigDir = config.ResolveString(config.ResolveStringOptions{
		FlagValue: flagConfigDir, EnvVar: "SYNTHCTL_CONFIG_DIR", ConfigValue: fileCfg.ConfigDir, Default: cfg.ConfigDir,
	}).Value.(string)
	cfg.EnvironmentsDir = config.ResolveString(config.ResolveStringOptions{
		FlagValue: flagEnvDir, EnvVar: "SYNTHCTL_ENVIRONMENTS_DIR", ConfigValue: fileCfg.EnvironmentsDir, Default: cfg.EnvironmentsDir,
	}).Value.(string)
	cfg.PoliciesDir = config.ResolveString(config.ResolveStringOptions{
		FlagValue: flagPoliciesDir, EnvVar: "SYNTHCTL_POLICIES_DIR", ConfigValue: fileCfg.PoliciesDir, Default: cfg.PoliciesDir,
	}).Value.(string)
	cfg.LogicalIDMapPath = config.ResolveString(config.ResolveStringOptions{
		FlagValue: flagLogicalIDMap, EnvVar: "SYNTHCTL_LOGICAL_ID_MAP", ConfigValue: fileCfg.LogicalIDMapPath, Default: cfg.LogicalIDMapPath,
	}).Value.(string)
	cfg.OutputFormat = config.ResolveString(config.ResolveStringOptions{
		ConfigValue: fileCfg.OutputFormat, Default: cfg.OutputFormat,
	}).Value.(string)
	cfg.AllowDrift = flagAllowDrift

	global.Config = cfg
	global.Verbose = flagVerbose

	output.Debug("synthctl starting",
		"configDir", cfg.ConfigDir,
		"environmentsDir", cfg.EnvironmentsDir,
		"policiesDir", cfg.PoliciesDir,
	)
	return nil
}
