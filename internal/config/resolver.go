// Package config resolves synthctl's own ambient CLI settings.
package config

import (
	"os"

	"github.com/synthctl/synthctl/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolveStringOptions contains options for resolving a single string
// ambient setting across flag/env/config-file/default.
type ResolveStringOptions struct {
	// FlagValue is the command-line flag value (empty if not set).
	FlagValue string
	// EnvVar is the environment variable name to check (e.g. "SYNTHCTL_MANIFEST").
	EnvVar string
	// ConfigValue is the value from the loaded config file (empty if not set).
	ConfigValue string
	// Default is the built-in default, used when nothing else is set.
	Default string
}

// ResolveString resolves a single ambient setting using precedence:
// flag > env > config file > built-in default.
func ResolveString(opts ResolveStringOptions) ResolvedValue {
	result := ResolvedValue{
		Shadowed: make(map[ConfigSource]any),
	}

	envValue := ""
	if opts.EnvVar != "" {
		envValue = os.Getenv(opts.EnvVar)
	}

	switch {
	case opts.FlagValue != "":
		result.Value = opts.FlagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		if opts.ConfigValue != "" {
			result.Shadowed[SourceConfig] = opts.ConfigValue
		}
		if opts.Default != "" {
			result.Shadowed[SourceDefault] = opts.Default
		}
	case envValue != "":
		result.Value = envValue
		result.Source = SourceEnv
		if opts.ConfigValue != "" {
			result.Shadowed[SourceConfig] = opts.ConfigValue
		}
		if opts.Default != "" {
			result.Shadowed[SourceDefault] = opts.Default
		}
	case opts.ConfigValue != "":
		result.Value = opts.ConfigValue
		result.Source = SourceConfig
		if opts.Default != "" {
			result.Shadowed[SourceDefault] = opts.Default
		}
	default:
		result.Value = opts.Default
		result.Source = SourceDefault
	}

	return result
}

// LogResolvedValues logs configuration resolution at DEBUG level when verbose.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
