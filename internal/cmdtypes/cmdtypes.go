// Package cmdtypes provides shared types for the cmd package and its sub-packages.
package cmdtypes

import (
	oerrors "github.com/synthctl/synthctl/internal/errors"

	"github.com/synthctl/synthctl/internal/config"
)

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is populated once at startup and passed explicitly into every sub-command
// constructor, replacing package-level mutable globals.
type GlobalConfig struct {
	Config  *config.Config
	Verbose bool
}

// Exit codes — aliases to internal/errors constants.
const (
	ExitSuccess         = oerrors.ExitSuccess
	ExitValidationError = oerrors.ExitValidationError
	ExitReferenceError  = oerrors.ExitReferenceError
	ExitSynthesisError  = oerrors.ExitSynthesisError
	ExitDriftCritical   = oerrors.ExitDriftCritical
	ExitIOError         = oerrors.ExitIOError
	ExitGeneralError    = oerrors.ExitGeneralError
)

// ExitError is a type alias to internal/errors.ExitError.
// This allows cmd package code to continue using cmdtypes.ExitError
// while using the same underlying type across all packages.
type ExitError = oerrors.ExitError
