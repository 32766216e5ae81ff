package cmd

import "errors"

// Sentinel errors for conditions that produce an already-printed ExitError:
// the diagnostics themselves were rendered via printDiagnostics, so these
// exist only to give the ExitError a non-empty message.
var (
	errValidationFailed = errors.New("manifest failed validation")
	errSynthesisFailed  = errors.New("synthesis aborted")
)
