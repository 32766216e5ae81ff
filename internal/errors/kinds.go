package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind categorizes a pipeline-stage failure for exit-code mapping and
// reporting. It is orthogonal to the connectivity/permission/not-found
// sentinels above, which describe ambient CLI failures rather than
// synthesis-stage failures.
type Kind string

const (
	// KindIO covers unreadable manifests, missing base schemas, and any
	// other failure to read an input file.
	KindIO Kind = "IOError"

	// KindInvalidYAML covers manifest documents that fail to parse.
	KindInvalidYAML Kind = "InvalidYAML"

	// KindSchema covers schema composition/compilation failures.
	KindSchema Kind = "SchemaError"

	// KindValidation covers manifest documents that fail master-schema validation.
	KindValidation Kind = "ValidationError"

	// KindReference covers unresolved component/capability references, self-loops,
	// and unsupported (source type, capability) bindings.
	KindReference Kind = "ReferenceError"

	// KindConfig covers missing required configuration leaves and policy conflicts.
	KindConfig Kind = "ConfigError"

	// KindBinding covers binder failures not already classified as a reference error.
	KindBinding Kind = "BindingError"

	// KindDriftCritical covers a critical drift finding that would replace a
	// stateful resource.
	KindDriftCritical Kind = "DriftCritical"

	// KindWarning covers non-fatal diagnostics.
	KindWarning Kind = "Warning"
)

// Exit codes returned by a CLI host driving the pipeline, per the external
// interface contract: 0 success, 1 schema/validation failure, 2 reference
// failure, 3 synthesis/config/binding failure, 4 drift-critical abort,
// 5 I/O failure.
const (
	ExitSuccess           = 0
	ExitValidationError   = 1
	ExitReferenceError    = 2
	ExitSynthesisError    = 3
	ExitDriftCritical     = 4
	ExitIOError           = 5
	ExitGeneralError      = 1
	ExitConnectivityError = 5
	ExitPermissionDenied  = 1
	ExitNotFound          = 5
)

// ExitCode maps a Kind to the process exit code a CLI host should return.
func (k Kind) ExitCode() int {
	switch k {
	case KindIO:
		return ExitIOError
	case KindInvalidYAML, KindSchema, KindValidation:
		return ExitValidationError
	case KindReference:
		return ExitReferenceError
	case KindConfig, KindBinding:
		return ExitSynthesisError
	case KindDriftCritical:
		return ExitDriftCritical
	case KindWarning:
		return ExitSuccess
	default:
		return ExitGeneralError
	}
}

// Fatal reports whether a diagnostic of this Kind aborts its stage.
// Only Warning is non-fatal; DriftCritical is fatal unless explicitly
// overridden by the caller (see internal/pipeline's allowDrift option).
func (k Kind) Fatal() bool {
	return k != KindWarning
}

// Diagnostic is a single structured finding surfaced by any pipeline stage,
// matching §7's "wraps exceptions into {kind, path, message, cause}".
type Diagnostic struct {
	Kind       Kind   `json:"kind"`
	Severity   string `json:"severity,omitempty"` // low | medium | high | critical, used by drift diagnostics
	Code       string `json:"code,omitempty"`
	Path       string `json:"path"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	Cause      error  `json:"-"`
}

// Error implements the error interface so a Diagnostic can be returned
// directly from a stage function.
func (d *Diagnostic) Error() string {
	if d.Path != "" {
		return fmt.Sprintf("%s: %s: %s", d.Kind, d.Path, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// Unwrap returns the underlying cause, if any.
func (d *Diagnostic) Unwrap() error {
	return d.Cause
}

// NewDiagnostic builds a Diagnostic with the given kind, manifest path, and message.
func NewDiagnostic(kind Kind, path, message string) *Diagnostic {
	return &Diagnostic{Kind: kind, Path: path, Message: message}
}

// ExitError pairs an error with a resolved process exit code and a flag
// indicating whether its message has already been printed to the user,
// so a CLI's top-level handler doesn't print it twice.
type ExitError struct {
	Err     error
	Code    int
	Printed bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit error"
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError wraps err, resolving the exit code from its Kind when err is
// (or wraps) a *Diagnostic; otherwise defaults to ExitGeneralError.
func NewExitError(err error) *ExitError {
	var diag *Diagnostic
	if stderrors.As(err, &diag) {
		return &ExitError{Err: err, Code: diag.Kind.ExitCode()}
	}
	return &ExitError{Err: err, Code: ExitGeneralError}
}
