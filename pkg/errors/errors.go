// Package errors provides structured error types for nugetbackup.
//
// Every failure the backup pipeline can produce carries a machine-readable
// [Code]. The orchestrator uses the code to decide whether a failure is fatal
// (abort the run) or per-item (report it and carry on), and the CLI uses it to
// pick the process exit status.
//
// # Error Codes
//
// Fatal codes stop a run before or during dependency listing:
//   - USAGE: bad or missing command-line arguments
//   - PROJECT_NOT_FOUND: the project or solution path does not exist
//   - DEPENDENCY_LISTING: the lister could not be run or produced no report
//   - MANIFEST_PARSE: the report is not the expected JSON document
//
// Per-item codes are reported and the batch continues:
//   - PACKAGE_ARCHIVE: one package could not be installed
//   - LAYOUT_NORMALIZATION: one installer directory could not be flattened
//
// # Usage
//
//	err := errors.New(errors.ErrCodeProjectNotFound, "project file not found: %s", path)
//	if errors.Is(err, errors.ErrCodeProjectNotFound) {
//	    // abort
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodePackageArchive, cause, "install %s %s", id, version)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeUsage          Code = "USAGE"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"
	ErrCodeInvalidVersion Code = "INVALID_VERSION"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// Fatal pipeline errors
	ErrCodeProjectNotFound   Code = "PROJECT_NOT_FOUND"
	ErrCodeDependencyListing Code = "DEPENDENCY_LISTING"
	ErrCodeManifestParse     Code = "MANIFEST_PARSE"

	// Per-item pipeline errors
	ErrCodePackageArchive      Code = "PACKAGE_ARCHIVE"
	ErrCodeLayoutNormalization Code = "LAYOUT_NORMALIZATION"

	// Mirror errors
	ErrCodeMirror Code = "MIRROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Detail is like UserMessage but keeps the causes, e.g.
// "install Serilog:3.1.1: nuget install ...: exit status 1".
func Detail(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + Detail(e.Cause)
}

// CommandError describes a failed child process. Output holds everything the
// process wrote to standard output so callers can show it for diagnostics.
type CommandError struct {
	Command  string // Command line as executed
	ExitCode int    // Exit status, or -1 if the process never ran
	Output   string // Captured standard output
	Stderr   string // Captured standard error
	Cause    error  // Underlying exec error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	var b strings.Builder
	switch {
	case e.ExitCode > 0:
		fmt.Fprintf(&b, "%s: exit status %d", e.Command, e.ExitCode)
	case e.Cause != nil:
		fmt.Fprintf(&b, "%s: %v", e.Command, e.Cause)
	default:
		fmt.Fprintf(&b, "%s: failed", e.Command)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, ": %s", firstLine(s))
	}
	return b.String()
}

// Unwrap returns the underlying exec error.
func (e *CommandError) Unwrap() error {
	return e.Cause
}

// CommandOutput returns the captured standard output of the first
// *CommandError in err's chain, or "" if there is none.
func CommandOutput(err error) string {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce.Output
	}
	return ""
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
