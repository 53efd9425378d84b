// Package shared provides constants and types used across CLI subpackages.
package shared

import (
	"errors"
	"fmt"

	clierrors "github.com/mrgen-dev/mrgen/internal/errors"
)

// Exit codes for the mrgen CLI.
// These codes support programmatic composition and CI/CD integration.
const (
	// ExitSuccess indicates successful command execution, including reports
	// with zero relevant commits.
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure or an undecodable changed path.
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments or flags.
	ExitInvalidArguments = 2

	// ExitConfigError indicates invalid configuration or an unknown workspace.
	ExitConfigError = 3

	// ExitRepositoryError indicates the repository or commit range could not be read.
	ExitRepositoryError = 4
)

// Command group IDs for help output.
const (
	GroupReport  = "report"
	GroupInspect = "inspect"
	GroupSetup   = "setup"
)

// ExitError carries an explicit exit code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError returns an error that makes the process exit with code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return CategoryExitCode(Classify(err).Category)
}

// CategoryExitCode returns the exit code for an error category.
func CategoryExitCode(c clierrors.ErrorCategory) int {
	switch c {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Configuration, clierrors.Workspace:
		return ExitConfigError
	case clierrors.Repository:
		return ExitRepositoryError
	default:
		return ExitFailure
	}
}
