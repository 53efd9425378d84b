package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the mrgen CLI.
// These templates ensure consistent, actionable error messages.

// ConfigFileNotFound creates an error for a missing configuration file.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Run 'mrgen init' to create a default configuration",
		"Or point to an existing file with: mrgen -c <path>",
	)
}

// ConfigInvalid wraps a configuration loading or validation failure.
func ConfigInvalid(err error) *CLIError {
	return Wrap(err, Configuration,
		"Each workspace needs a path and exactly one of files_include_all_first or files_exclude_all_first",
		"Check that every pattern is a valid regular expression",
		"Print a commented template with: mrgen init --stdout",
	)
}

// WorkspaceNotFound creates an error for a workspace path that is not configured.
func WorkspaceNotFound(path string, available []string) *CLIError {
	remediation := []string{"List configured workspaces with: mrgen workspaces"}
	if len(available) > 0 {
		remediation = append(remediation, "Configured paths: "+strings.Join(available, ", "))
	}
	remediation = append(remediation, "Paths are compared exactly, relative to the repository root")
	return NewWorkspaceError(fmt.Sprintf("workspace not found: %s", path), remediation...)
}

// NotARepository creates an error when the repository cannot be opened.
func NotARepository(path string, err error) *CLIError {
	return WrapWithMessage(err, Repository,
		fmt.Sprintf("cannot open git repository at %s", path),
		"Run mrgen inside a git repository",
		"Or point to one with: mrgen -r <path>",
	)
}

// RangeUnresolvable wraps a commit range whose lower bound cannot be resolved.
func RangeUnresolvable(err error) *CLIError {
	return Wrap(err, Repository,
		"Check that the tag exists and points to a commit: git show-ref --tags",
		"Shallow clones may be missing tagged commits; fetch with: git fetch --tags --unshallow",
	)
}

// InvalidPathEncoding wraps a changed path that is not valid UTF-8.
func InvalidPathEncoding(err error) *CLIError {
	return Wrap(err, Encoding,
		"Re-run with --skip-invalid-paths to skip these paths with a warning",
	)
}

// InvalidFormat creates an error for an unsupported output format.
func InvalidFormat(format string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unsupported output format: %s", format),
		"mrgen --format text|json|yaml",
		"Supported formats: text, json, yaml",
	)
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'mrgen <command> --help' to see valid options",
	)
}

// FileNotWritable creates an error when a file cannot be written.
func FileNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure parent directory exists and is writable",
	)
}
