// Package cli implements the mrgen command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrgen-dev/mrgen/internal/cli/shared"
	clierrors "github.com/mrgen-dev/mrgen/internal/errors"
	"github.com/mrgen-dev/mrgen/internal/git"
	"github.com/mrgen-dev/mrgen/internal/report"
	"github.com/mrgen-dev/mrgen/internal/tags"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mrgen",
	Short: "Report the commits since the last release that touch a workspace",
	Long: `mrgen finds the most recent release tag of a workspace, walks the commits
from that tag (exclusive) to HEAD, and prints every commit whose changed files
pass the workspace's include/exclude rules.

Workspaces, tag prefixes and rules are read from .mrgen.yaml.`,
	Example: `  # Report for the repository root workspace
  mrgen

  # Report for one workspace, as JSON lines
  mrgen -w services/api -f json

  # Accept bare v-tags (v1.2.3) when no tag prefix is configured
  mrgen -p`,
	Args:              noArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupDebug,
	RunE:              runReport,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: shared.GroupReport, Title: "Report Commands:"},
		&cobra.Group{ID: shared.GroupInspect, Title: "Inspection Commands:"},
		&cobra.Group{ID: shared.GroupSetup, Title: "Setup Commands:"},
	)

	pf := rootCmd.PersistentFlags()
	pf.StringP("config", "c", ".mrgen.yaml", "Configuration file path")
	pf.StringP("repo", "r", ".", "Git repository path")
	pf.StringP("workspace", "w", ".", "Workspace path, as configured")
	pf.BoolP("has-prefix", "p", false, "Accept a bare v/V before versions when no tag prefix is configured")
	pf.StringP("format", "f", "text", "Output format: text, json or yaml")
	pf.Bool("debug", false, "Enable debug logging")
	pf.Bool("verbose", false, "Print a run summary to stderr")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(),
			fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()))
	})

	addReportFlags(rootCmd)
}

// noArgs rejects positional arguments with an argument error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(),
			fmt.Sprintf("Run '%s --help' for available commands", cmd.CommandPath()))
	}
	return nil
}

// addReportFlags registers the flags that tune report generation.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("jobs", "j", 1, "Parallel diff workers")
	cmd.Flags().Int("limit", 0, "Stop after N relevant commits (0 = no limit)")
	cmd.Flags().Bool("skip-invalid-paths", false, "Skip changed paths that are not valid UTF-8 instead of failing")
	cmd.Flags().Bool("no-progress", false, "Disable the progress spinner")
}

// Execute runs the root command. Errors are printed to stderr before they
// are returned.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(err)
	}
	return err
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	return shared.ExitCode(err)
}

func printError(err error) {
	var exitErr *shared.ExitError
	if errors.As(err, &exitErr) {
		return
	}
	clierrors.FprintError(rootCmd.ErrOrStderr(), shared.Classify(err))
}

// setupDebug wires the package debug loggers when --debug is set.
func setupDebug(cmd *cobra.Command, _ []string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	if !debug {
		setDebugLoggers(nil)
		return nil
	}

	w := cmd.ErrOrStderr()
	setDebugLoggers(func(format string, args ...any) {
		fmt.Fprintf(w, "[debug] "+format+"\n", args...)
	})
	return nil
}

func setDebugLoggers(logger func(format string, args ...any)) {
	git.SetDebugLogger(logger)
	tags.SetDebugLogger(logger)
	report.SetDebugLogger(logger)
}
