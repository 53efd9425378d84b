package cli

import (
	"os"

	"github.com/mrgen-dev/mrgen/internal/config"
	clierrors "github.com/mrgen-dev/mrgen/internal/errors"
	"github.com/mrgen-dev/mrgen/internal/git"
	"github.com/mrgen-dev/mrgen/internal/output"
	"github.com/mrgen-dev/mrgen/internal/progress"
	"github.com/mrgen-dev/mrgen/internal/workspace"
	"github.com/spf13/cobra"
)

// loadConfig loads the configuration named by --config. When the flag is
// left at its default, .mrgen.yml and .mrgen.json are accepted as well.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	path, _ := cmd.Flags().GetString("config")
	if !cmd.Flags().Changed("config") {
		path = config.FindConfigPath(".")
	}
	return config.LoadWithOptions(config.LoadOptions{
		Path:          path,
		WarningWriter: cmd.ErrOrStderr(),
	})
}

// workspaceOptions reads the flags that adjust workspace resolution.
func workspaceOptions(cmd *cobra.Command) workspace.Options {
	legacy, _ := cmd.Flags().GetBool("has-prefix")
	return workspace.Options{LegacyV: legacy}
}

// selectWorkspace loads the configuration and selects the --workspace entry.
func selectWorkspace(cmd *cobra.Command) (*workspace.Workspace, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	path, _ := cmd.Flags().GetString("workspace")
	return workspace.Select(cfg, path, workspaceOptions(cmd))
}

// openRepository opens the --repo repository.
func openRepository(cmd *cobra.Command) (*git.Repository, error) {
	path, _ := cmd.Flags().GetString("repo")
	repo, err := git.Open(path)
	if err != nil {
		return nil, clierrors.NotARepository(path, err)
	}
	return repo, nil
}

// outputFormat validates --format.
func outputFormat(cmd *cobra.Command) (output.Format, error) {
	name, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(name)
	if err != nil {
		return "", clierrors.InvalidFormat(name)
	}
	return format, nil
}

// outputOptions returns rendering options for the command's stdout.
func outputOptions(cmd *cobra.Command) output.Options {
	return output.Options{Color: output.ColorEnabled(cmd.OutOrStdout())}
}

// newSpinner returns a walk spinner on stderr. It stays disabled when
// --no-progress or --debug is set, when stderr is not a terminal, or when
// stdout is a terminal that the report itself is printed to.
func newSpinner(cmd *cobra.Command, label string) *progress.WalkSpinner {
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	debug, _ := cmd.Flags().GetBool("debug")

	var caps progress.TerminalCapabilities
	stderr, ok := cmd.ErrOrStderr().(*os.File)
	if ok && !noProgress && !debug && !output.IsTerminal(cmd.OutOrStdout()) {
		caps = progress.DetectTerminalCapabilities(stderr)
	}
	return progress.NewWalkSpinner(cmd.ErrOrStderr(), caps, label)
}
