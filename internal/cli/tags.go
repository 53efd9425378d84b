package cli

import (
	"github.com/mrgen-dev/mrgen/internal/cli/shared"
	"github.com/mrgen-dev/mrgen/internal/output"
	"github.com/mrgen-dev/mrgen/internal/report"
	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the release versions found for a workspace",
	Long: `List the release versions found for the selected workspace, most recent
first, followed by the most recent tag. The most recent tag is the exclusive
lower bound of the report range; without one the report covers the full
history.

Only tags whose name is the workspace tag prefix followed by a strict SemVer
version are listed.`,
	Example: `  # Versions of the root workspace
  mrgen tags

  # Versions of one workspace, as JSON
  mrgen tags -w services/api -f json`,
	Args: noArgs,
	RunE: runTags,
}

func init() {
	tagsCmd.GroupID = shared.GroupInspect
	rootCmd.AddCommand(tagsCmd)
}

func runTags(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	ws, err := selectWorkspace(cmd)
	if err != nil {
		return err
	}
	repo, err := openRepository(cmd)
	if err != nil {
		return err
	}

	res, err := report.New(repo, ws, report.Options{WarningWriter: cmd.ErrOrStderr()}).Resolve()
	if err != nil {
		return err
	}
	return output.WriteTags(cmd.OutOrStdout(), format, ws, res, outputOptions(cmd))
}
