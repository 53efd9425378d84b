package cli

import (
	"github.com/mrgen-dev/mrgen/internal/cli/shared"
	"github.com/mrgen-dev/mrgen/internal/output"
	"github.com/mrgen-dev/mrgen/internal/workspace"
	"github.com/spf13/cobra"
)

var workspacesCmd = &cobra.Command{
	Use:     "workspaces",
	Aliases: []string{"ws"},
	Short:   "List configured workspaces (ws)",
	Long: `List the configured workspaces in configuration order, with the inclusion
rule mode and the effective tag prefix and tag matching of each.`,
	Example: `  mrgen workspaces
  mrgen ws -f yaml`,
	Args: noArgs,
	RunE: runWorkspaces,
}

func init() {
	workspacesCmd.GroupID = shared.GroupInspect
	rootCmd.AddCommand(workspacesCmd)
}

func runWorkspaces(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	all, err := workspace.All(cfg, workspaceOptions(cmd))
	if err != nil {
		return err
	}
	return output.WriteWorkspaces(cmd.OutOrStdout(), format, all, outputOptions(cmd))
}
