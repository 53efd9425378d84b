package cli

import (
	"github.com/mrgen-dev/mrgen/internal/cli/shared"
	clierrors "github.com/mrgen-dev/mrgen/internal/errors"
	"github.com/mrgen-dev/mrgen/internal/filter"
	"github.com/mrgen-dev/mrgen/internal/output"
	"github.com/spf13/cobra"
)

var checkPathCmd = &cobra.Command{
	Use:   "check-path PATH...",
	Short: "Explain whether paths pass a workspace's rule",
	Long: `Explain whether each path passes the selected workspace's inclusion rule,
and which pattern decided it. Paths are repository-relative with forward
slashes, as git reports them. The repository is not read.`,
	Example: `  mrgen check-path src/main.go docs/README.md
  mrgen check-path -w services/api services/api/handler.go`,
	Args: checkPathArgs,
	RunE: runCheckPath,
}

func init() {
	checkPathCmd.GroupID = shared.GroupInspect
	rootCmd.AddCommand(checkPathCmd)
}

func checkPathArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(),
			"Pass one or more repository-relative paths")
	}
	return nil
}

func runCheckPath(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	ws, err := selectWorkspace(cmd)
	if err != nil {
		return err
	}

	decisions := make([]filter.Decision, len(args))
	for i, path := range args {
		decisions[i] = filter.Decide(ws.Rule, path)
	}
	return output.WriteDecisions(cmd.OutOrStdout(), format, decisions, outputOptions(cmd))
}
