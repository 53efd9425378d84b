package cli

import (
	"fmt"
	"os"

	"github.com/mrgen-dev/mrgen/internal/cli/shared"
	"github.com/mrgen-dev/mrgen/internal/config"
	clierrors "github.com/mrgen-dev/mrgen/internal/errors"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented configuration template",
	Long: `Write a commented configuration template to the --config path
(.mrgen.yaml by default). An existing file is left untouched unless --force
is given.`,
	Example: `  # Create .mrgen.yaml in the current directory
  mrgen init

  # Print the template instead of writing it
  mrgen init --stdout`,
	Args: noArgs,
	RunE: runInit,
}

func init() {
	initCmd.GroupID = shared.GroupSetup
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
	initCmd.Flags().Bool("stdout", false, "Print the template to stdout instead of writing a file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	template := config.GetDefaultConfigTemplate()

	toStdout, _ := cmd.Flags().GetBool("stdout")
	force, _ := cmd.Flags().GetBool("force")
	if toStdout && force {
		return clierrors.InvalidFlagCombination("--stdout and --force", "--force only applies when writing a file")
	}
	if toStdout {
		_, err := fmt.Fprint(cmd.OutOrStdout(), template)
		return err
	}

	path, _ := cmd.Flags().GetString("config")
	if _, err := os.Stat(path); err == nil && !force {
		return clierrors.NewConfigError(
			fmt.Sprintf("config file already exists: %s", path),
			"Re-run with --force to overwrite it",
		)
	}

	if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
		return clierrors.FileNotWritable(path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}
