package cli

import (
	"context"
	"fmt"

	"github.com/mrgen-dev/mrgen/internal/git"
	"github.com/mrgen-dev/mrgen/internal/output"
	"github.com/mrgen-dev/mrgen/internal/report"
	"github.com/mrgen-dev/mrgen/internal/workspace"
	"github.com/spf13/cobra"
)

// reportOptions reads the report tuning flags.
func reportOptions(cmd *cobra.Command) (report.Options, error) {
	jobs, _ := cmd.Flags().GetInt("jobs")
	limit, _ := cmd.Flags().GetInt("limit")
	skip, _ := cmd.Flags().GetBool("skip-invalid-paths")

	if jobs < 1 {
		return report.Options{}, invalidFlag("--jobs", fmt.Sprintf("must be at least 1, got %d", jobs))
	}
	if limit < 0 {
		return report.Options{}, invalidFlag("--limit", fmt.Sprintf("must not be negative, got %d", limit))
	}

	return report.Options{
		Jobs:             jobs,
		Limit:            limit,
		SkipInvalidPaths: skip,
		WarningWriter:    cmd.ErrOrStderr(),
	}, nil
}

// runReport is the root command: config, workspace, repository, then report.
func runReport(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	opts, err := reportOptions(cmd)
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

	return writeReport(cmd.Context(), cmd, repo, ws, format, opts)
}

// writeReport generates one report and streams it to stdout.
func writeReport(ctx context.Context, cmd *cobra.Command, repo *git.Repository, ws *workspace.Workspace, format output.Format, opts report.Options) error {
	w, err := output.NewRecordWriter(cmd.OutOrStdout(), format, outputOptions(cmd))
	if err != nil {
		return err
	}

	spin := newSpinner(cmd, fmt.Sprintf("Walking commits for %s", ws.Path))
	opts.OnProgress = spin.Update

	spin.Start()
	summary, err := report.New(repo, ws, opts).Run(ctx, w.WriteRecord)
	spin.Stop(err == nil)
	if err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return output.WriteSummary(cmd.ErrOrStderr(), summary, output.Options{Color: output.ColorEnabled(cmd.ErrOrStderr())})
	}
	return nil
}
