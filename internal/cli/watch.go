package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mrgen-dev/mrgen/internal/cli/shared"
	clierrors "github.com/mrgen-dev/mrgen/internal/errors"
	"github.com/mrgen-dev/mrgen/internal/output"
	"github.com/mrgen-dev/mrgen/internal/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the report whenever HEAD or tags change",
	Long: `Print the report for the selected workspace, then print it again every time
HEAD, a branch or a tag of the repository changes. Bursts of ref updates
(a fetch, a rebase) are coalesced into one run.

Errors from a single run are reported as warnings and watching continues.
Press Ctrl+C to exit.`,
	Example: `  # Follow the root workspace
  mrgen watch

  # Follow one workspace as JSON lines, settling for one second
  mrgen watch -w services/api -f json --debounce 1s`,
	Args: noArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.GroupID = shared.GroupReport
	addReportFlags(watchCmd)
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "Settle delay after a ref change (e.g. 300ms, 1s)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	opts, err := reportOptions(cmd)
	if err != nil {
		return err
	}
	debounce, _ := cmd.Flags().GetDuration("debounce")
	if debounce < 10*time.Millisecond {
		return invalidFlag("--debounce", fmt.Sprintf("must be at least 10ms, got %s", debounce))
	}

	ws, err := selectWorkspace(cmd)
	if err != nil {
		return err
	}
	repo, err := openRepository(cmd)
	if err != nil {
		return err
	}
	if repo.GitDir() == "" {
		return clierrors.NewRuntimeError("watch requires an on-disk repository")
	}

	w, err := watch.New(repo.GitDir(),
		watch.WithDebounce(debounce),
		watch.WithWarningWriter(cmd.ErrOrStderr()),
	)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	defer w.Close()

	dim := color.New(color.Faint)
	if !output.ColorEnabled(cmd.ErrOrStderr()) {
		dim.DisableColor()
	}
	width := output.GetTerminalWidth()

	runs := 0
	return w.Run(cmd.Context(), func(ctx context.Context) error {
		runs++
		if runs > 1 {
			stamp := fmt.Sprintf(" %s ", time.Now().Format("15:04:05"))
			fmt.Fprintln(cmd.ErrOrStderr(), dim.Sprint(strings.Repeat("-", 3)+stamp+strings.Repeat("-", max(0, width-len(stamp)-3))))
		}

		// Packs and refs written after the initial open are only seen by a
		// fresh handle.
		fresh, err := repo.Reopen()
		if err != nil {
			return err
		}
		return writeReport(ctx, cmd, fresh, ws, format, opts)
	})
}
