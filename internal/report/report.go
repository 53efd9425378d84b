// Package report generates the per-commit file report for one workspace:
// it resolves the most recent release tag, walks the commits after it and
// emits every commit whose changed paths survive the workspace rule.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mrgen-dev/mrgen/internal/filter"
	"github.com/mrgen-dev/mrgen/internal/git"
	"github.com/mrgen-dev/mrgen/internal/tags"
	"github.com/mrgen-dev/mrgen/internal/workspace"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for report generation.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Record is one relevant commit and its filtered changed paths.
type Record struct {
	Commit *git.Commit
	Files  []string
}

// Summary describes a finished run.
type Summary struct {
	Workspace string
	// Versions are the parsed release tags, most recent first.
	Versions []tags.TagVersion
	// Latest is the literal name of the lower bound tag, "" for full history.
	Latest string
	// Range is the walked revision range, e.g. "v1.2.0..HEAD".
	Range string
	// Walked counts the commits examined.
	Walked int
	// Reported counts the records emitted.
	Reported int
	// SkippedPaths counts paths dropped because they were not valid UTF-8.
	SkippedPaths int
	// Truncated is set when Limit stopped the walk early.
	Truncated bool
}

// Options tunes a run.
type Options struct {
	// Jobs is the number of parallel diff workers. Values below 2 diff
	// sequentially.
	Jobs int
	// Limit stops the run after this many records. 0 means no limit.
	Limit int
	// SkipInvalidPaths drops paths that are not valid UTF-8 with a warning
	// instead of failing the run.
	SkipInvalidPaths bool
	// WarningWriter receives warnings (default: os.Stderr).
	WarningWriter io.Writer
	// OnProgress, when set, is called after each examined commit.
	OnProgress func(walked, reported int)
}

// Generator produces reports for one workspace of one repository.
type Generator struct {
	repo *git.Repository
	ws   *workspace.Workspace
	opts Options
}

// New returns a generator for ws over repo.
func New(repo *git.Repository, ws *workspace.Workspace, opts Options) *Generator {
	if opts.WarningWriter == nil {
		opts.WarningWriter = os.Stderr
	}
	return &Generator{repo: repo, ws: ws, opts: opts}
}

// Resolve lists the repository tags and resolves them under the workspace's
// tag options.
func (g *Generator) Resolve() (tags.Resolution, error) {
	names, err := g.repo.TagNames()
	if err != nil {
		return tags.Resolution{}, err
	}
	res := tags.Resolve(names, g.ws.Tags)
	logDebug("[report] workspace %s: %d of %d tags matched prefix %q (%s)",
		g.ws.Path, len(res.Versions), len(names), g.ws.Tags.Prefix, g.ws.Tags.Mode)
	return res, nil
}

// Run walks the range after the most recent release tag and calls emit for
// every commit whose filtered path set is non-empty, most recent first.
// An error returned by emit aborts the run and is returned unchanged.
func (g *Generator) Run(ctx context.Context, emit func(Record) error) (*Summary, error) {
	res, err := g.Resolve()
	if err != nil {
		return nil, err
	}

	latest := res.LatestName()
	summary := &Summary{
		Workspace: g.ws.Path,
		Versions:  res.Versions,
		Latest:    latest,
		Range:     git.RangeExpression(latest),
	}

	iter, err := g.repo.Walk(latest)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	if g.opts.Jobs > 1 {
		err = g.runParallel(ctx, iter, summary, emit)
	} else {
		err = g.runSequential(ctx, iter, summary, emit)
	}
	if err != nil {
		return nil, err
	}

	logDebug("[report] %s: walked %d commits, reported %d", summary.Range, summary.Walked, summary.Reported)
	return summary, nil
}

func (g *Generator) runSequential(ctx context.Context, iter *git.CommitIter, summary *Summary, emit func(Record) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c, err := iter.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("walking %s: %w", summary.Range, err)
		}

		d := g.diff(g.repo, c)
		if d.err != nil {
			return d.err
		}
		done, err := g.handle(d, summary, emit)
		if err != nil || done {
			return err
		}
	}
}

// diffed is the outcome of diffing one commit.
type diffed struct {
	commit *git.Commit
	paths  []string
	// invalid holds paths skipped for not being valid UTF-8.
	invalid *git.EncodingError
	err     error
}

// diff computes one commit's changed paths, absorbing encoding failures
// when SkipInvalidPaths is set. It touches no shared state.
func (g *Generator) diff(repo *git.Repository, c *git.Commit) diffed {
	paths, err := repo.ChangedPaths(c.ID)
	if err == nil {
		return diffed{commit: c, paths: paths}
	}

	var encErr *git.EncodingError
	if g.opts.SkipInvalidPaths && errors.As(err, &encErr) {
		return diffed{commit: c, paths: paths, invalid: encErr}
	}
	return diffed{commit: c, err: err}
}

// handle filters one diffed commit and emits it when relevant. It reports
// done once the limit is reached.
func (g *Generator) handle(d diffed, summary *Summary, emit func(Record) error) (bool, error) {
	summary.Walked++

	if d.invalid != nil {
		fmt.Fprintf(g.opts.WarningWriter, "Warning: skipping %d path(s) of commit %s that are not valid UTF-8\n",
			len(d.invalid.Paths), d.commit.ID)
		summary.SkippedPaths += len(d.invalid.Paths)
	}

	files := filter.Apply(g.ws.Rule, d.paths)
	if len(files) > 0 {
		if err := emit(Record{Commit: d.commit, Files: files}); err != nil {
			return true, err
		}
		summary.Reported++
	}

	if g.opts.OnProgress != nil {
		g.opts.OnProgress(summary.Walked, summary.Reported)
	}

	if g.opts.Limit > 0 && summary.Reported >= g.opts.Limit {
		summary.Truncated = true
		return true, nil
	}
	return false, nil
}
