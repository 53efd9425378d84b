package report

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mrgen-dev/mrgen/internal/git"
	"golang.org/x/sync/errgroup"
)

// windowFactor bounds how many commits are read ahead per worker.
const windowFactor = 4

// runParallel diffs commits in windows of windowFactor*Jobs using a pool of
// independent repository handles, then filters and emits each window in walk
// order.
func (g *Generator) runParallel(ctx context.Context, iter *git.CommitIter, summary *Summary, emit func(Record) error) error {
	pool, err := g.workerPool()
	if errors.Is(err, git.ErrNotReopenable) {
		logDebug("[report] repository cannot be reopened, diffing sequentially")
		return g.runSequential(ctx, iter, summary, emit)
	}
	if err != nil {
		return err
	}

	window := windowFactor * g.opts.Jobs
	for {
		batch, eof, err := nextBatch(iter, window)
		if err != nil {
			return fmt.Errorf("walking %s: %w", summary.Range, err)
		}

		results, err := g.diffBatch(ctx, pool, batch)
		if err != nil {
			return err
		}
		for _, d := range results {
			if d.err != nil {
				return d.err
			}
			done, err := g.handle(d, summary, emit)
			if err != nil || done {
				return err
			}
		}

		if eof {
			return ctx.Err()
		}
	}
}

// workerPool opens one repository handle per worker.
func (g *Generator) workerPool() (chan *git.Repository, error) {
	pool := make(chan *git.Repository, g.opts.Jobs)
	for i := 0; i < g.opts.Jobs; i++ {
		handle, err := g.repo.Reopen()
		if err != nil {
			return nil, err
		}
		pool <- handle
	}
	logDebug("[report] opened %d worker handles", g.opts.Jobs)
	return pool, nil
}

// nextBatch reads up to n commits. eof reports that the walk is exhausted.
func nextBatch(iter *git.CommitIter, n int) ([]*git.Commit, bool, error) {
	batch := make([]*git.Commit, 0, n)
	for len(batch) < n {
		c, err := iter.Next()
		if errors.Is(err, io.EOF) {
			return batch, true, nil
		}
		if err != nil {
			return nil, false, err
		}
		batch = append(batch, c)
	}
	return batch, false, nil
}

// diffBatch diffs every commit of batch concurrently. Results keep the
// batch order. A failed diff is stored in its result, so it surfaces only
// when the walk reaches that commit.
func (g *Generator) diffBatch(ctx context.Context, pool chan *git.Repository, batch []*git.Commit) ([]diffed, error) {
	results := make([]diffed, len(batch))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cap(pool))

	for i, c := range batch {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			handle := <-pool
			defer func() { pool <- handle }()

			results[i] = g.diff(handle, c)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
