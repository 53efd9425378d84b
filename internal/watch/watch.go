// Package watch re-runs a callback whenever a repository's HEAD, branches or
// tags change. It watches the git directory with fsnotify and coalesces
// bursts of ref updates into a single run.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for ref updates to settle.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches the refs of one git directory.
type Watcher struct {
	gitDir   string
	debounce time.Duration
	warn     io.Writer
	watcher  *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the settle delay between the last change and a run.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithWarningWriter sets where callback and watcher errors are reported.
func WithWarningWriter(out io.Writer) Option {
	return func(w *Watcher) {
		w.warn = out
	}
}

// New creates a watcher for gitDir (the .git directory, not the worktree).
func New(gitDir string, opts ...Option) (*Watcher, error) {
	if gitDir == "" {
		return nil, errors.New("watch requires an on-disk git directory")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		gitDir:   gitDir,
		debounce: DefaultDebounce,
		warn:     os.Stderr,
		watcher:  fw,
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.addTree(); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// addTree watches the git directory itself (HEAD, packed-refs) and every
// directory below refs/.
func (w *Watcher) addTree() error {
	if err := w.watcher.Add(w.gitDir); err != nil {
		return fmt.Errorf("watching %s: %w", w.gitDir, err)
	}

	refs := filepath.Join(w.gitDir, "refs")
	err := filepath.WalkDir(refs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				return fmt.Errorf("watching %s: %w", path, err)
			}
		}
		return nil
	})
	return err
}

// Run calls fn once, then again after every settled burst of ref changes,
// until ctx is done. Errors from fn are reported and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	w.call(ctx, fn)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			w.track(event)
			if w.Relevant(event.Name) {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			fmt.Fprintf(w.warn, "Warning: watcher error: %v\n", err)
		case <-timer.C:
			w.call(ctx, fn)
		}
	}
}

func (w *Watcher) call(ctx context.Context, fn func(context.Context) error) {
	if err := fn(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(w.warn, "Warning: %v\n", err)
	}
}

// track starts watching directories created below refs/.
func (w *Watcher) track(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) || !w.underRefs(event.Name) {
		return
	}
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if err := w.watcher.Add(event.Name); err != nil {
			fmt.Fprintf(w.warn, "Warning: cannot watch %s: %v\n", event.Name, err)
		}
	}
}

// Relevant reports whether a change to path can move HEAD or a tag.
// Lock files are ignored; git renames them into place when done.
func (w *Watcher) Relevant(path string) bool {
	if strings.HasSuffix(path, ".lock") {
		return false
	}
	if w.underRefs(path) {
		return true
	}
	switch filepath.Base(path) {
	case "HEAD", "packed-refs":
		return filepath.Dir(path) == filepath.Clean(w.gitDir)
	}
	return false
}

func (w *Watcher) underRefs(path string) bool {
	rel, err := filepath.Rel(w.gitDir, path)
	if err != nil {
		return false
	}
	return rel == "refs" || strings.HasPrefix(rel, "refs"+string(filepath.Separator))
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
