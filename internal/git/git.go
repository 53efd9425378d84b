// Package git provides the version-control backend for mrgen: tag listing,
// tag resolution, lazy commit-range walking and name-only tree diffs. It uses
// the go-git library exclusively, so no git CLI installation is required.
package git

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// NoMessage replaces commit messages that are empty or not valid text.
const NoMessage = "No message"

// ErrNotReopenable is returned by Reopen for repositories that were not
// opened from a filesystem path.
var ErrNotReopenable = errors.New("repository was not opened from a path")

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Repository is a read-only view over a git repository.
type Repository struct {
	repo *git.Repository
	path string
}

// Open opens the git repository at path, or the current working directory
// when path is empty. Parent directories are searched for .git.
func Open(path string) (*Repository, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}
	return &Repository{repo: repo, path: path}, nil
}

// Wrap adapts an already opened go-git repository, such as an in-memory one.
func Wrap(repo *git.Repository) *Repository {
	return &Repository{repo: repo}
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return repo, nil
}

// Reopen opens an independent handle on the same on-disk repository.
// Handles are not shared across goroutines, so parallel diff workers each
// take their own.
func (r *Repository) Reopen() (*Repository, error) {
	if r.path == "" && r.GitDir() == "" {
		return nil, ErrNotReopenable
	}
	path := r.path
	if path == "" {
		path = r.GitDir()
	}
	return Open(path)
}

// GitDir returns the on-disk git directory, or "" for in-memory storage.
func (r *Repository) GitDir() string {
	if fs, ok := r.repo.Storer.(*filesystem.Storage); ok {
		return fs.Filesystem().Root()
	}
	return ""
}

// TagNames returns the short names of all tags, sorted lexically.
func (r *Repository) TagNames() ([]string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	sort.Strings(names)
	logDebug("[git] TagNames: found %d tags", len(names))
	return names, nil
}

// ResolveTag returns the commit a tag points to. Annotated tags are peeled
// until a commit is reached.
func (r *Repository) ResolveTag(name string) (plumbing.Hash, error) {
	ref, err := r.repo.Tag(name)
	if err != nil {
		return plumbing.ZeroHash, &RangeResolutionError{Ref: name, Err: err}
	}

	hash := ref.Hash()
	for {
		tag, err := r.repo.TagObject(hash)
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			break // lightweight tag or end of chain
		}
		if err != nil {
			return plumbing.ZeroHash, &RangeResolutionError{Ref: name, Err: err}
		}
		hash = tag.Target
	}

	if _, err := r.repo.CommitObject(hash); err != nil {
		return plumbing.ZeroHash, &RangeResolutionError{
			Ref: name,
			Err: fmt.Errorf("tag does not point to a commit: %w", err),
		}
	}

	logDebug("[git] ResolveTag: %s -> %s", name, hash)
	return hash, nil
}

// Head returns the commit HEAD points to. The boolean is false when HEAD is
// unborn (repository without commits).
func (r *Repository) Head() (plumbing.Hash, bool, error) {
	head, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		logDebug("[git] Head: unborn HEAD")
		return plumbing.ZeroHash, false, nil
	}
	if err != nil {
		return plumbing.ZeroHash, false, fmt.Errorf("getting HEAD reference: %w", err)
	}
	return head.Hash(), true, nil
}

// Commit is the metadata of a single commit.
type Commit struct {
	ID          plumbing.Hash
	AuthorName  string
	AuthorEmail string
	When        time.Time
	Message     string
	Parents     []plumbing.Hash
}

// Author renders the author signature as "Name <email>".
func (c *Commit) Author() string {
	return fmt.Sprintf("%s <%s>", c.AuthorName, c.AuthorEmail)
}

// IsRoot reports whether the commit has no parents.
func (c *Commit) IsRoot() bool {
	return len(c.Parents) == 0
}

func newCommit(c *object.Commit) *Commit {
	msg := c.Message
	if strings.TrimSpace(msg) == "" || !utf8.ValidString(msg) {
		msg = NoMessage
	}
	return &Commit{
		ID:          c.Hash,
		AuthorName:  c.Author.Name,
		AuthorEmail: c.Author.Email,
		When:        c.Author.When,
		Message:     msg,
		Parents:     append([]plumbing.Hash(nil), c.ParentHashes...),
	}
}

// CommitByID loads the metadata of a single commit.
func (r *Repository) CommitByID(id plumbing.Hash) (*Commit, error) {
	c, err := r.repo.CommitObject(id)
	if err != nil {
		return nil, fmt.Errorf("loading commit %s: %w", id, err)
	}
	return newCommit(c), nil
}

// ChangedPaths lists the paths changed by a commit relative to its first
// parent. Root commits are compared against the empty tree. Paths are
// trimmed and must be valid UTF-8, otherwise an *EncodingError is returned
// alongside the valid paths collected so far.
func (r *Repository) ChangedPaths(id plumbing.Hash) ([]string, error) {
	c, err := r.repo.CommitObject(id)
	if err != nil {
		return nil, fmt.Errorf("loading commit %s: %w", id, err)
	}

	to, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("loading tree of %s: %w", id, err)
	}

	from := &object.Tree{}
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("loading first parent of %s: %w", id, err)
		}
		if from, err = parent.Tree(); err != nil {
			return nil, fmt.Errorf("loading tree of %s: %w", parent.Hash, err)
		}
	}

	changes, err := object.DiffTree(from, to)
	if err != nil {
		return nil, fmt.Errorf("diffing %s: %w", id, err)
	}

	return changeNames(id, changes)
}

// changeNames extracts deduplicated path names from tree changes.
func changeNames(id plumbing.Hash, changes object.Changes) ([]string, error) {
	seen := make(map[string]struct{}, len(changes))
	paths := make([]string, 0, len(changes))
	var invalid *EncodingError

	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if !utf8.ValidString(name) {
			if invalid == nil {
				invalid = &EncodingError{Commit: id.String()}
			}
			invalid.Paths = append(invalid.Paths, name)
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		paths = append(paths, name)
	}

	for _, ch := range changes {
		add(ch.From.Name)
		add(ch.To.Name)
	}

	logDebug("[git] ChangedPaths: %s changed %d paths", id, len(paths))
	if invalid != nil {
		return paths, invalid
	}
	return paths, nil
}

// Walk enumerates the commits reachable from HEAD but not from lowerTag,
// most recent first. An empty lowerTag walks the whole history. A lowerTag
// that cannot be resolved fails with *RangeResolutionError rather than
// falling back to a full walk.
func (r *Repository) Walk(lowerTag string) (*CommitIter, error) {
	head, ok, err := r.Head()
	if err != nil {
		return nil, err
	}
	if !ok {
		return &CommitIter{}, nil
	}

	headCommit, err := r.repo.CommitObject(head)
	if err != nil {
		return nil, fmt.Errorf("loading HEAD commit: %w", err)
	}

	hidden, err := r.hiddenSet(lowerTag)
	if err != nil {
		return nil, err
	}

	logDebug("[git] Walk: %s (%d hidden commits)", RangeExpression(lowerTag), len(hidden))
	return &CommitIter{iter: object.NewCommitIterCTime(headCommit, hidden, nil)}, nil
}

// hiddenSet collects every commit reachable from lowerTag.
func (r *Repository) hiddenSet(lowerTag string) (map[plumbing.Hash]bool, error) {
	hidden := make(map[plumbing.Hash]bool)
	if lowerTag == "" {
		return hidden, nil
	}

	lower, err := r.ResolveTag(lowerTag)
	if err != nil {
		return nil, err
	}

	lowerCommit, err := r.repo.CommitObject(lower)
	if err != nil {
		return nil, &RangeResolutionError{Ref: lowerTag, Err: err}
	}

	iter := object.NewCommitPreorderIter(lowerCommit, nil, nil)
	defer iter.Close()
	err = iter.ForEach(func(c *object.Commit) error {
		hidden[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking ancestors of %s: %w", lowerTag, err)
	}
	return hidden, nil
}

// RangeExpression renders the walked range in git revision syntax.
func RangeExpression(lowerTag string) string {
	if lowerTag == "" {
		return "HEAD"
	}
	return lowerTag + "..HEAD"
}
