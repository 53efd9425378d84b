// Package testutil provides test utilities and helpers for mrgen tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// baseTime anchors commit timestamps so walk order is deterministic.
var baseTime = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

// RepoBuilder creates commits and tags in a throwaway repository.
// Every commit is one minute younger than the previous one.
type RepoBuilder struct {
	t    testing.TB
	Repo *git.Repository
	// Dir is the worktree root for on-disk repositories, "" for in-memory ones.
	Dir     string
	fs      billy.Filesystem
	wt      *git.Worktree
	commits int
}

// NewMemoryRepo creates an empty in-memory repository.
func NewMemoryRepo(t testing.TB) *RepoBuilder {
	t.Helper()

	repo, err := git.Init(memory.NewStorage(), memfs.New())
	if err != nil {
		t.Fatalf("initializing memory repository: %v", err)
	}
	return newBuilder(t, repo, "")
}

// NewDiskRepo creates an empty repository under t.TempDir().
func NewDiskRepo(t testing.TB) *RepoBuilder {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("initializing repository in %s: %v", dir, err)
	}
	return newBuilder(t, repo, dir)
}

func newBuilder(t testing.TB, repo *git.Repository, dir string) *RepoBuilder {
	t.Helper()

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("getting worktree: %v", err)
	}
	return &RepoBuilder{t: t, Repo: repo, Dir: dir, fs: wt.Filesystem, wt: wt}
}

// Commit writes files (path -> content), removes the listed paths, and
// records a commit with the given message.
func (b *RepoBuilder) Commit(message string, files map[string]string, remove ...string) plumbing.Hash {
	b.t.Helper()

	for path, content := range files {
		if err := util.WriteFile(b.fs, path, []byte(content), 0o644); err != nil {
			b.t.Fatalf("writing %s: %v", path, err)
		}
		if _, err := b.wt.Add(path); err != nil {
			b.t.Fatalf("staging %s: %v", path, err)
		}
	}
	for _, path := range remove {
		if _, err := b.wt.Remove(path); err != nil {
			b.t.Fatalf("removing %s: %v", path, err)
		}
	}

	b.commits++
	sig := &object.Signature{
		Name:  "Test Author",
		Email: "author@example.com",
		When:  baseTime.Add(time.Duration(b.commits) * time.Minute),
	}
	hash, err := b.wt.Commit(message, &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: true,
	})
	if err != nil {
		b.t.Fatalf("committing %q: %v", message, err)
	}
	return hash
}

// Tag creates a lightweight tag.
func (b *RepoBuilder) Tag(name string, target plumbing.Hash) {
	b.t.Helper()

	if _, err := b.Repo.CreateTag(name, target, nil); err != nil {
		b.t.Fatalf("creating tag %s: %v", name, err)
	}
}

// AnnotatedTag creates an annotated tag object.
func (b *RepoBuilder) AnnotatedTag(name string, target plumbing.Hash, message string) {
	b.t.Helper()

	_, err := b.Repo.CreateTag(name, target, &git.CreateTagOptions{
		Tagger:  &object.Signature{Name: "Tagger", Email: "tagger@example.com", When: baseTime},
		Message: message,
	})
	if err != nil {
		b.t.Fatalf("creating annotated tag %s: %v", name, err)
	}
}

// WriteFile writes content to dir/name and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}
