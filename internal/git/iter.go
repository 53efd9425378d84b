package git

import (
	"errors"
	"io"

	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// CommitIter lazily yields the commits of a walked range. It follows the
// go-git iterator contract: Next returns io.EOF when exhausted.
type CommitIter struct {
	iter object.CommitIter
}

// Next returns the next commit in the range.
func (i *CommitIter) Next() (*Commit, error) {
	if i.iter == nil {
		return nil, io.EOF
	}
	c, err := i.iter.Next()
	if err != nil {
		return nil, err
	}
	return newCommit(c), nil
}

// ForEach calls fn for every remaining commit. Returning storer.ErrStop from
// fn ends the iteration without error.
func (i *CommitIter) ForEach(fn func(*Commit) error) error {
	defer i.Close()
	for {
		c, err := i.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			if errors.Is(err, storer.ErrStop) {
				return nil
			}
			return err
		}
	}
}

// Close releases the underlying iterator.
func (i *CommitIter) Close() {
	if i.iter != nil {
		i.iter.Close()
	}
}
