package git

import (
	"fmt"
	"strings"
)

// RangeResolutionError reports that the lower bound of a commit range could
// not be resolved to a commit.
type RangeResolutionError struct {
	Ref string
	Err error
}

func (e *RangeResolutionError) Error() string {
	return fmt.Sprintf("resolving range lower bound %q: %v", e.Ref, e.Err)
}

func (e *RangeResolutionError) Unwrap() error {
	return e.Err
}

// EncodingError reports changed paths that are not valid UTF-8.
type EncodingError struct {
	Commit string
	Paths  []string
}

func (e *EncodingError) Error() string {
	quoted := make([]string, len(e.Paths))
	for i, p := range e.Paths {
		quoted[i] = fmt.Sprintf("%q", p)
	}
	return fmt.Sprintf("commit %s: changed paths are not valid UTF-8: %s", e.Commit, strings.Join(quoted, ", "))
}
