package config

import (
	"fmt"

	"github.com/mrgen-dev/mrgen/internal/filter"
)

// Rule compiles the workspace's inclusion rule into its filter variant.
func (w *WorkspaceConf) Rule() (filter.Rule, error) {
	switch w.RuleMode() {
	case "files_include_all_first":
		excludes, err := filter.Compile(w.IncludeAllFirst.Excludes)
		if err != nil {
			return nil, fmt.Errorf("excludes%w", err)
		}
		finally, err := filter.Compile(w.IncludeAllFirst.IncludesFinally)
		if err != nil {
			return nil, fmt.Errorf("includes_finally%w", err)
		}
		return filter.IncludeAllFirst{Excludes: excludes, IncludesFinally: finally}, nil

	case "files_exclude_all_first":
		includes, err := filter.Compile(w.ExcludeAllFirst.Includes)
		if err != nil {
			return nil, fmt.Errorf("includes%w", err)
		}
		finally, err := filter.Compile(w.ExcludeAllFirst.ExcludesFinally)
		if err != nil {
			return nil, fmt.Errorf("excludes_finally%w", err)
		}
		return filter.ExcludeAllFirst{Includes: includes, ExcludesFinally: finally}, nil

	case "conflicting":
		return nil, fmt.Errorf("workspace %q: files_include_all_first and files_exclude_all_first are mutually exclusive", w.Path)
	default:
		return nil, fmt.Errorf("workspace %q: no file inclusion rule configured", w.Path)
	}
}
