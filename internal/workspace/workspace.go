// Package workspace selects the configured workspace a run operates on and
// resolves its effective tag matching options and inclusion rule.
package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mrgen-dev/mrgen/internal/config"
	"github.com/mrgen-dev/mrgen/internal/filter"
	"github.com/mrgen-dev/mrgen/internal/tags"
)

// Workspace is a resolved, immutable view of one configured workspace.
type Workspace struct {
	// Path is the configured path, verbatim.
	Path string
	// Rule decides which changed paths count toward the workspace.
	Rule filter.Rule
	// Tags holds the effective tag prefix and match mode.
	Tags tags.Options
	// Conf is the raw workspace block, including its general settings.
	Conf *config.WorkspaceConf
}

// NotFoundError reports a requested workspace path that matches no
// configured workspace.
type NotFoundError struct {
	Path      string
	Available []string
}

func (e *NotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("workspace %q not found: no workspaces configured", e.Path)
	}
	return fmt.Sprintf("workspace %q not found (configured: %s)", e.Path, strings.Join(e.Available, ", "))
}

// Options adjusts how workspaces are resolved.
type Options struct {
	// LegacyV forces tags.MatchLegacyV regardless of configuration.
	LegacyV bool
}

// Select returns the workspace whose path equals requested. Both sides are
// compared after filepath.Clean, so "./services/api/" selects "services/api".
func Select(cfg *config.Configuration, requested string, opts Options) (*Workspace, error) {
	want := normalize(requested)
	for i := range cfg.Workspaces {
		ws := &cfg.Workspaces[i]
		if normalize(ws.Path) == want {
			return resolve(cfg, ws, opts)
		}
	}
	return nil, &NotFoundError{Path: requested, Available: Paths(cfg)}
}

// All resolves every configured workspace in configuration order.
func All(cfg *config.Configuration, opts Options) ([]*Workspace, error) {
	out := make([]*Workspace, 0, len(cfg.Workspaces))
	for i := range cfg.Workspaces {
		ws, err := resolve(cfg, &cfg.Workspaces[i], opts)
		if err != nil {
			return nil, err
		}
		out = append(out, ws)
	}
	return out, nil
}

// Paths lists the configured workspace paths in configuration order.
func Paths(cfg *config.Configuration) []string {
	paths := make([]string, len(cfg.Workspaces))
	for i, ws := range cfg.Workspaces {
		paths[i] = ws.Path
	}
	return paths
}

func resolve(cfg *config.Configuration, ws *config.WorkspaceConf, opts Options) (*Workspace, error) {
	rule, err := ws.Rule()
	if err != nil {
		return nil, err
	}

	mode, err := tags.ParseMatchMode(ws.EffectiveTagMatch(cfg))
	if err != nil {
		return nil, fmt.Errorf("workspace %q: %w", ws.Path, err)
	}
	if opts.LegacyV {
		mode = tags.MatchLegacyV
	}

	return &Workspace{
		Path: ws.Path,
		Rule: rule,
		Tags: tags.Options{Prefix: ws.EffectiveTagPrefix(cfg), Mode: mode},
		Conf: ws,
	}, nil
}

func normalize(path string) string {
	return filepath.Clean(filepath.FromSlash(strings.TrimSpace(path)))
}
