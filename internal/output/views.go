package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mrgen-dev/mrgen/internal/filter"
	"github.com/mrgen-dev/mrgen/internal/report"
	"github.com/mrgen-dev/mrgen/internal/tags"
	"github.com/mrgen-dev/mrgen/internal/workspace"
)

type tagView struct {
	Tag     string `json:"tag" yaml:"tag"`
	Version string `json:"version" yaml:"version"`
}

type tagsView struct {
	Workspace string    `json:"workspace" yaml:"workspace"`
	Prefix    string    `json:"prefix" yaml:"prefix"`
	Match     string    `json:"match" yaml:"match"`
	Versions  []tagView `json:"versions" yaml:"versions"`
	Latest    string    `json:"latest" yaml:"latest"`
}

// WriteTags renders resolved versions, most recent first, followed by the
// most recent tag.
func WriteTags(w io.Writer, format Format, ws *workspace.Workspace, res tags.Resolution, opts Options) error {
	view := tagsView{
		Workspace: ws.Path,
		Prefix:    ws.Tags.Prefix,
		Match:     ws.Tags.Mode.String(),
		Versions:  make([]tagView, len(res.Versions)),
		Latest:    res.LatestName(),
	}
	for i, v := range res.Versions {
		view.Versions[i] = tagView{Tag: v.Name, Version: v.Version.String()}
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, view)
	case FormatYAML:
		return writeYAML(w, view)
	}

	pal := newPalette(opts.Color)
	ew := &errWriter{w: w}
	for _, v := range view.Versions {
		ew.printf("%s\n", v.Version)
	}
	ew.printf("%s %s\n", pal.label.Sprint("Most recent tag:"), pal.commit.Sprint(view.Latest))
	return ew.err
}

type workspaceView struct {
	Path   string `json:"path" yaml:"path"`
	Mode   string `json:"mode" yaml:"mode"`
	Prefix string `json:"tag_prefix" yaml:"tag_prefix"`
	Match  string `json:"tag_match" yaml:"tag_match"`
}

// WriteWorkspaces renders the configured workspaces in configuration order.
func WriteWorkspaces(w io.Writer, format Format, workspaces []*workspace.Workspace, opts Options) error {
	views := make([]workspaceView, len(workspaces))
	for i, ws := range workspaces {
		views[i] = workspaceView{
			Path:   ws.Path,
			Mode:   string(ws.Rule.Mode()),
			Prefix: ws.Tags.Prefix,
			Match:  ws.Tags.Mode.String(),
		}
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, views)
	case FormatYAML:
		return writeYAML(w, views)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tRULE\tTAG PREFIX\tTAG MATCH")
	for _, v := range views {
		prefix := v.Prefix
		if prefix == "" {
			prefix = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.Path, v.Mode, prefix, v.Match)
	}
	return tw.Flush()
}

type decisionView struct {
	Path     string `json:"path" yaml:"path"`
	Included bool   `json:"included" yaml:"included"`
	Reason   string `json:"reason" yaml:"reason"`
	Matched  string `json:"matched,omitempty" yaml:"matched,omitempty"`
	Override string `json:"override,omitempty" yaml:"override,omitempty"`
}

// WriteDecisions renders filter verdicts for individual paths.
func WriteDecisions(w io.Writer, format Format, decisions []filter.Decision, opts Options) error {
	views := make([]decisionView, len(decisions))
	for i, d := range decisions {
		views[i] = decisionView{
			Path:     d.Path,
			Included: d.Included,
			Reason:   d.Reason(),
			Matched:  d.Matched,
			Override: d.Override,
		}
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, views)
	case FormatYAML:
		return writeYAML(w, views)
	}

	pal := newPalette(opts.Color)
	ew := &errWriter{w: w}
	for _, v := range views {
		verdict := pal.excluded.Sprint("excluded")
		if v.Included {
			verdict = pal.included.Sprint("included")
		}
		ew.printf("%s %s %s\n", verdict, v.Path, pal.dim.Sprintf("(%s)", v.Reason))
	}
	return ew.err
}

// WriteSummary renders a one-line run summary, meant for stderr.
func WriteSummary(w io.Writer, s *report.Summary, opts Options) error {
	pal := newPalette(opts.Color)
	latest := s.Latest
	if latest == "" {
		latest = "none"
	}
	msg := fmt.Sprintf("%s: %d of %d commits in %s touch the workspace (latest tag: %s)",
		s.Workspace, s.Reported, s.Walked, s.Range, latest)
	if s.Truncated {
		msg += ", stopped at limit"
	}
	if s.SkippedPaths > 0 {
		msg += fmt.Sprintf(", %d invalid path(s) skipped", s.SkippedPaths)
	}
	_, err := fmt.Fprintln(w, pal.dim.Sprint(msg))
	return err
}
