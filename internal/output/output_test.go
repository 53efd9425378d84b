// Package output tests record, tag, workspace and verdict rendering.
// Related: internal/output/output.go, internal/output/text.go, internal/output/views.go
// Tags: output, text, json, yaml

package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/mrgen-dev/mrgen/internal/filter"
	"github.com/mrgen-dev/mrgen/internal/git"
	"github.com/mrgen-dev/mrgen/internal/report"
	"github.com/mrgen-dev/mrgen/internal/tags"
	"github.com/mrgen-dev/mrgen/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var (
	commitID = plumbing.NewHash("1111111111111111111111111111111111111111")
	parentID = plumbing.NewHash("2222222222222222222222222222222222222222")
)

func sampleRecord() report.Record {
	return report.Record{
		Commit: &git.Commit{
			ID:          commitID,
			AuthorName:  "Ada",
			AuthorEmail: "ada@example.com",
			When:        time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			Message:     "feat: add parser\n\nLonger body.\n",
			Parents:     []plumbing.Hash{parentID},
		},
		Files: []string{"src/parser.go", "docs/README.md"},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		want    Format
		wantErr bool
	}{
		"empty defaults to text": {input: "", want: FormatText},
		"text":                   {input: "text", want: FormatText},
		"json uppercase":         {input: "JSON", want: FormatJSON},
		"yaml":                   {input: " yaml ", want: FormatYAML},
		"unknown":                {input: "xml", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unsupported output format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextRecord(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w, err := NewRecordWriter(&buf, FormatText, Options{})
	require.NoError(t, err)
	require.NoError(t, w.WriteRecord(sampleRecord()))
	require.NoError(t, w.Close())

	want := "Commit: " + commitID.String() + "\n" +
		"Author: Ada <ada@example.com>\n" +
		"Message: feat: add parser\n  \n  Longer body.\n" +
		"Files:\n" +
		"  src/parser.go\n" +
		"  docs/README.md\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestTextRecord_Colored(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w, err := NewRecordWriter(&buf, FormatText, Options{Color: true})
	require.NoError(t, err)
	require.NoError(t, w.WriteRecord(sampleRecord()))

	assert.Contains(t, buf.String(), "\x1b[")
}

func TestJSONRecords(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w, err := NewRecordWriter(&buf, FormatJSON, Options{})
	require.NoError(t, err)
	require.NoError(t, w.WriteRecord(sampleRecord()))
	require.NoError(t, w.WriteRecord(sampleRecord()))
	require.NoError(t, w.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2, "one object per line")

	var got recordView
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	assert.Equal(t, commitID.String(), got.Commit)
	assert.Equal(t, "Ada <ada@example.com>", got.Author)
	assert.Equal(t, "2024-01-02T03:04:05Z", got.Date)
	assert.Equal(t, "feat: add parser\n\nLonger body.", got.Message)
	assert.Equal(t, []string{parentID.String()}, got.Parents)
	assert.Equal(t, []string{"src/parser.go", "docs/README.md"}, got.Files)
}

func TestYAMLRecords(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w, err := NewRecordWriter(&buf, FormatYAML, Options{})
	require.NoError(t, err)
	require.NoError(t, w.WriteRecord(sampleRecord()))
	require.NoError(t, w.WriteRecord(sampleRecord()))
	require.NoError(t, w.Close())

	dec := yaml.NewDecoder(&buf)
	count := 0
	for {
		var got recordView
		if err := dec.Decode(&got); err != nil {
			break
		}
		assert.Equal(t, commitID.String(), got.Commit)
		count++
	}
	assert.Equal(t, 2, count)
}

func TestNewRecordWriter_Unknown(t *testing.T) {
	t.Parallel()

	_, err := NewRecordWriter(&bytes.Buffer{}, Format("xml"), Options{})
	assert.Error(t, err)
}

func testWorkspace() *workspace.Workspace {
	return &workspace.Workspace{
		Path: "services/api",
		Rule: filter.IncludeAllFirst{Excludes: filter.MustCompile(`^docs/`)},
		Tags: tags.Options{Prefix: "api-v"},
	}
}

func testResolution() tags.Resolution {
	return tags.Resolve([]string{"api-v1.0.0", "api-v1.2.0", "api-v1.1.0"}, tags.Options{Prefix: "api-v"})
}

func TestWriteTags_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteTags(&buf, FormatText, testWorkspace(), testResolution(), Options{}))
	assert.Equal(t, "1.2.0\n1.1.0\n1.0.0\nMost recent tag: api-v1.2.0\n", buf.String())
}

func TestWriteTags_EmptyText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteTags(&buf, FormatText, testWorkspace(), tags.Resolution{}, Options{}))
	assert.Equal(t, "Most recent tag: \n", buf.String())
}

func TestWriteTags_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteTags(&buf, FormatJSON, testWorkspace(), testResolution(), Options{}))

	var got tagsView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "api-v1.2.0", got.Latest)
	assert.Equal(t, "strict", got.Match)
	require.Len(t, got.Versions, 3)
	assert.Equal(t, tagView{Tag: "api-v1.2.0", Version: "1.2.0"}, got.Versions[0])
}

func TestWriteTags_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteTags(&buf, FormatYAML, testWorkspace(), testResolution(), Options{}))

	var got tagsView
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "api-v1.2.0", got.Latest)
}

func TestWriteWorkspaces(t *testing.T) {
	t.Parallel()

	root := &workspace.Workspace{Path: ".", Rule: filter.ExcludeAllFirst{}, Tags: tags.Options{Mode: tags.MatchLegacyV}}
	all := []*workspace.Workspace{testWorkspace(), root}

	var text bytes.Buffer
	require.NoError(t, WriteWorkspaces(&text, FormatText, all, Options{}))
	lines := strings.Split(strings.TrimSpace(text.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"PATH", "RULE", "TAG", "PREFIX", "TAG", "MATCH"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"services/api", "files_include_all_first", "api-v", "strict"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{".", "files_exclude_all_first", "-", "legacy_v"}, strings.Fields(lines[2]))

	var js bytes.Buffer
	require.NoError(t, WriteWorkspaces(&js, FormatJSON, all, Options{}))
	var got []workspaceView
	require.NoError(t, json.Unmarshal(js.Bytes(), &got))
	assert.Equal(t, workspaceView{Path: ".", Mode: "files_exclude_all_first", Match: "legacy_v"}, got[1])
}

func TestWriteDecisions(t *testing.T) {
	t.Parallel()

	rule := filter.IncludeAllFirst{
		Excludes:        filter.MustCompile(`^docs/`),
		IncludesFinally: filter.MustCompile(`^docs/README\.md$`),
	}
	decisions := []filter.Decision{
		filter.Decide(rule, "docs/README.md"),
		filter.Decide(rule, "docs/other.md"),
		filter.Decide(rule, "src/main.go"),
	}

	var text bytes.Buffer
	require.NoError(t, WriteDecisions(&text, FormatText, decisions, Options{}))
	assert.Equal(t,
		"included docs/README.md (excluded by \"^docs/\", re-included by \"^docs/README\\\\.md$\")\n"+
			"excluded docs/other.md (excluded by \"^docs/\")\n"+
			"included src/main.go (included by default)\n",
		text.String())

	var js bytes.Buffer
	require.NoError(t, WriteDecisions(&js, FormatJSON, decisions, Options{}))
	var got []decisionView
	require.NoError(t, json.Unmarshal(js.Bytes(), &got))
	require.Len(t, got, 3)
	assert.True(t, got[0].Included)
	assert.Equal(t, "^docs/", got[0].Matched)
	assert.Equal(t, `^docs/README\.md$`, got[0].Override)
	assert.False(t, got[1].Included)
}

func TestWriteSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, &report.Summary{
		Workspace:    ".",
		Latest:       "v1.0.0",
		Range:        "v1.0.0..HEAD",
		Walked:       5,
		Reported:     2,
		Truncated:    true,
		SkippedPaths: 1,
	}, Options{}))

	assert.Equal(t, ".: 2 of 5 commits in v1.0.0..HEAD touch the workspace (latest tag: v1.0.0), stopped at limit, 1 invalid path(s) skipped\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteSummary(&buf, &report.Summary{Workspace: ".", Range: "HEAD"}, Options{}))
	assert.Contains(t, buf.String(), "(latest tag: none)")
}

func TestColorEnabled_NonTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, ColorEnabled(&bytes.Buffer{}))
}

func TestIsTerminal_NonFile(t *testing.T) {
	t.Parallel()

	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
