// Package config tests configuration loading, layering and validation.
// Related: internal/config/config.go, internal/config/validate.go, internal/config/rules.go
// Tags: config, koanf, yaml, validation

package config

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/mrgen-dev/mrgen/internal/filter"
	"github.com/mrgen-dev/mrgen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
tag_prefix: "v"
type_captures:
  - "^(?P<type>[a-z]+):"
headings:
  feat: Features
workspaces:
  - path: services/api
    tag_prefix: "api-v"
    files_include_all_first:
      excludes: ["^docs/"]
      includes_finally: ["^docs/README\\.md$"]
  - path: libs/core
    tag_match: legacy_v
    files_exclude_all_first:
      includes: [".*\\.rs$"]
      excludes_finally: ["test_.*\\.rs$"]
`

func load(t *testing.T, name, content string) (*Configuration, error) {
	t.Helper()

	path := testutil.WriteFile(t, t.TempDir(), name, content)
	return LoadWithOptions(LoadOptions{Path: path, SkipEnv: true, SkipWarnings: true})
}

func requireValidationError(t *testing.T, err error) *ValidationError {
	t.Helper()

	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	return vErr
}

func TestLoad_ValidYAML(t *testing.T) {
	t.Parallel()

	cfg, err := load(t, ".mrgen.yaml", validYAML)
	require.NoError(t, err)

	require.Len(t, cfg.Workspaces, 2)
	assert.Equal(t, "services/api", cfg.Workspaces[0].Path)
	assert.Equal(t, "files_include_all_first", cfg.Workspaces[0].RuleMode())
	assert.Equal(t, "files_exclude_all_first", cfg.Workspaces[1].RuleMode())
	assert.Equal(t, []string{"^docs/"}, cfg.Workspaces[0].IncludeAllFirst.Excludes)
	assert.Equal(t, "Features", cfg.Headings["feat"])
	assert.Equal(t, "strict", cfg.TagMatch, "default applies to the global block")
	assert.NotEmpty(t, cfg.Source)
}

func TestLoad_JSON(t *testing.T) {
	t.Parallel()

	cfg, err := load(t, "mrgen.json", `{
  "workspaces": [
    {"path": ".", "files_exclude_all_first": {"includes": ["^src/"]}}
  ]
}`)
	require.NoError(t, err)
	require.Len(t, cfg.Workspaces, 1)
	assert.Equal(t, []string{"^src/"}, cfg.Workspaces[0].ExcludeAllFirst.Includes)
}

func TestLoad_EffectiveTagSettings(t *testing.T) {
	t.Parallel()

	cfg, err := load(t, ".mrgen.yaml", validYAML)
	require.NoError(t, err)

	api, core := &cfg.Workspaces[0], &cfg.Workspaces[1]
	assert.Equal(t, "api-v", api.EffectiveTagPrefix(cfg))
	assert.Equal(t, "v", core.EffectiveTagPrefix(cfg), "falls back to the global prefix")
	assert.Equal(t, "strict", api.EffectiveTagMatch(cfg))
	assert.Equal(t, "legacy_v", core.EffectiveTagMatch(cfg))

	bare := &WorkspaceConf{}
	assert.Equal(t, "", bare.EffectiveTagPrefix(nil))
	assert.Equal(t, "strict", bare.EffectiveTagMatch(nil))
}

func TestLoad_EmptyTagPrefixOverridesGlobal(t *testing.T) {
	t.Parallel()

	cfg, err := load(t, ".mrgen.yaml", `
tag_prefix: "v"
workspaces:
  - path: a
    tag_prefix: ""
    files_include_all_first: {}
`)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Workspaces[0].EffectiveTagPrefix(cfg))
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content   string
		wantField string
		wantMsg   string
	}{
		"both rule shapes": {
			content: `
workspaces:
  - path: a
    files_include_all_first: {}
    files_exclude_all_first: {}
`,
			wantField: "workspaces[0]",
			wantMsg:   "mutually exclusive",
		},
		"missing rule shape": {
			content: `
workspaces:
  - path: a
`,
			wantField: "workspaces[0]",
			wantMsg:   "is required",
		},
		"missing path": {
			content: `
workspaces:
  - files_include_all_first: {}
`,
			wantField: "workspaces[0].path",
			wantMsg:   "is required",
		},
		"no workspaces": {
			content:   "tag_prefix: v\n",
			wantField: "workspaces",
			wantMsg:   "is required",
		},
		"invalid rule regex": {
			content: `
workspaces:
  - path: a
    files_exclude_all_first:
      includes: ["ok", "(broken"]
`,
			wantField: "workspaces[0].files_exclude_all_first",
			wantMsg:   "includes[1]",
		},
		"invalid general regex": {
			content: `
type_captures: ["[unterminated"]
workspaces:
  - path: a
    files_include_all_first: {}
`,
			wantField: "type_captures[0]",
			wantMsg:   "invalid regular expression",
		},
		"invalid workspace general regex": {
			content: `
workspaces:
  - path: a
    title_left_trim: "(("
    files_include_all_first: {}
`,
			wantField: "workspaces[0].title_left_trim",
			wantMsg:   "invalid regular expression",
		},
		"unknown tag match": {
			content: `
tag_match: fuzzy
workspaces:
  - path: a
    files_include_all_first: {}
`,
			wantField: "tag_match",
			wantMsg:   "must be one of",
		},
		"duplicate workspace": {
			content: `
workspaces:
  - path: a
    files_include_all_first: {}
  - path: a
    files_include_all_first: {}
`,
			wantField: "workspaces[1].path",
			wantMsg:   "duplicate",
		},
		"preprocessing without search": {
			content: `
preprocessing:
  replace: x
workspaces:
  - path: a
    files_include_all_first: {}
`,
			wantField: "preprocessing.search",
			wantMsg:   "is required",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := load(t, ".mrgen.yaml", tt.content)
			vErr := requireValidationError(t, err)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Contains(t, vErr.Error(), tt.wantMsg)
		})
	}
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	t.Parallel()

	_, err := load(t, ".mrgen.yaml", `
workspaces:
  - path: a
    files_include_all_frist: {}
    files_include_all_first: {}
`)
	vErr := requireValidationError(t, err)
	assert.Contains(t, vErr.Message, "files_include_all_frist")
}

func TestLoad_SyntaxError(t *testing.T) {
	t.Parallel()

	_, err := load(t, ".mrgen.yaml", "workspaces:\n  - path: a\n   bad: [\n")
	vErr := requireValidationError(t, err)
	assert.Greater(t, vErr.Line, 0)
}

func TestLoad_MissingAndEmptyFiles(t *testing.T) {
	t.Parallel()

	_, err := LoadWithOptions(LoadOptions{Path: filepath.Join(t.TempDir(), "nope.yaml"), SkipEnv: true})
	vErr := requireValidationError(t, err)
	assert.Contains(t, vErr.Message, "cannot read configuration file")

	_, err = load(t, ".mrgen.yaml", "  \n")
	vErr = requireValidationError(t, err)
	assert.Contains(t, vErr.Message, "empty")

	_, err = LoadWithOptions(LoadOptions{Path: t.TempDir(), SkipEnv: true})
	vErr = requireValidationError(t, err)
	assert.Contains(t, vErr.Message, "directory")
}

// Cannot use t.Parallel() as this test manipulates environment variables.
func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("MRGEN_TAG_PREFIX", "release-")
	t.Setenv("MRGEN_TAG_MATCH", "legacy_v")
	t.Setenv("MRGEN_UNRELATED", "ignored")

	path := testutil.WriteFile(t, t.TempDir(), ".mrgen.yaml", validYAML)
	cfg, err := LoadWithOptions(LoadOptions{Path: path, SkipWarnings: true})
	require.NoError(t, err)

	require.NotNil(t, cfg.TagPrefix)
	assert.Equal(t, "release-", *cfg.TagPrefix)
	assert.Equal(t, "legacy_v", cfg.TagMatch)
	assert.Equal(t, "api-v", cfg.Workspaces[0].EffectiveTagPrefix(cfg), "workspace values still win")
}

func TestLoad_Warnings(t *testing.T) {
	t.Parallel()

	path := testutil.WriteFile(t, t.TempDir(), ".mrgen.yaml", `
workspaces:
  - path: a
    tag_prefix: "a-"
    tag_match: legacy_v
    files_include_all_first: {}
`)
	var buf bytes.Buffer
	_, err := LoadWithOptions(LoadOptions{Path: path, SkipEnv: true, WarningWriter: &buf})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `workspace "a" sets tag_match: legacy_v`)
}

func TestWorkspaceConf_Rule(t *testing.T) {
	t.Parallel()

	inc := &WorkspaceConf{Path: "a", IncludeAllFirst: &IncludeAllFirstConf{Excludes: []string{"^docs/"}}}
	rule, err := inc.Rule()
	require.NoError(t, err)
	assert.IsType(t, filter.IncludeAllFirst{}, rule)
	assert.Equal(t, []string{"src/a"}, filter.Apply(rule, []string{"docs/a", "src/a"}))

	exc := &WorkspaceConf{Path: "b", ExcludeAllFirst: &ExcludeAllFirstConf{}}
	rule, err = exc.Rule()
	require.NoError(t, err)
	assert.IsType(t, filter.ExcludeAllFirst{}, rule)

	_, err = (&WorkspaceConf{Path: "c"}).Rule()
	assert.ErrorContains(t, err, "no file inclusion rule")

	_, err = (&WorkspaceConf{
		Path:            "d",
		IncludeAllFirst: &IncludeAllFirstConf{},
		ExcludeAllFirst: &ExcludeAllFirstConf{},
	}).Rule()
	assert.ErrorContains(t, err, "mutually exclusive")

	_, err = (&WorkspaceConf{
		Path:            "e",
		IncludeAllFirst: &IncludeAllFirstConf{IncludesFinally: []string{"("}},
	}).Rule()
	assert.ErrorContains(t, err, "includes_finally[0]")
}

func TestDefaultConfigTemplateLoads(t *testing.T) {
	t.Parallel()

	cfg, err := load(t, ".mrgen.yaml", GetDefaultConfigTemplate())
	require.NoError(t, err)
	require.Len(t, cfg.Workspaces, 1)
	assert.Equal(t, ".", cfg.Workspaces[0].Path)
}

func TestFindConfigPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, ".mrgen.yaml"), FindConfigPath(dir))

	json := testutil.WriteFile(t, dir, ".mrgen.json", "{}")
	assert.Equal(t, json, FindConfigPath(dir))

	yml := testutil.WriteFile(t, dir, ".mrgen.yml", "a: b")
	assert.Equal(t, yml, FindConfigPath(dir))
}

func TestExtractLineColumn(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		msg        string
		wantLine   int
		wantColumn int
	}{
		"line only":       {msg: "yaml: line 5: could not find expected ':'", wantLine: 5, wantColumn: 1},
		"line and column": {msg: "yaml: line 3: column 7: bad", wantLine: 3, wantColumn: 7},
		"no position":     {msg: "something else", wantLine: 0, wantColumn: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			line, col := extractLineColumn(tt.msg)
			assert.Equal(t, tt.wantLine, line)
			assert.Equal(t, tt.wantColumn, col)
		})
	}
}
