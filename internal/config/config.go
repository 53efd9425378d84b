// Package config loads the mrgen configuration document using koanf.
// Values are layered with priority: environment variables (MRGEN_TAG_PREFIX,
// MRGEN_TAG_MATCH) > configuration file (.mrgen.yaml, or .json) > defaults.
// The document carries a global general block and a list of workspaces, each
// with a path, exactly one file inclusion rule and its own general block.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "MRGEN_"

// envKeys lists the keys environment variables may override.
var envKeys = map[string]bool{
	"tag_prefix": true,
	"tag_match":  true,
}

// ProcessingConf is a search/replace pair applied to commit titles.
type ProcessingConf struct {
	Search  string `koanf:"search" validate:"required"`
	Replace string `koanf:"replace"`
}

// GeneralConf holds the settings shared by the global block and every
// workspace. Only TagPrefix and TagMatch drive range selection; the commit
// message classification fields are accepted and validated but not used.
type GeneralConf struct {
	PreCaptures                          []string          `koanf:"pre_captures"`
	PreCapturesAfterTrim                 string            `koanf:"pre_captures_after_trim"`
	TypeCaptures                         []string          `koanf:"type_captures"`
	TypeCapturesAfterTrim                string            `koanf:"type_captures_after_trim"`
	TypeCapturesAllowBreakingChangeGroup *bool             `koanf:"type_captures_allow_breaking_change_group"`
	BreakingChangeLineCaptures           []string          `koanf:"breaking_change_line_captures"`
	BreakingChangeLineCapturesAfterTrim  string            `koanf:"breaking_change_line_captures_after_trim"`
	TitleLeftTrim                        string            `koanf:"title_left_trim"`
	TitleRightTrim                       string            `koanf:"title_right_trim"`
	SupportedTypes                       map[string]string `koanf:"supported_types"`
	Headings                             map[string]string `koanf:"headings"`
	OthersHeading                        string            `koanf:"others_heading"`
	BreakingChangesHeading               string            `koanf:"breaking_changes_heading"`
	CapitalizeTitleFirstChar             *bool             `koanf:"capitalize_title_first_char"`
	Preprocessing                        *ProcessingConf   `koanf:"preprocessing"`
	Postprocessing                       *ProcessingConf   `koanf:"postprocessing"`

	// TagPrefix is the literal prefix release tags carry. Nil means unset,
	// which lets a workspace inherit the global value.
	TagPrefix *string `koanf:"tag_prefix"`
	// TagMatch selects tag matching: "strict" or "legacy_v". Empty inherits.
	TagMatch string `koanf:"tag_match" validate:"omitempty,oneof=strict legacy_v"`
}

// IncludeAllFirstConf is the files_include_all_first rule.
type IncludeAllFirstConf struct {
	Excludes        []string `koanf:"excludes"`
	IncludesFinally []string `koanf:"includes_finally"`
}

// ExcludeAllFirstConf is the files_exclude_all_first rule.
type ExcludeAllFirstConf struct {
	Includes        []string `koanf:"includes"`
	ExcludesFinally []string `koanf:"excludes_finally"`
}

// WorkspaceConf is one configured workspace. Exactly one of IncludeAllFirst
// and ExcludeAllFirst must be set.
type WorkspaceConf struct {
	Path            string               `koanf:"path" validate:"required"`
	IncludeAllFirst *IncludeAllFirstConf `koanf:"files_include_all_first"`
	ExcludeAllFirst *ExcludeAllFirstConf `koanf:"files_exclude_all_first"`
	GeneralConf     `koanf:",squash"`
}

// Configuration is the whole mrgen configuration document.
type Configuration struct {
	GeneralConf `koanf:",squash"`
	Workspaces  []WorkspaceConf `koanf:"workspaces" validate:"required,min=1,dive"`

	// Source is the file the configuration was loaded from.
	Source string `koanf:"-"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// Path is the configuration file (default: .mrgen.yaml)
	Path string
	// WarningWriter receives configuration warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses configuration warnings
	SkipWarnings bool
	// SkipEnv ignores MRGEN_* environment overrides
	SkipEnv bool
}

// Load loads configuration from the given file, environment and defaults.
func Load(path string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{Path: path})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	path := opts.Path
	if path == "" {
		path = DefaultConfigPath
	}

	loadDefaults(k)

	if err := loadFileConfig(k, path); err != nil {
		return nil, err
	}

	if !opts.SkipEnv {
		if err := loadEnvironmentConfig(k); err != nil {
			return nil, err
		}
	}

	cfg, err := finalizeConfig(k, path)
	if err != nil {
		return nil, err
	}

	if !opts.SkipWarnings {
		emitWarnings(cfg, warningWriter)
	}
	return cfg, nil
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadFileConfig validates and loads the configuration file. The parser is
// picked by extension: .json uses JSON, anything else YAML.
func loadFileConfig(k *koanf.Koanf, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{FilePath: path, Message: fmt.Sprintf("cannot read configuration file: %v", err)}
	}
	if info.IsDir() {
		return &ValidationError{FilePath: path, Message: "is a directory, not a configuration file"}
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return &ValidationError{FilePath: path, Message: fmt.Sprintf("parsing JSON: %v", err)}
		}
		return nil
	}

	if err := ValidateYAMLSyntax(path); err != nil {
		return err
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return &ValidationError{FilePath: path, Message: fmt.Sprintf("parsing YAML: %v", err)}
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// envTransform converts environment variable names to config keys.
// Example: MRGEN_TAG_PREFIX -> tag_prefix. Unknown keys are dropped.
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if !envKeys[key] {
		return ""
	}
	return key
}

// finalizeConfig unmarshals and validates the merged configuration.
func finalizeConfig(k *koanf.Koanf, path string) (*Configuration, error) {
	var cfg Configuration
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		},
	})
	if err != nil {
		return nil, &ValidationError{FilePath: path, Message: cleanDecodeError(err)}
	}

	cfg.Source = path

	if err := ValidateConfigValues(&cfg, path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// emitWarnings reports settings that are accepted but have no effect.
func emitWarnings(cfg *Configuration, w io.Writer) {
	for _, ws := range cfg.Workspaces {
		mode := ws.TagMatch
		if mode == "" {
			mode = cfg.TagMatch
		}
		if mode == "legacy_v" && ws.EffectiveTagPrefix(cfg) != "" {
			fmt.Fprintf(w, "Warning: workspace %q sets tag_match: legacy_v with a non-empty tag_prefix\n", ws.Path)
			fmt.Fprintf(w, "  Implicit v/V stripping only applies when tag_prefix is empty.\n\n")
		}
	}
}

// EffectiveTagPrefix returns the workspace tag prefix, falling back to the
// global one, then to "".
func (w *WorkspaceConf) EffectiveTagPrefix(global *Configuration) string {
	if w.TagPrefix != nil {
		return *w.TagPrefix
	}
	if global != nil && global.TagPrefix != nil {
		return *global.TagPrefix
	}
	return ""
}

// EffectiveTagMatch returns the workspace tag match mode, falling back to the
// global one, then to "strict".
func (w *WorkspaceConf) EffectiveTagMatch(global *Configuration) string {
	if w.TagMatch != "" {
		return w.TagMatch
	}
	if global != nil && global.TagMatch != "" {
		return global.TagMatch
	}
	return "strict"
}

// RuleMode names the workspace's inclusion rule, or "" when none is set.
func (w *WorkspaceConf) RuleMode() string {
	switch {
	case w.IncludeAllFirst != nil && w.ExcludeAllFirst != nil:
		return "conflicting"
	case w.IncludeAllFirst != nil:
		return "files_include_all_first"
	case w.ExcludeAllFirst != nil:
		return "files_exclude_all_first"
	default:
		return ""
	}
}

// cleanDecodeError strips mapstructure's multi-error framing.
func cleanDecodeError(err error) string {
	msg := err.Error()
	msg = strings.TrimPrefix(msg, "decoding failed due to the following error(s):\n\n")
	return strings.TrimSpace(msg)
}
