package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a configuration validation error with context
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// ValidateYAMLSyntax checks if the YAML file has valid syntax.
// Returns nil if valid, or a ValidationError with line/column information if invalid.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsPermission(err) {
			return &ValidationError{
				FilePath: filePath,
				Message:  "permission denied",
			}
		}
		return &ValidationError{
			FilePath: filePath,
			Message:  err.Error(),
		}
	}
	return ValidateYAMLSyntaxFromBytes(data, filePath)
}

// ValidateYAMLSyntaxFromBytes checks if YAML data has valid syntax.
// Returns nil if valid, or a ValidationError if invalid.
func ValidateYAMLSyntaxFromBytes(data []byte, filePath string) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return &ValidationError{
			FilePath: filePath,
			Message:  "configuration file is empty",
		}
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		var typeError *yaml.TypeError
		if errors.As(err, &typeError) {
			// yaml.TypeError contains multiple error strings
			return &ValidationError{
				FilePath: filePath,
				Message:  strings.Join(typeError.Errors, "; "),
			}
		}

		line, column := extractLineColumn(err.Error())
		return &ValidationError{
			FilePath: filePath,
			Line:     line,
			Column:   column,
			Message:  cleanYAMLError(err.Error()),
		}
	}

	return nil
}

// newValidator returns a validator that reports fields by their koanf key.
func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// ValidateConfigValues validates configuration values against expected types and constraints.
// Returns nil if valid, or a ValidationError with field information if invalid.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	if err := newValidator().Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			for _, fieldErr := range validationErrors {
				return &ValidationError{
					FilePath: filePath,
					Field:    fieldPath(fieldErr),
					Message:  formatValidationError(fieldErr),
				}
			}
		}
		return &ValidationError{
			FilePath: filePath,
			Message:  err.Error(),
		}
	}

	if err := validateGeneralRegexes(&cfg.GeneralConf, "", filePath); err != nil {
		return err
	}

	seen := make(map[string]int, len(cfg.Workspaces))
	for i := range cfg.Workspaces {
		ws := &cfg.Workspaces[i]
		field := fmt.Sprintf("workspaces[%d]", i)

		if prev, dup := seen[ws.Path]; dup {
			return &ValidationError{
				FilePath: filePath,
				Field:    field + ".path",
				Message:  fmt.Sprintf("duplicate workspace path %q (also workspaces[%d])", ws.Path, prev),
			}
		}
		seen[ws.Path] = i

		if err := validateRuleDiscriminant(ws, field, filePath); err != nil {
			return err
		}
		if _, err := ws.Rule(); err != nil {
			return &ValidationError{FilePath: filePath, Field: field + "." + ws.RuleMode(), Message: err.Error()}
		}
		if err := validateGeneralRegexes(&ws.GeneralConf, field+".", filePath); err != nil {
			return err
		}
	}

	return nil
}

// validateRuleDiscriminant enforces exactly one inclusion rule per workspace.
func validateRuleDiscriminant(ws *WorkspaceConf, field, filePath string) error {
	switch ws.RuleMode() {
	case "conflicting":
		return &ValidationError{
			FilePath: filePath,
			Field:    field,
			Message:  "files_include_all_first and files_exclude_all_first are mutually exclusive",
		}
	case "":
		return &ValidationError{
			FilePath: filePath,
			Field:    field,
			Message:  "one of files_include_all_first or files_exclude_all_first is required",
		}
	}
	return nil
}

// validateGeneralRegexes checks that every regex-valued general setting compiles.
func validateGeneralRegexes(g *GeneralConf, prefix, filePath string) error {
	lists := []struct {
		key      string
		patterns []string
	}{
		{"pre_captures", g.PreCaptures},
		{"type_captures", g.TypeCaptures},
		{"breaking_change_line_captures", g.BreakingChangeLineCaptures},
	}
	for _, l := range lists {
		for i, p := range l.patterns {
			if err := compileCheck(p); err != nil {
				return &ValidationError{FilePath: filePath, Field: fmt.Sprintf("%s%s[%d]", prefix, l.key, i), Message: err.Error()}
			}
		}
	}

	singles := []struct {
		key     string
		pattern string
	}{
		{"pre_captures_after_trim", g.PreCapturesAfterTrim},
		{"type_captures_after_trim", g.TypeCapturesAfterTrim},
		{"breaking_change_line_captures_after_trim", g.BreakingChangeLineCapturesAfterTrim},
		{"title_left_trim", g.TitleLeftTrim},
		{"title_right_trim", g.TitleRightTrim},
	}
	if g.Preprocessing != nil {
		singles = append(singles, struct {
			key     string
			pattern string
		}{"preprocessing.search", g.Preprocessing.Search})
	}
	if g.Postprocessing != nil {
		singles = append(singles, struct {
			key     string
			pattern string
		}{"postprocessing.search", g.Postprocessing.Search})
	}
	for _, s := range singles {
		if s.pattern == "" {
			continue
		}
		if err := compileCheck(s.pattern); err != nil {
			return &ValidationError{FilePath: filePath, Field: prefix + s.key, Message: err.Error()}
		}
	}
	return nil
}

func compileCheck(pattern string) error {
	if _, err := regexp.Compile(pattern); err != nil {
		return fmt.Errorf("invalid regular expression %q: %w", pattern, err)
	}
	return nil
}

// fieldPath renders a validator namespace ("Configuration.workspaces[0].path")
// without its root type name.
func fieldPath(fieldErr validator.FieldError) string {
	ns := strings.ReplaceAll(fieldErr.Namespace(), "GeneralConf.", "")
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}

// extractLineColumn attempts to extract line and column numbers from a YAML error message.
// Returns 0, 0 if unable to extract.
func extractLineColumn(errMsg string) (line, column int) {
	// yaml.v3 errors look like: "yaml: line 5: could not find expected ':'"
	var l, c int
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d: column %d:", &l, &c); n == 2 {
		return l, c
	}
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d:", &l); n == 1 {
		return l, 1
	}
	return 0, 0
}

// cleanYAMLError removes the "yaml: line X:" prefix from error messages for cleaner output.
func cleanYAMLError(errMsg string) string {
	if idx := strings.LastIndex(errMsg, ": "); idx > 0 {
		if strings.HasPrefix(errMsg, "yaml:") {
			return errMsg[idx+2:]
		}
	}
	return errMsg
}

// formatValidationError formats a validation error for a specific field.
func formatValidationError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fieldErr.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed validation: %s", fieldErr.Tag())
	}
}
