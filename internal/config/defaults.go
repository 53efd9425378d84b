package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# mrgen configuration
# See 'mrgen --help' for commands.

# Tag matching (global defaults, overridable per workspace)
tag_prefix: ""                        # Literal prefix of release tags (e.g. "v", "api-v")
tag_match: strict                     # strict | legacy_v (accept a bare v/V when tag_prefix is empty)

# Commit message settings (accepted and validated, not used for range selection)
# type_captures:
#   - "^(?P<type>[a-z]+)(\\((?P<scope>[^)]+)\\))?(?P<breaking>!)?:"
# headings:
#   feat: Features
#   fix: Bug Fixes
# others_heading: Others
# breaking_changes_heading: Breaking Changes

workspaces:
  # Everything counts except docs, but the docs README still does
  - path: .
    files_include_all_first:
      excludes:
        - "^docs/"
      includes_finally:
        - "^docs/README\\.md$"

  # Only files under the workspace count, tests excluded
  # - path: libs/core
  #   tag_prefix: "core-v"
  #   files_exclude_all_first:
  #     includes:
  #       - "^libs/core/"
  #     excludes_finally:
  #       - "_test\\.go$"
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		// tag_match: strict prefix matching unless legacy v/V sniffing is asked for.
		"tag_match": "strict",
	}
}
