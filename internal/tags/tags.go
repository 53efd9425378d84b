// Package tags resolves repository tag names into semantic versions.
// Tags are matched under an optional literal prefix, parsed with strict
// SemVer 2.0.0 grammar, and ordered by SemVer precedence. Tags that do not
// parse are dropped silently; resolution never fails.
package tags

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MatchMode selects how tag names are matched against a prefix.
type MatchMode int

const (
	// MatchStrict only accepts tags that start with the configured prefix.
	MatchStrict MatchMode = iota
	// MatchLegacyV behaves like MatchStrict, but when the prefix is empty a
	// single leading "v" or "V" is also stripped before parsing.
	MatchLegacyV
)

// String returns the configuration name of the mode.
func (m MatchMode) String() string {
	switch m {
	case MatchStrict:
		return "strict"
	case MatchLegacyV:
		return "legacy_v"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// ParseMatchMode converts a configuration value into a MatchMode.
// An empty string selects MatchStrict.
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return MatchStrict, nil
	case "legacy_v", "legacy-v", "legacy":
		return MatchLegacyV, nil
	default:
		return MatchStrict, fmt.Errorf("unknown tag match mode %q (expected: strict, legacy_v)", s)
	}
}

// Options controls tag matching.
type Options struct {
	Prefix string
	Mode   MatchMode
}

// TagVersion pairs a literal tag name with the version parsed from it.
// Name is what the repository calls the tag and is what range walking uses,
// so the prefix used for stripping is always the one used for lookup.
type TagVersion struct {
	Name    string
	Version *semver.Version
}

// String returns the bare version (without prefix).
func (t TagVersion) String() string {
	return t.Version.String()
}

// Resolution is the outcome of resolving a list of tag names.
type Resolution struct {
	// Versions holds every parsed tag, most recent first.
	Versions []TagVersion
	// Latest is the most recent tag, or nil when no tag parsed.
	Latest *TagVersion
}

// LatestName returns the literal name of the most recent tag, or "" when
// there is none. An empty name means the range has no lower bound.
func (r Resolution) LatestName() string {
	if r.Latest == nil {
		return ""
	}
	return r.Latest.Name
}

// Parse attempts to turn a single tag name into a TagVersion.
// It reports false if the name does not carry the prefix or the remainder
// is not a strict semantic version.
func Parse(name string, opts Options) (TagVersion, bool) {
	if !strings.HasPrefix(name, opts.Prefix) {
		return TagVersion{}, false
	}
	rest := name[len(opts.Prefix):]

	if opts.Mode == MatchLegacyV && opts.Prefix == "" {
		if strings.HasPrefix(rest, "v") || strings.HasPrefix(rest, "V") {
			rest = rest[1:]
		}
	}

	v, err := semver.StrictNewVersion(rest)
	if err != nil {
		logDebug("[tags] dropping %q: %v", name, err)
		return TagVersion{}, false
	}
	return TagVersion{Name: name, Version: v}, true
}

// Resolve parses every name, drops the ones that do not match, and orders
// the rest by descending precedence. Equal versions keep their input order.
func Resolve(names []string, opts Options) Resolution {
	versions := make([]TagVersion, 0, len(names))
	for _, name := range names {
		if tv, ok := Parse(name, opts); ok {
			versions = append(versions, tv)
		}
	}

	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].Version.GreaterThan(versions[j].Version)
	})

	res := Resolution{Versions: versions}
	if len(versions) > 0 {
		latest := versions[0]
		res.Latest = &latest
	}

	logDebug("[tags] resolved %d of %d tags (prefix=%q, mode=%s), latest=%q",
		len(versions), len(names), opts.Prefix, opts.Mode, res.LatestName())
	return res
}

var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for tag resolution.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}
