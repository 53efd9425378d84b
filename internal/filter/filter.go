// Package filter decides which changed file paths count toward a workspace.
//
// A workspace carries exactly one Rule, which is one of two closed variants:
//
//   - IncludeAllFirst: every path is included unless it matches an Excludes
//     pattern, and an IncludesFinally match overrides that exclusion.
//   - ExcludeAllFirst: every path is excluded unless it matches an Includes
//     pattern, and an ExcludesFinally match overrides that inclusion.
//
// Filtering is a pure function of (rule, paths). Surviving paths keep their
// input order.
package filter

import (
	"fmt"
	"regexp"
)

// Mode names a rule variant.
type Mode string

const (
	ModeIncludeAllFirst Mode = "files_include_all_first"
	ModeExcludeAllFirst Mode = "files_exclude_all_first"
)

// Rule is the sealed set of inclusion rule variants.
// Only IncludeAllFirst and ExcludeAllFirst implement it.
type Rule interface {
	Mode() Mode
	sealed()
}

// IncludeAllFirst includes by default.
type IncludeAllFirst struct {
	Excludes        []*regexp.Regexp
	IncludesFinally []*regexp.Regexp
}

// Mode implements Rule.
func (IncludeAllFirst) Mode() Mode { return ModeIncludeAllFirst }
func (IncludeAllFirst) sealed()    {}

// ExcludeAllFirst excludes by default.
type ExcludeAllFirst struct {
	Includes        []*regexp.Regexp
	ExcludesFinally []*regexp.Regexp
}

// Mode implements Rule.
func (ExcludeAllFirst) Mode() Mode { return ModeExcludeAllFirst }
func (ExcludeAllFirst) sealed()    {}

// Decision explains the verdict for a single path.
type Decision struct {
	Path     string
	Included bool
	// Matched is the first-stage pattern that matched, if any
	// (an Excludes pattern for IncludeAllFirst, an Includes pattern for ExcludeAllFirst).
	Matched string
	// Override is the final-stage pattern that reversed Matched, if any.
	Override string
}

// Reason renders the decision as a short human readable phrase.
func (d Decision) Reason() string {
	switch {
	case d.Matched == "" && d.Included:
		return "included by default"
	case d.Matched == "":
		return "excluded by default"
	case d.Override != "" && d.Included:
		return fmt.Sprintf("excluded by %q, re-included by %q", d.Matched, d.Override)
	case d.Override != "":
		return fmt.Sprintf("included by %q, re-excluded by %q", d.Matched, d.Override)
	case d.Included:
		return fmt.Sprintf("included by %q", d.Matched)
	default:
		return fmt.Sprintf("excluded by %q", d.Matched)
	}
}

// Decide evaluates rule against a single path.
func Decide(rule Rule, path string) Decision {
	d := Decision{Path: path}

	switch r := rule.(type) {
	case IncludeAllFirst:
		d.Included = true
		if m := firstMatch(r.Excludes, path); m != nil {
			d.Matched = m.String()
			d.Included = false
			if o := firstMatch(r.IncludesFinally, path); o != nil {
				d.Override = o.String()
				d.Included = true
			}
		}
	case *IncludeAllFirst:
		return Decide(*r, path)
	case ExcludeAllFirst:
		if m := firstMatch(r.Includes, path); m != nil {
			d.Matched = m.String()
			d.Included = true
			if o := firstMatch(r.ExcludesFinally, path); o != nil {
				d.Override = o.String()
				d.Included = false
			}
		}
	case *ExcludeAllFirst:
		return Decide(*r, path)
	default:
		panic(fmt.Sprintf("filter: unknown rule type %T", rule))
	}

	return d
}

// Includes reports whether rule includes path.
func Includes(rule Rule, path string) bool {
	return Decide(rule, path).Included
}

// Apply returns the subset of paths that rule includes, in input order.
// The result is never nil.
func Apply(rule Rule, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if Includes(rule, p) {
			out = append(out, p)
		}
	}
	return out
}

// Relevant reports whether any of paths is included by rule.
func Relevant(rule Rule, paths []string) bool {
	for _, p := range paths {
		if Includes(rule, p) {
			return true
		}
	}
	return false
}

// Compile compiles a list of patterns, failing on the first invalid one.
// The returned error names the offending index.
func Compile(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("[%d]: invalid regular expression %q: %w", i, p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// MustCompile is like Compile but panics on error. Intended for tests and
// static rule tables.
func MustCompile(patterns ...string) []*regexp.Regexp {
	out, err := Compile(patterns)
	if err != nil {
		panic(err)
	}
	return out
}

func firstMatch(patterns []*regexp.Regexp, path string) *regexp.Regexp {
	for _, re := range patterns {
		if re.MatchString(path) {
			return re
		}
	}
	return nil
}
