package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// styles holds the color functions for one rendering. The plain style
// returns its input unchanged.
type styles struct {
	label    func(a ...interface{}) string
	message  func(a ...interface{}) string
	category func(a ...interface{}) string
	heading  func(a ...interface{}) string
	usage    func(a ...interface{}) string
	bullet   func(a ...interface{}) string
}

func plainStyle(a ...interface{}) string { return fmt.Sprint(a...) }

func newStyles(useColors bool, c ErrorCategory) styles {
	if !useColors {
		return styles{plainStyle, plainStyle, plainStyle, plainStyle, plainStyle, plainStyle}
	}
	return styles{
		label:    color.New(color.FgRed, color.Bold).SprintFunc(),
		message:  color.New(color.FgRed).SprintFunc(),
		category: color.New(categoryColor(c)).SprintFunc(),
		heading:  color.New(color.FgGreen, color.Bold).SprintFunc(),
		usage:    color.New(color.FgCyan).SprintFunc(),
		bullet:   color.New(color.FgGreen).SprintFunc(),
	}
}

// categoryColor separates input problems (arguments, configuration,
// workspace) from problems with the repository or its contents.
func categoryColor(c ErrorCategory) color.Attribute {
	switch c {
	case Argument, Configuration, Workspace:
		return color.FgYellow
	case Repository, Encoding:
		return color.FgMagenta
	default:
		return color.FgRed
	}
}

// remediationHeading names the remediation section for a category.
func remediationHeading(c ErrorCategory) string {
	switch c {
	case Configuration:
		return "To fix the configuration:"
	case Workspace:
		return "To select a workspace:"
	case Repository:
		return "To fix the repository or range:"
	case Encoding:
		return "To continue past these paths:"
	default:
		return "To fix this:"
	}
}

// FormatError formats a CLIError for display in the terminal.
// Colors follow fatih/color's terminal detection.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, true)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, false)
}

func formatError(err *CLIError, useColors bool) string {
	st := newStyles(useColors, err.Category)
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s]: %s\n", st.label("Error"), st.category(err.Category.String()), st.message(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", st.usage("Usage: "), st.usage(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", st.heading(remediationHeading(err.Category)))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", st.bullet("•"), step)
		}
	}

	return sb.String()
}

// FprintError prints a formatted CLIError to the given writer.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}
