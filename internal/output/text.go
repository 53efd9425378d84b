package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mrgen-dev/mrgen/internal/report"
)

// palette holds the colors used by text output.
type palette struct {
	label    *color.Color
	commit   *color.Color
	file     *color.Color
	included *color.Color
	excluded *color.Color
	dim      *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		label:    color.New(color.Bold),
		commit:   color.New(color.FgYellow),
		file:     color.New(color.FgCyan),
		included: color.New(color.FgGreen, color.Bold),
		excluded: color.New(color.FgRed),
		dim:      color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.label, p.commit, p.file, p.included, p.excluded, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// textWriter renders records as Commit/Author/Message blocks followed by
// the filtered files.
type textWriter struct {
	ew  *errWriter
	pal palette
}

func newTextWriter(w io.Writer, opts Options) *textWriter {
	return &textWriter{ew: &errWriter{w: w}, pal: newPalette(opts.Color)}
}

func (t *textWriter) WriteRecord(r report.Record) error {
	ew, pal := t.ew, t.pal

	ew.printf("%s %s\n", pal.label.Sprint("Commit:"), pal.commit.Sprint(r.Commit.ID))
	ew.printf("%s %s\n", pal.label.Sprint("Author:"), r.Commit.Author())
	ew.printf("%s %s\n", pal.label.Sprint("Message:"), indentContinuation(strings.TrimRight(r.Commit.Message, "\n")))
	ew.printf("%s\n", pal.label.Sprint("Files:"))
	for _, f := range r.Files {
		ew.printf("  %s\n", pal.file.Sprint(f))
	}
	ew.println("")
	return ew.err
}

func (t *textWriter) Close() error { return t.ew.err }

// indentContinuation indents every line after the first by two spaces.
func indentContinuation(s string) string {
	return strings.ReplaceAll(s, "\n", "\n  ")
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
