// Package output renders mrgen reports, tag listings, workspace listings and
// path verdicts as text, JSON or YAML.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mrgen-dev/mrgen/internal/report"
)

// Format is an output format name.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// ParseFormat validates a format name. An empty name selects FormatText.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

// Options controls rendering.
type Options struct {
	// Color enables ANSI colors in text output.
	Color bool
}

// RecordWriter streams report records.
type RecordWriter interface {
	WriteRecord(r report.Record) error
	// Close flushes any buffered output.
	Close() error
}

// NewRecordWriter returns a streaming writer for format.
func NewRecordWriter(w io.Writer, format Format, opts Options) (RecordWriter, error) {
	switch format {
	case FormatText, "":
		return newTextWriter(w, opts), nil
	case FormatJSON:
		return newJSONWriter(w), nil
	case FormatYAML:
		return newYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// recordView is the structured form of a record.
type recordView struct {
	Commit  string   `json:"commit" yaml:"commit"`
	Author  string   `json:"author" yaml:"author"`
	Date    string   `json:"date" yaml:"date"`
	Message string   `json:"message" yaml:"message"`
	Parents []string `json:"parents" yaml:"parents"`
	Files   []string `json:"files" yaml:"files"`
}

func newRecordView(r report.Record) recordView {
	parents := make([]string, len(r.Commit.Parents))
	for i, p := range r.Commit.Parents {
		parents[i] = p.String()
	}
	return recordView{
		Commit:  r.Commit.ID.String(),
		Author:  r.Commit.Author(),
		Date:    r.Commit.When.UTC().Format(time.RFC3339),
		Message: strings.TrimRight(r.Commit.Message, "\n"),
		Parents: parents,
		Files:   r.Files,
	}
}
