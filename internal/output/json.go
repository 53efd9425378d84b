package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mrgen-dev/mrgen/internal/report"
)

// jsonWriter emits one JSON object per line.
type jsonWriter struct {
	enc *json.Encoder
}

func newJSONWriter(w io.Writer) *jsonWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &jsonWriter{enc: enc}
}

func (j *jsonWriter) WriteRecord(r report.Record) error {
	if err := j.enc.Encode(newRecordView(r)); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	return nil
}

func (j *jsonWriter) Close() error { return nil }

// writeJSON writes v as one indented JSON document.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
