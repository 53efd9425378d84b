package output

import (
	"fmt"
	"io"

	"github.com/mrgen-dev/mrgen/internal/report"
	"gopkg.in/yaml.v3"
)

// yamlWriter emits one YAML document per record.
type yamlWriter struct {
	enc *yaml.Encoder
}

func newYAMLWriter(w io.Writer) *yamlWriter {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &yamlWriter{enc: enc}
}

func (y *yamlWriter) WriteRecord(r report.Record) error {
	if err := y.enc.Encode(newRecordView(r)); err != nil {
		return fmt.Errorf("writing YAML: %w", err)
	}
	return nil
}

func (y *yamlWriter) Close() error {
	return y.enc.Close()
}

// writeYAML writes v as a single YAML document.
func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing YAML: %w", err)
	}
	return enc.Close()
}
