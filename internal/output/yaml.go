package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dress2mydoor/dress2mydoor/pkg/dress"
)

// YAMLWriter writes records as a YAML sequence.
type YAMLWriter struct {
	w       *bufio.Writer
	records []dress.Record
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{
		w:       bufio.NewWriter(w),
		records: make([]dress.Record, 0),
	}
}

// Write buffers records.
func (w *YAMLWriter) Write(records []dress.Record) error {
	w.records = append(w.records, records...)
	return nil
}

// Close encodes the buffered records.
func (w *YAMLWriter) Close() error {
	encoder := yaml.NewEncoder(w.w)
	encoder.SetIndent(2)
	if err := encoder.Encode(w.records); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	return w.w.Flush()
}
