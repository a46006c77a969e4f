package output

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/dress2mydoor/dress2mydoor/pkg/dress"
)

// JSONWriter buffers records and writes them as one JSON array on Close.
type JSONWriter struct {
	w       *bufio.Writer
	pretty  bool
	indent  string
	records []dress.Record
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:       bufio.NewWriter(w),
		pretty:  pretty,
		indent:  indent,
		records: make([]dress.Record, 0),
	}
}

// Write buffers records.
func (w *JSONWriter) Write(records []dress.Record) error {
	w.records = append(w.records, records...)
	return nil
}

// Close writes the buffered array.
func (w *JSONWriter) Close() error {
	enc := json.NewEncoder(w.w)
	if w.pretty {
		enc.SetIndent("", w.indent)
	}
	if err := enc.Encode(w.records); err != nil {
		return err
	}
	return w.w.Flush()
}

// JSONLWriter writes one record per line as soon as it is given.
type JSONLWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	bw := bufio.NewWriter(w)
	return &JSONLWriter{w: bw, enc: json.NewEncoder(bw)}
}

// Write emits each record on its own line.
func (w *JSONLWriter) Write(records []dress.Record) error {
	for _, r := range records {
		if err := w.enc.Encode(r); err != nil {
			return err
		}
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.w.Flush()
}
