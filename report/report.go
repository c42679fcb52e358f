// Package report writes benchmark records as text lines or JSON lines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"fft-contest/bench"
)

// Header returns the column description line for the given engines.
func Header(engines []string) string {
	var sb strings.Builder
	sb.WriteString("[FFT size] [iteration count]")

	for _, name := range engines {
		fmt.Fprintf(&sb, " [%s max error] [%s max error growth] [microseconds per %s]", name, name, name)
	}

	return sb.String()
}

// WriteHeader writes Header(engines) followed by a newline.
func WriteHeader(w io.Writer, engines []string) error {
	_, err := fmt.Fprintln(w, Header(engines))
	return err
}

// FormatLine renders a record as "N K e1 d1 t1 e2 d2 t2 ...".
func FormatLine(rec bench.Record) string {
	fields := make([]string, 0, 2+3*len(rec.Results))
	fields = append(fields, strconv.Itoa(rec.Size), strconv.Itoa(rec.Iterations))

	for _, r := range rec.Results {
		fields = append(fields,
			formatFloat(r.RoundTripError),
			formatFloat(r.DriftError),
			formatFloat(r.MicrosPerOp),
		)
	}

	return strings.Join(fields, " ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// LineWriter is a bench.Listener printing one text line per record.
type LineWriter struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

// NewLineWriter creates a LineWriter on w.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w}
}

// OnRecord writes the record line. The first write error is kept and
// reported by Err; later records are dropped.
func (lw *LineWriter) OnRecord(rec bench.Record) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if lw.err != nil {
		return
	}

	_, lw.err = fmt.Fprintln(lw.w, FormatLine(rec))
}

// Err returns the first write error, if any.
func (lw *LineWriter) Err() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.err
}

// JSONWriter is a bench.Listener printing one JSON object per record.
type JSONWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
	err error
}

// NewJSONWriter creates a JSONWriter on w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{enc: json.NewEncoder(w)}
}

// OnRecord encodes the record.
func (jw *JSONWriter) OnRecord(rec bench.Record) {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if jw.err != nil {
		return
	}

	jw.err = jw.enc.Encode(rec)
}

// Err returns the first encoding error, if any.
func (jw *JSONWriter) Err() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()
	return jw.err
}
