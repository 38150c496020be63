// Package audit writes one record per tool invocation. Logging is
// best-effort: a failing sink never changes the tool result.
package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version; bump when Record changes shape.
const schemaVersion uint16 = 1

// Record is one invocation.
type Record struct {
	Schema           uint16    `json:"schema" msgpack:"schema"`
	ID               string    `json:"id" msgpack:"id"`
	Time             time.Time `json:"time" msgpack:"time"`
	Tool             string    `json:"tool" msgpack:"tool"`
	Description      string    `json:"description,omitempty" msgpack:"description,omitempty"`
	Success          bool      `json:"success" msgpack:"success"`
	ElapsedMS        int64     `json:"elapsed_ms" msgpack:"elapsed_ms"`
	Method           string    `json:"method,omitempty" msgpack:"method,omitempty"`
	Retries          int       `json:"retries,omitempty" msgpack:"retries,omitempty"`
	ValidationFailed bool      `json:"validation_failed,omitempty" msgpack:"validation_failed,omitempty"`
	Blocked          bool      `json:"blocked,omitempty" msgpack:"blocked,omitempty"`
	ErrorCategory    string    `json:"error_category,omitempty" msgpack:"error_category,omitempty"`
	RulesVersion     string    `json:"rules_version,omitempty" msgpack:"rules_version,omitempty"`
}

// Logger receives records.
type Logger interface {
	Record(ctx context.Context, rec Record)
}

// NewID returns a fresh invocation id.
func NewID() string {
	return uuid.NewString()
}

// Stamp fills ID, Time and Schema when they are unset.
func Stamp(rec Record) Record {
	if rec.ID == "" {
		rec.ID = NewID()
	}
	if rec.Time.IsZero() {
		rec.Time = time.Now().UTC()
	}
	rec.Schema = schemaVersion
	return rec
}

type nopLogger struct{}

func (nopLogger) Record(context.Context, Record) {}

// Nop discards records.
var Nop Logger = nopLogger{}

// Format is the on-disk encoding.
type Format uint8

const (
	FormatNDJSON Format = iota
	FormatMsgpack
)

// ParseFormat converts "ndjson" or "msgpack".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "ndjson", "jsonl":
		return FormatNDJSON, nil
	case "msgpack":
		return FormatMsgpack, nil
	}
	return FormatNDJSON, fmt.Errorf("invalid audit format: %q (expected: ndjson|msgpack)", s)
}

func (f Format) String() string {
	if f == FormatMsgpack {
		return "msgpack"
	}
	return "ndjson"
}

// Writer appends records to a stream. Thread-safe.
type Writer struct {
	mu     sync.Mutex
	w      *bufio.Writer
	closer io.Closer
	format Format
	json   *json.Encoder
	mp     *msgpack.Encoder
	errs   int
}

// NewWriter wraps w; records are flushed after every write.
func NewWriter(w io.Writer, format Format) *Writer {
	bw := bufio.NewWriter(w)
	aw := &Writer{w: bw, format: format}
	if c, ok := w.(io.Closer); ok {
		aw.closer = c
	}
	switch format {
	case FormatMsgpack:
		aw.mp = msgpack.NewEncoder(bw)
	default:
		aw.json = json.NewEncoder(bw)
	}
	return aw
}

// Open opens path for appending, creating parent directories.
func Open(path string, format Format) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("audit: create directory: %w", err)
		}
	}
	// #nosec G304 -- path comes from operator configuration
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}
	return NewWriter(f, format), nil
}

// Record writes rec. Errors are counted, never returned.
func (w *Writer) Record(_ context.Context, rec Record) {
	rec = Stamp(rec)
	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	if w.mp != nil {
		err = w.mp.Encode(&rec)
	} else {
		err = w.json.Encode(&rec)
	}
	if err == nil {
		err = w.w.Flush()
	}
	if err != nil {
		w.errs++
	}
}

// Errors returns how many records failed to write.
func (w *Writer) Errors() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errs
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	err := w.w.Flush()
	if w.closer != nil && !isStdStream(w.closer) {
		err = errors.Join(err, w.closer.Close())
	}
	return err
}

func isStdStream(c io.Closer) bool {
	f, ok := c.(*os.File)
	return ok && (f == os.Stdout || f == os.Stderr)
}

// ReadAll decodes every record from r.
func ReadAll(r io.Reader, format Format) ([]Record, error) {
	var out []Record
	switch format {
	case FormatMsgpack:
		dec := msgpack.NewDecoder(bufio.NewReader(r))
		for {
			var rec Record
			if err := dec.Decode(&rec); err != nil {
				if errors.Is(err, io.EOF) {
					return out, nil
				}
				return out, fmt.Errorf("audit: decode record %d: %w", len(out)+1, err)
			}
			out = append(out, rec)
		}
	default:
		dec := json.NewDecoder(r)
		for {
			var rec Record
			if err := dec.Decode(&rec); err != nil {
				if errors.Is(err, io.EOF) {
					return out, nil
				}
				return out, fmt.Errorf("audit: decode record %d: %w", len(out)+1, err)
			}
			out = append(out, rec)
		}
	}
}

// Memory keeps records in memory.
type Memory struct {
	mu      sync.Mutex
	records []Record
}

func (m *Memory) Record(_ context.Context, rec Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, Stamp(rec))
}

// Records returns a copy of everything recorded so far.
func (m *Memory) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}
