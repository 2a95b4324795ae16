// Package tracelog writes and reads run records as zstd-compressed JSONL,
// one JSON document per line. It is the export format consumed by the
// replay tool and external visualizers.
package tracelog

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"picogrid.dev/internal/sim"
)

// RunRecord is one exported run: enough context to rebuild the room and
// rule set and re-execute the run deterministically.
type RunRecord struct {
	Kind       string        `json:"kind"` // "run"
	Scenario   string        `json:"scenario,omitempty"`
	Room       string        `json:"room"`  // ASCII layout, '#'/'.'
	Rules      string        `json:"rules"` // rule text
	StartState int           `json:"start_state"`
	MaxSteps   int           `json:"max_steps"`
	Result     sim.RunResult `json:"result"`
}

type Writer struct {
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewWriter creates (or truncates) a trace file, making parent directories
// as needed.
func NewWriter(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Writer{f: f, enc: enc, w: bufio.NewWriterSize(enc, 128*1024)}, nil
}

func (w *Writer) Write(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

func (w *Writer) Close() error {
	var firstErr error
	if err := w.w.Flush(); err != nil {
		firstErr = err
	}
	if err := w.enc.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := w.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

type Reader struct {
	f   *os.File
	dec *zstd.Decoder
	sc  *bufio.Scanner
}

func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 1<<20), 64<<20) // traces can hold long step lists
	return &Reader{f: f, dec: dec, sc: sc}, nil
}

// ErrEOF marks the end of the trace stream.
var ErrEOF = errors.New("tracelog: end of stream")

// Next decodes the next record into v, or returns ErrEOF.
func (r *Reader) Next(v any) error {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return err
		}
		return ErrEOF
	}
	return json.Unmarshal(r.sc.Bytes(), v)
}

func (r *Reader) Close() error {
	r.dec.Close()
	return r.f.Close()
}
