package stream

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/couchcryptid/utm-transform-service/internal/domain"
)

// Decoder reads a JSON array of records lazily: records are decoded one at a
// time as the underlying reader is consumed, never buffering the whole array.
// Forward-only and single-pass.
type Decoder struct {
	dec     *json.Decoder
	started bool
	done    bool
}

// NewDecoder wraps a reader carrying a JSON array of objects.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: json.NewDecoder(r)}
}

// Next returns the next record in the array, or io.EOF after the closing
// bracket. Any other error means malformed input and is fatal.
func (d *Decoder) Next() (domain.Record, error) {
	if d.done {
		return domain.Record{}, io.EOF
	}

	if !d.started {
		tok, err := d.dec.Token()
		if err != nil {
			return domain.Record{}, fmt.Errorf("decode stream: %w", err)
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			return domain.Record{}, fmt.Errorf("decode stream: expected array, got %v", tok)
		}
		d.started = true
	}

	if !d.dec.More() {
		if _, err := d.dec.Token(); err != nil {
			return domain.Record{}, fmt.Errorf("decode stream: %w", err)
		}
		d.done = true
		return domain.Record{}, io.EOF
	}

	var rec domain.Record
	if err := d.dec.Decode(&rec); err != nil {
		return domain.Record{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

// Encoder writes a JSON array of records incrementally: an opening bracket,
// comma-separated records in write order, and a closing bracket on Close.
// Output reaches the writer as soon as each record is encoded, so consumers
// can stream the result.
type Encoder struct {
	w      io.Writer
	opened bool
	count  int
}

// NewEncoder wraps a writer that receives the streamed array.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Write emits one record.
func (e *Encoder) Write(rec domain.Record) error {
	if err := e.open(); err != nil {
		return err
	}
	if e.count > 0 {
		if _, err := io.WriteString(e.w, ","); err != nil {
			return fmt.Errorf("encode stream: %w", err)
		}
	}
	// The record marshals itself; going through json.Marshal would
	// re-validate the output and reject the non-finite number lexemes
	// that pass-through fidelity requires.
	b, err := rec.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if _, err := e.w.Write(b); err != nil {
		return fmt.Errorf("encode stream: %w", err)
	}
	e.count++
	return nil
}

// Started reports whether any bytes have been written yet. The HTTP boundary
// uses this to decide between an error status and a truncated stream.
func (e *Encoder) Started() bool { return e.opened }

// Count returns the number of records written.
func (e *Encoder) Count() int { return e.count }

// Close terminates the array, opening it first if no record was written.
func (e *Encoder) Close() error {
	if err := e.open(); err != nil {
		return err
	}
	if _, err := io.WriteString(e.w, "]"); err != nil {
		return fmt.Errorf("encode stream: %w", err)
	}
	return nil
}

func (e *Encoder) open() error {
	if e.opened {
		return nil
	}
	if _, err := io.WriteString(e.w, "["); err != nil {
		return fmt.Errorf("encode stream: %w", err)
	}
	e.opened = true
	return nil
}
