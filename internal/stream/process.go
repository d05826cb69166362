// Package stream applies the record transform to a lazy JSON record
// sequence, one record in, one record out, in input order.
package stream

import (
	"context"
	"errors"
	"io"

	"github.com/couchcryptid/utm-transform-service/internal/domain"
)

// TransformFunc converts one record. A returned error is fatal and
// terminates the sequence; soft skips are resolved inside the function.
type TransformFunc func(rec domain.Record) (domain.Record, error)

// Process pulls records from dec, transforms each, and writes the result to
// enc, preserving order with exactly one output per input. The first fatal
// error stops the sequence; no further input is pulled. Cancellation is
// cooperative: the context is checked before each record, and a write error
// (the consumer stopped reading) also stops the pull.
//
// On clean completion the output array is closed. On a fatal error the
// array is left unterminated; the boundary decides how to surface that.
func Process(ctx context.Context, dec *Decoder, enc *Encoder, transform TransformFunc) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return enc.Close()
		}
		if err != nil {
			return err
		}

		out, err := transform(rec)
		if err != nil {
			return err
		}

		if err := enc.Write(out); err != nil {
			return err
		}
	}
}
