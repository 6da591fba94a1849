package jlstream

import (
	"bytes"
	"encoding/json"
)

// DecodeFunc turns one syntactically complete JSON payload into an R.
// It must be side-effect free; a failure aborts the stream.
type DecodeFunc[R any] func([]byte) (R, error)

// Decoder reassembles records from line fragments. It owns a single
// pending-fragment buffer: lines that do not form a complete JSON value on
// their own accumulate until the buffered text parses, at which point the
// record is emitted and the buffer cleared.
//
// A Decoder lives for one stream and is not safe for concurrent use.
type Decoder[R any] struct {
	decode DecodeFunc[R]
	buf    bytes.Buffer
	seen   int // records emitted so far, for error context
}

// NewDecoder builds a Decoder using decode for the typed step. A nil decode
// falls back to plain json.Unmarshal into R.
func NewDecoder[R any](decode DecodeFunc[R]) *Decoder[R] {
	if decode == nil {
		decode = func(b []byte) (R, error) {
			var r R
			err := json.Unmarshal(b, &r)
			return r, err
		}
	}
	return &Decoder[R]{decode: decode}
}

// Feed consumes the next line of the stream. It returns (rec, true, nil)
// when the line completed a record, (zero, false, nil) when the record is
// still accumulating, and a non-nil error when a syntactically complete
// payload failed the typed decode. Errors are fatal to the stream; the
// decoder must not be fed again after one.
//
// The syntax gate (json.Valid) runs before the typed decode so that partial
// fragments are never handed to the record decoder.
func (d *Decoder[R]) Feed(line []byte) (rec R, ok bool, err error) {
	var zero R

	// Fast path: chunk boundary aligned with the record boundary.
	if d.buf.Len() == 0 && json.Valid(line) {
		return d.emit(line)
	}

	d.buf.Write(line)
	if !json.Valid(d.buf.Bytes()) {
		// Still mid-record. Not an error.
		return zero, false, nil
	}
	rec, ok, err = d.emit(d.buf.Bytes())
	d.buf.Reset()
	return rec, ok, err
}

// Pending reports the number of buffered bytes belonging to an unfinished
// record. Non-zero at end of stream means the final record was truncated.
func (d *Decoder[R]) Pending() int { return d.buf.Len() }

func (d *Decoder[R]) emit(payload []byte) (R, bool, error) {
	rec, err := d.decode(payload)
	if err != nil {
		var zero R
		return zero, false, &DecodeError{Record: d.seen + 1, Err: err}
	}
	d.seen++
	return rec, true, nil
}
