package jlstream

import (
	"fmt"
)

// ShapeError reports a payload that is valid JSON but does not satisfy the
// record shape (missing or wrongly typed required field). It is never
// coerced or skipped; the stream aborts on the first occurrence.
type ShapeError struct {
	Field  string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("jlstream: record field %q: %s", e.Field, e.Reason)
}

// DecodeError wraps a failure while decoding a syntactically complete
// payload into a record. Record is the 1-based position of the failing
// record within the stream.
type DecodeError struct {
	Record int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("jlstream: decode record %d: %v", e.Record, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IncompleteError reports a stream that ended while a record was still being
// accumulated. Pending is the number of buffered bytes that never formed a
// complete record. Distinct from DecodeError so callers can tell "bad
// record" from "truncated stream".
type IncompleteError struct {
	Pending int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("jlstream: stream ended with incomplete record (%d bytes pending)", e.Pending)
}
