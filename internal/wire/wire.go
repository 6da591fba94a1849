// Package wire frames cached result batches. A batch is an ordered list of
// opaque record payloads; the codec that produced the payloads is the query
// layer's concern.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const version byte = 1

var (
	ErrCorrupt = errors.New("jlstream: corrupt cache entry")
	magic4     = [...]byte{'J', 'L', 'S', 'B'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Batch: magic(4) | ver(1) | n(u32 be) | (vlen(u32 be) | payload(vlen)) * n
func EncodeBatch(payloads [][]byte) []byte {
	total := 4 + 1 + 4
	for _, p := range payloads {
		total += 4 + len(p)
	}

	var buf bytes.Buffer
	buf.Grow(total)

	buf.Write(magic4[:])
	buf.WriteByte(version)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payloads)))
	buf.Write(u4[:])

	for _, p := range payloads {
		binary.BigEndian.PutUint32(u4[:], uint32(len(p)))
		buf.Write(u4[:])
		buf.Write(p)
	}

	return buf.Bytes()
}

// DecodeBatch validates framing strictly: bad magic, wrong version, short
// payloads and trailing junk all return ErrCorrupt. Returned payloads alias
// b; callers must not retain them past the life of b.
func DecodeBatch(b []byte) ([][]byte, error) {
	const hdr = 4 + 1 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version {
		return nil, ErrCorrupt
	}

	off := 5
	n := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	// every item carries at least its 4-byte length prefix, so a count the
	// remaining bytes cannot hold is corruption, not a huge batch
	if n < 0 || n > (len(b)-off)/4 {
		return nil, ErrCorrupt
	}

	payloads := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		if off+4 > len(b) {
			return nil, ErrCorrupt
		}
		vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
		off += 4
		if vlen < 0 || vlen > len(b)-off { // overflow-safe bound check
			return nil, ErrCorrupt
		}
		payloads = append(payloads, b[off:off+vlen])
		off += vlen
	}
	if off != len(b) {
		return nil, ErrCorrupt
	}

	return payloads, nil
}
