package jlstream

import (
	"bytes"
	"context"
	"io"

	"github.com/unkn0wn-root/jlstream/source"
)

// lineSplitter cuts chunks into newline-delimited lines. The tail of an
// unterminated line is kept across chunk boundaries, so chunks do not have
// to end on a line boundary.
type lineSplitter struct {
	tail []byte
}

// split returns every complete line in chunk with the delimiter stripped
// (LF and CRLF both delimit), prepending any tail carried over from the
// previous chunk. An unterminated remainder becomes the new tail.
func (s *lineSplitter) split(chunk []byte) [][]byte {
	data := chunk
	if len(s.tail) > 0 {
		data = append(s.tail, chunk...)
		s.tail = nil
	}
	var lines [][]byte
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		line := data[:i]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
		lines = append(lines, line)
		data = data[i+1:]
	}
	if len(data) > 0 {
		s.tail = append([]byte(nil), data...)
	}
	return lines
}

// flush hands back the unterminated final line at end of stream.
func (s *lineSplitter) flush() ([]byte, bool) {
	if len(s.tail) == 0 {
		return nil, false
	}
	t := s.tail
	s.tail = nil
	return t, true
}

// Collect drains src through dec: chunks are pulled one at a time, split
// into lines and fed to the decoder in order; emitted records are collected
// in receipt order.
//
// Source errors and decode errors abort immediately and are returned
// together with the records collected so far; callers decide whether a
// partial slice accompanying an error is usable. A stream ending while a
// record is still accumulating returns *IncompleteError.
func Collect[R any](ctx context.Context, src source.Source, dec *Decoder[R]) ([]R, error) {
	return collect(ctx, src, dec, NopHooks{})
}

func collect[R any](ctx context.Context, src source.Source, dec *Decoder[R], hooks Hooks) ([]R, error) {
	var out []R
	var split lineSplitter
	for {
		chunk, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, err
		}
		hooks.ChunkReceived(len(chunk))
		for _, line := range split.split(chunk) {
			rec, ok, err := dec.Feed(line)
			if err != nil {
				return out, err
			}
			if ok {
				out = append(out, rec)
			} else if n := dec.Pending(); n > 0 {
				hooks.FragmentBuffered(n)
			}
		}
	}
	if tail, ok := split.flush(); ok {
		rec, ok, err := dec.Feed(tail)
		if err != nil {
			return out, err
		}
		if ok {
			out = append(out, rec)
		}
	}
	if n := dec.Pending(); n > 0 {
		return out, &IncompleteError{Pending: n}
	}
	return out, nil
}
