// Package reader adapts an io.Reader to a source.Source by reading
// fixed-size chunks. Chunk boundaries fall wherever the reader fills the
// buffer, so records and even lines may straddle them.
package reader

import (
	"context"
	"io"

	src "github.com/unkn0wn-root/jlstream/source"
)

const defaultChunkSize = 4096

type Reader struct {
	r    io.Reader
	size int
	err  error // deferred terminal error; io.EOF after a clean end
}

var _ src.Source = (*Reader)(nil)

// New wraps r. chunkSize <= 0 selects the default (4096 bytes).
func New(r io.Reader, chunkSize int) *Reader {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &Reader{r: r, size: chunkSize}
}

func (s *Reader) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	buf := make([]byte, s.size)
	n, err := s.r.Read(buf)
	if n > 0 {
		// deliver the bytes read alongside an error now, surface the
		// error on the next pull (io.Reader contract)
		if err != nil {
			s.err = err
		}
		return buf[:n], nil
	}
	if err == nil {
		err = io.EOF
	}
	s.err = err
	return nil, err
}

func (s *Reader) Close(ctx context.Context) error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
