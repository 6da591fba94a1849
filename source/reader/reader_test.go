package reader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func drain(t *testing.T, s *Reader) []byte {
	t.Helper()
	var out []byte
	for {
		chunk, err := s.Next(context.Background())
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, chunk...)
	}
}

func TestChunking(t *testing.T) {
	const text = "abcdefghij"
	for _, size := range []int{1, 3, 10, 100} {
		s := New(strings.NewReader(text), size)
		got := drain(t, s)
		if string(got) != text {
			t.Fatalf("size %d: got %q", size, got)
		}
	}
}

func TestDefaultChunkSize(t *testing.T) {
	s := New(strings.NewReader("x"), 0)
	if s.size != defaultChunkSize {
		t.Fatalf("size = %d, want %d", s.size, defaultChunkSize)
	}
}

func TestEOFIsSticky(t *testing.T) {
	s := New(strings.NewReader("ab"), 10)
	drain(t, s)
	if _, err := s.Next(context.Background()); err != io.EOF {
		t.Fatalf("got %v, want io.EOF", err)
	}
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestReadErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	s := New(failingReader{err: boom}, 10)
	if _, err := s.Next(context.Background()); err != boom {
		t.Fatalf("got %v, want the read error", err)
	}
}

type shortReadReader struct {
	data []byte
	err  error
}

func (r *shortReadReader) Read(p []byte) (int, error) {
	n := copy(p, r.data)
	r.data = nil
	return n, r.err
}

func TestDataBeforeError(t *testing.T) {
	boom := errors.New("boom")
	s := New(&shortReadReader{data: []byte("abc"), err: boom}, 10)

	chunk, err := s.Next(context.Background())
	if err != nil {
		t.Fatalf("Next with data and error: %v", err)
	}
	if string(chunk) != "abc" {
		t.Fatalf("chunk = %q, want the bytes read before the error", chunk)
	}
	if _, err := s.Next(context.Background()); err != boom {
		t.Fatalf("got %v, want the deferred read error", err)
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New(bytes.NewReader([]byte("abc")), 10)
	if _, err := s.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}
