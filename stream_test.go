package jlstream

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"

	src "github.com/unkn0wn-root/jlstream/source"
)

// chunkSource replays a scripted chunk sequence, then finalErr (io.EOF for a
// clean stream).
type chunkSource struct {
	chunks   [][]byte
	i        int
	finalErr error
	closed   bool
}

var _ src.Source = (*chunkSource)(nil)

func newChunkSource(finalErr error, chunks ...string) *chunkSource {
	cs := &chunkSource{finalErr: finalErr}
	for _, c := range chunks {
		cs.chunks = append(cs.chunks, []byte(c))
	}
	return cs
}

func (s *chunkSource) Next(_ context.Context) ([]byte, error) {
	if s.i < len(s.chunks) {
		c := s.chunks[s.i]
		s.i++
		return c, nil
	}
	return nil, s.finalErr
}

func (s *chunkSource) Close(context.Context) error { s.closed = true; return nil }

func chunked(text string, size int) *chunkSource {
	cs := &chunkSource{finalErr: io.EOF}
	for len(text) > size {
		cs.chunks = append(cs.chunks, []byte(text[:size]))
		text = text[size:]
	}
	if len(text) > 0 {
		cs.chunks = append(cs.chunks, []byte(text))
	}
	return cs
}

func wantRecords(t *testing.T, got []Record, want ...Record) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d records %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Name != want[i].Name {
			t.Fatalf("record %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestCollectAlignedChunks(t *testing.T) {
	cs := newChunkSource(io.EOF,
		"{\"id\": 1, \"name\": \"bob\"}\n",
		"{\"id\": 2, \"name\": \"ann\"}\n",
	)
	recs, err := Collect(context.Background(), cs, NewDecoder(DecodeRecord))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	wantRecords(t, recs, Record{ID: 1, Name: "bob"}, Record{ID: 2, Name: "ann"})
}

func TestCollectRecordSplitAcrossChunks(t *testing.T) {
	cs := newChunkSource(io.EOF,
		"{\"id\": 1,\n",
		"\"name\": \"bob\"}\n{\"id\": 2, \"name\": \"ann\"}\n",
	)
	recs, err := Collect(context.Background(), cs, NewDecoder(DecodeRecord))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	wantRecords(t, recs, Record{ID: 1, Name: "bob"}, Record{ID: 2, Name: "ann"})
}

func TestCollectArbitraryChunking(t *testing.T) {
	text := "{\"id\": 1, \"name\": \"bob\"}\n" +
		"{\"id\": 2,\n\"name\": \"ann\"}\n" +
		"{\"id\": 3, \"name\": \"cyd\", \"score\": 12.5}\n"
	want := []Record{{ID: 1, Name: "bob"}, {ID: 2, Name: "ann"}, {ID: 3, Name: "cyd"}}

	// size 1 forces every line and record boundary to straddle chunks
	for _, size := range []int{1, 2, 3, 5, 7, 16, 64, 1024} {
		recs, err := Collect(context.Background(), chunked(text, size), NewDecoder(DecodeRecord))
		if err != nil {
			t.Fatalf("chunk size %d: %v", size, err)
		}
		if len(recs) != len(want) {
			t.Fatalf("chunk size %d: got %d records, want %d", size, len(recs), len(want))
		}
		for i := range want {
			if recs[i].ID != want[i].ID || recs[i].Name != want[i].Name {
				t.Fatalf("chunk size %d: record %d = %+v, want %+v", size, i, recs[i], want[i])
			}
		}
	}
}

func TestCollectNoTrailingNewline(t *testing.T) {
	cs := newChunkSource(io.EOF, "{\"id\": 1, \"name\": \"bob\"}\n{\"id\": 2, \"name\": \"ann\"}")
	recs, err := Collect(context.Background(), cs, NewDecoder(DecodeRecord))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	wantRecords(t, recs, Record{ID: 1, Name: "bob"}, Record{ID: 2, Name: "ann"})
}

func TestCollectCRLF(t *testing.T) {
	cs := newChunkSource(io.EOF, "{\"id\": 1, \"name\": \"bob\"}\r\n{\"id\": 2, \"name\": \"ann\"}\r\n")
	recs, err := Collect(context.Background(), cs, NewDecoder(DecodeRecord))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	wantRecords(t, recs, Record{ID: 1, Name: "bob"}, Record{ID: 2, Name: "ann"})
}

func TestCollectTrailingIncompleteFatal(t *testing.T) {
	cs := newChunkSource(io.EOF, "{\"id\": 1, \"name\": \"bob\"}\n{\"id\": 2, \"na")
	recs, err := Collect(context.Background(), cs, NewDecoder(DecodeRecord))
	var ie *IncompleteError
	if !errors.As(err, &ie) {
		t.Fatalf("error %v is not *IncompleteError", err)
	}
	if ie.Pending == 0 {
		t.Fatal("IncompleteError.Pending is zero")
	}
	// the complete record before the truncation point is still delivered
	wantRecords(t, recs, Record{ID: 1, Name: "bob"})
}

func TestCollectSourceErrorPropagatesUnchanged(t *testing.T) {
	srcErr := errors.New("connection reset")
	cs := newChunkSource(srcErr, "{\"id\": 1, \"name\": \"bob\"}\n")
	recs, err := Collect(context.Background(), cs, NewDecoder(DecodeRecord))
	if err != srcErr {
		t.Fatalf("got %v, want the source error unchanged", err)
	}
	wantRecords(t, recs, Record{ID: 1, Name: "bob"})
}

func TestCollectDecodeErrorAborts(t *testing.T) {
	cs := newChunkSource(io.EOF,
		"{\"id\": 1, \"name\": \"bob\"}\n{\"name\": \"no id\"}\n{\"id\": 3, \"name\": \"cyd\"}\n",
	)
	recs, err := Collect(context.Background(), cs, NewDecoder(DecodeRecord))
	var se *ShapeError
	if !errors.As(err, &se) || se.Field != "id" {
		t.Fatalf("want *ShapeError on field id, got %v", err)
	}
	// nothing past the bad record is emitted
	wantRecords(t, recs, Record{ID: 1, Name: "bob"})
}

func TestLineSplitterTail(t *testing.T) {
	var s lineSplitter

	lines := s.split([]byte("one\ntwo\nthr"))
	if len(lines) != 2 || string(lines[0]) != "one" || string(lines[1]) != "two" {
		t.Fatalf("got %q", lines)
	}

	lines = s.split([]byte("ee\nfour"))
	if len(lines) != 1 || string(lines[0]) != "three" {
		t.Fatalf("got %q", lines)
	}

	tail, ok := s.flush()
	if !ok || string(tail) != "four" {
		t.Fatalf("flush = %q, %v", tail, ok)
	}
	if _, ok := s.flush(); ok {
		t.Fatal("second flush returned data")
	}
}

func TestLineSplitterEmptyLines(t *testing.T) {
	var s lineSplitter
	lines := s.split([]byte("\n\nx\n"))
	if len(lines) != 3 || len(lines[0]) != 0 || len(lines[1]) != 0 || string(lines[2]) != "x" {
		t.Fatalf("got %q", lines)
	}
	if _, ok := s.flush(); ok {
		t.Fatal("unexpected tail")
	}
}

func TestCollectLargeStream(t *testing.T) {
	var b strings.Builder
	names := []string{"bob", "ann", "cyd", "dee", "eli"}
	for i := 0; i < 500; i++ {
		b.WriteString("{\"id\": ")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(", \"name\": \"")
		b.WriteString(names[i%len(names)])
		b.WriteString("\"}\n")
	}
	recs, err := Collect(context.Background(), chunked(b.String(), 13), NewDecoder(DecodeRecord))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(recs) != 500 {
		t.Fatalf("got %d records, want 500", len(recs))
	}
	for i, r := range recs {
		if r.ID != i {
			t.Fatalf("record %d has id %d; order or count broken", i, r.ID)
		}
	}
}
