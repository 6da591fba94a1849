// Package source defines the chunk delivery abstraction consumed by the
// drain loop.
//
// A Source delivers an ordered sequence of opaque text chunks. There is no
// guarantee that a chunk boundary coincides with a line or record boundary;
// callers must buffer accordingly. Chunks are pulled strictly one at a time,
// so implementations do not need to be safe for concurrent use.
package source

import (
	"context"
)

// Source is an ordered chunk stream.
type Source interface {
	// Next returns the next chunk. It returns io.EOF (and no chunk) when the
	// stream is exhausted, or any other error on transport failure. After a
	// non-nil error, Next must not be called again.
	Next(ctx context.Context) ([]byte, error)

	// Close releases underlying resources. Safe to call after Next failed.
	Close(ctx context.Context) error
}

// Opener locates a remote object and opens a chunk stream over its content.
type Opener interface {
	Open(ctx context.Context, bucket, key string) (Source, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, bucket, key string) (Source, error)

func (f OpenerFunc) Open(ctx context.Context, bucket, key string) (Source, error) {
	return f(ctx, bucket, key)
}
