package jlstream

import (
	"time"

	c "github.com/unkn0wn-root/jlstream/codec"
	pr "github.com/unkn0wn-root/jlstream/provider"
	src "github.com/unkn0wn-root/jlstream/source"
)

// Options tune a Query. Only Namespace and Opener are required; setting
// Provider enables result caching and then also requires Codec.
type Options[R any] struct {
	// Required
	Namespace string     // logical namespace to avoid collisions. e.g. "orders", "events"
	Opener    src.Opener // locates and streams remote objects

	Decode DecodeFunc[R] // nil => plain json.Unmarshal into R
	Filter func(R) bool  // client-side predicate; nil keeps every record

	Provider pr.Provider // nil => no result caching
	Codec    c.Codec[R]  // per-record payload codec; required when Provider is set

	Logger Logger        // if nil, NopLogger is used
	Hooks  Hooks         // if nil, NopHooks is used
	TTL    time.Duration // cached batches; 0 => 10m, negative => no expiry
}

func New[R any](opts Options[R]) (*Query[R], error) {
	return newQuery[R](opts)
}

// QuerySpec addresses one filtered scan of one remote object. Predicate is
// an opaque label naming the filter; it participates in cache keying only —
// evaluation happens through Options.Filter.
type QuerySpec struct {
	Bucket    string
	Key       string
	Predicate string
}
