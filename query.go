package jlstream

import (
	"context"
	"fmt"
	"time"

	c "github.com/unkn0wn-root/jlstream/codec"
	"github.com/unkn0wn-root/jlstream/internal/util"
	"github.com/unkn0wn-root/jlstream/internal/wire"
	pr "github.com/unkn0wn-root/jlstream/provider"
	src "github.com/unkn0wn-root/jlstream/source"
)

const defaultTTL = 10 * time.Minute

// Query runs filtered scans over remote JSON-Lines objects, reassembling
// records through a fresh Decoder per run and optionally caching decoded
// result batches.
type Query[R any] struct {
	ns       string
	opener   src.Opener
	decode   DecodeFunc[R]
	filter   func(R) bool
	provider pr.Provider
	codec    c.Codec[R]
	log      Logger
	hooks    Hooks
	ttl      time.Duration
}

func newQuery[R any](opts Options[R]) (*Query[R], error) {
	if opts.Namespace == "" {
		return nil, fmt.Errorf("jlstream: namespace is required")
	}
	if opts.Opener == nil {
		return nil, fmt.Errorf("jlstream: opener is required")
	}
	if opts.Provider != nil && opts.Codec == nil {
		return nil, fmt.Errorf("jlstream: codec is required when a provider is set")
	}

	q := &Query[R]{
		ns:       opts.Namespace,
		opener:   opts.Opener,
		decode:   opts.Decode,
		filter:   opts.Filter,
		provider: opts.Provider,
		codec:    opts.Codec,
	}

	// defaults
	q.log = coalesce[Logger](opts.Logger, NopLogger{})
	q.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	q.ttl = coalesce[time.Duration](opts.TTL, defaultTTL)

	return q, nil
}

// Run answers spec from the cache when possible, otherwise opens the object,
// drains it through the decoder and applies the filter. Successful results
// are cached best-effort; a run that failed is never cached. On error the
// records decoded so far are returned alongside it.
func (q *Query[R]) Run(ctx context.Context, spec QuerySpec) ([]R, error) {
	k := q.storageKey(spec)
	if q.provider != nil {
		if recs, ok := q.fromCache(ctx, k); ok {
			return recs, nil
		}
	}

	s, err := q.opener.Open(ctx, spec.Bucket, spec.Key)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.Close(ctx) }()

	dec := NewDecoder(q.decode)
	recs, err := collect(ctx, s, dec, q.hooks)
	if err != nil {
		return recs, err
	}
	if q.filter != nil {
		kept := make([]R, 0, len(recs))
		for _, r := range recs {
			if q.filter(r) {
				kept = append(kept, r)
			}
		}
		recs = kept
	}
	if q.provider != nil {
		q.store(ctx, k, recs)
	}
	return recs, nil
}

func (q *Query[R]) fromCache(ctx context.Context, k string) ([]R, bool) {
	raw, ok, err := q.provider.Get(ctx, k)
	if err != nil {
		q.log.Warn("cache get error", Fields{"key": k, "err": err})
	}
	if err != nil || !ok {
		q.hooks.CacheMiss(k)
		return nil, false
	}
	payloads, err := wire.DecodeBatch(raw)
	if err != nil {
		_ = q.provider.Del(ctx, k) // self-heal corrupt
		q.hooks.CacheSelfHeal(k, "corrupt")
		q.hooks.CacheMiss(k)
		return nil, false
	}
	out := make([]R, 0, len(payloads))
	for _, p := range payloads {
		v, err := q.codec.Decode(p)
		if err != nil {
			_ = q.provider.Del(ctx, k) // self-heal
			q.hooks.CacheSelfHeal(k, "payload_decode")
			q.hooks.CacheMiss(k)
			return nil, false
		}
		out = append(out, v)
	}
	q.hooks.CacheHit(k, len(out))
	return out, true
}

func (q *Query[R]) store(ctx context.Context, k string, recs []R) {
	payloads := make([][]byte, 0, len(recs))
	for _, r := range recs {
		p, err := q.codec.Encode(r)
		if err != nil {
			q.log.Warn("cache store skipped (encode error)", Fields{"key": k, "err": err})
			return
		}
		payloads = append(payloads, p)
	}
	b := wire.EncodeBatch(payloads)
	ttl := q.ttl
	if ttl < 0 {
		ttl = 0 // negative Options.TTL means "no expiry" per provider contract
	}
	ok, err := q.provider.Set(ctx, k, b, int64(len(b)), ttl)
	if err != nil {
		q.log.Warn("cache set error", Fields{"key": k, "err": err})
		return
	}
	if !ok {
		q.hooks.ProviderSetRejected(k)
		q.log.Debug("cache set rejected by provider (pressure)", Fields{"key": k})
	}
}

func (q *Query[R]) storageKey(spec QuerySpec) string {
	// isolate by namespace
	return util.QueryKey("query:"+q.ns, spec.Bucket, spec.Key, spec.Predicate)
}
