// usage:
//
// import (
//
//	"log/slog"
//
//	"github.com/unkn0wn-root/jlstream"
//	"github.com/unkn0wn-root/jlstream/hooks/async"
//	"github.com/unkn0wn-root/jlstream/sloghooks"
//
// )
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    ChunkEvery:    100, // sample logs: ~every 100th chunk
//	    FragmentEvery: 10,  // ~every 10th buffered fragment
//	})
//
// hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
// defer hooks.Close()
//
//	q, _ := jlstream.New[Record](jlstream.Options[Record]{
//	    Namespace: "app:prod:orders",
//	    Opener:    opener,
//	    Hooks:     hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/jlstream"
)

type Hooks struct {
	inner jlstream.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ jlstream.Hooks = (*Hooks)(nil)

func New(inner jlstream.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) ChunkReceived(n int)    { h.try(func() { h.inner.ChunkReceived(n) }) }
func (h *Hooks) FragmentBuffered(p int) { h.try(func() { h.inner.FragmentBuffered(p) }) }
func (h *Hooks) CacheMiss(k string)     { h.try(func() { h.inner.CacheMiss(k) }) }
func (h *Hooks) CacheHit(k string, n int) {
	h.try(func() { h.inner.CacheHit(k, n) })
}
func (h *Hooks) CacheSelfHeal(k, reason string) {
	h.try(func() { h.inner.CacheSelfHeal(k, reason) })
}
func (h *Hooks) ProviderSetRejected(k string) {
	h.try(func() { h.inner.ProviderSetRejected(k) })
}
