// Package sloghooks logs jlstream hook events through log/slog, with
// sampling on the hot-path events so a long drain cannot flood the log.
package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/jlstream"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	ChunkEvery    uint64
	FragmentEvery uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	chunkCtr    atomic.Uint64
	fragmentCtr atomic.Uint64
}

var _ jlstream.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) ChunkReceived(n int) {
	if h.l == nil || !sample(h.opts.ChunkEvery, &h.chunkCtr) {
		return
	}
	h.l.Debug("jlstream.chunk_received", "bytes", n)
}

func (h *Hooks) FragmentBuffered(pending int) {
	if h.l == nil || !sample(h.opts.FragmentEvery, &h.fragmentCtr) {
		return
	}
	h.l.Debug("jlstream.fragment_buffered", "pending", pending)
}

func (h *Hooks) CacheHit(storageKey string, records int) {
	if h.l == nil {
		return
	}
	h.l.Debug("jlstream.cache_hit",
		"key", storageKey,
		"records", records)
}

func (h *Hooks) CacheMiss(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Debug("jlstream.cache_miss", "key", storageKey)
}

func (h *Hooks) CacheSelfHeal(storageKey, reason string) {
	if h.l == nil {
		return
	}
	h.l.Warn("jlstream.cache_self_heal",
		"key", storageKey,
		"reason", reason)
}

func (h *Hooks) ProviderSetRejected(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("jlstream.provider_set_rejected", "key", storageKey)
}
