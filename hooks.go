package jlstream

// Hooks are lightweight callbacks for high-signal stream and cache events.
// Implementations MUST be cheap and non-blocking; ChunkReceived and
// FragmentBuffered fire on the hot path of every drain.
type Hooks interface {
	// A raw chunk of n bytes arrived from the source.
	ChunkReceived(n int)

	// A line failed the syntax gate and was buffered; pending is the
	// current buffer size in bytes.
	FragmentBuffered(pending int)

	// A cached result batch served the query. records is the batch size.
	CacheHit(storageKey string, records int)

	// No usable cached batch; the query fell through to the source.
	CacheMiss(storageKey string)

	// A cached batch was deleted on read.
	// reason ∈ {"corrupt", "payload_decode"}
	CacheSelfHeal(storageKey, reason string)

	// Provider returned ok=false on Set (backpressure/eviction).
	ProviderSetRejected(storageKey string)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) ChunkReceived(int)            {}
func (NopHooks) FragmentBuffered(int)         {}
func (NopHooks) CacheHit(string, int)         {}
func (NopHooks) CacheMiss(string)             {}
func (NopHooks) CacheSelfHeal(string, string) {}
func (NopHooks) ProviderSetRejected(string)   {}
