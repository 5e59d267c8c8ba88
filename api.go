package tokencount

import (
	"context"

	c "github.com/unkn0wn-root/tokencount/codec"
	pr "github.com/unkn0wn-root/tokencount/provider"
)

type SetCostFunc func(storageKey string, raw []byte) int64

// Cache is the shared (token, steps) -> population mapping of one run.
// Implementations must be safe for concurrent Get/Insert from many workers, and a
// value must be visible to every worker once its Insert returned.
type Cache interface {
	// Get returns (n, true, nil) on hit; (0, false, nil) on miss.
	Get(ctx context.Context, k Key) (n uint64, ok bool, err error)

	// Insert records the population for k. Inserting a key that is already
	// present is allowed and never changes the stored value. An entry that the
	// store could not keep is an error, never a silent drop.
	Insert(ctx context.Context, k Key, n uint64) error

	Close(ctx context.Context) error
}

// Options tune a provider-backed cache.
// Only Provider is required; others have sensible defaults.
type Options struct {
	// Required
	Provider pr.Provider

	Namespace      string          // isolates one run inside a shared store; "" => "run-<uuid>"
	Codec          c.Codec[uint64] // nil => codec.Uint64{}
	Logger         Logger          // if nil, NopLogger is used
	Hooks          Hooks           // if nil, NopHooks is used
	ComputeSetCost SetCostFunc     // default 1
}

// NewProviderCache puts a byte store behind the Cache interface.
func NewProviderCache(opts Options) (Cache, error) {
	return newProviderCache(opts)
}

var (
	_ Cache = (*ShardedCache)(nil)
	_ Cache = (*providerCache)(nil)
)

func closeQuietly(ctx context.Context, cache Cache, log Logger) {
	if err := cache.Close(ctx); err != nil {
		log.Warn("cache close failed", Fields{"err": err})
	}
}
