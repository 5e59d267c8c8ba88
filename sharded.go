package tokencount

import (
	"context"
	"encoding/binary"
	"runtime"
	"sync"

	"github.com/cespare/xxhash/v2"
)

const maxShards = 1 << 12

type shard struct {
	mu sync.RWMutex
	m  map[Key]uint64
}

// ShardedCache is the in-process default Cache: a power-of-two number of maps, each
// behind its own RWMutex, with the shard picked by an xxhash of the key.
// It never evicts; the first value inserted for a key is the one that stays.
type ShardedCache struct {
	shards []shard
	mask   uint64
}

// NewShardedCache creates a cache with n shards rounded up to a power of two.
// n <= 0 picks 4 shards per available CPU.
func NewShardedCache(n int) *ShardedCache {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0) * 4
	}
	if n > maxShards {
		n = maxShards
	}
	size := 1
	for size < n {
		size <<= 1
	}
	c := &ShardedCache{
		shards: make([]shard, size),
		mask:   uint64(size - 1),
	}
	for i := range c.shards {
		c.shards[i].m = make(map[Key]uint64)
	}
	return c
}

func (c *ShardedCache) shardOf(k Key) *shard {
	var b [12]byte
	binary.LittleEndian.PutUint64(b[:8], uint64(k.Token))
	binary.LittleEndian.PutUint32(b[8:], k.Steps)
	return &c.shards[xxhash.Sum64(b[:])&c.mask]
}

func (c *ShardedCache) Get(_ context.Context, k Key) (uint64, bool, error) {
	s := c.shardOf(k)
	s.mu.RLock()
	n, ok := s.m[k]
	s.mu.RUnlock()
	return n, ok, nil
}

func (c *ShardedCache) Insert(_ context.Context, k Key, n uint64) error {
	s := c.shardOf(k)
	s.mu.Lock()
	if _, ok := s.m[k]; !ok {
		s.m[k] = n
	}
	s.mu.Unlock()
	return nil
}

// Len returns the number of memoized sub-problems.
func (c *ShardedCache) Len() int {
	total := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.RLock()
		total += len(s.m)
		s.mu.RUnlock()
	}
	return total
}

// Shards reports the effective shard count.
func (c *ShardedCache) Shards() int { return len(c.shards) }

// Close drops every entry; the cache must not be used afterwards.
func (c *ShardedCache) Close(_ context.Context) error {
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		s.m = nil
		s.mu.Unlock()
	}
	return nil
}
