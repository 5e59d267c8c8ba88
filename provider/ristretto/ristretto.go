package ristretto

import (
	"context"
	"fmt"
	"sync"

	rc "github.com/dgraph-io/ristretto"

	pr "github.com/unkn0wn-root/tokencount/provider"
)

const (
	DefaultBufferItems = 64

	// setAttempts bounds retries of a Set dropped by a full write buffer.
	setAttempts = 8
)

// Provider is a cost-bounded store. Ristretto may refuse or evict entries once MaxCost
// is reached. A refused entry fails its Set; the first eviction is recorded and returned
// as pr.ErrNotStored by every later Get and Set, so an undersized cache fails the run
// instead of degrading it.
//
// Set blocks until the write is applied, which serializes writers through Ristretto's
// single policy goroutine.
type Provider struct {
	c *rc.Cache

	mu     sync.Mutex
	lost   error
	closed bool
}

var _ pr.Provider = (*Provider)(nil)

// Config sizes the cache. Cost units are whatever the cache's SetCostFunc returns,
// one per entry by default, plus Ristretto's own per-item overhead.
type Config struct {
	NumCounters int64 // ~10x the entries expected to be resident
	MaxCost     int64
	BufferItems int64 // 0 => DefaultBufferItems
	Metrics     bool
}

func New(cfg Config) (*Provider, error) {
	if cfg.NumCounters <= 0 {
		return nil, fmt.Errorf("ristretto: NumCounters must be positive, got %d", cfg.NumCounters)
	}
	if cfg.MaxCost <= 0 {
		return nil, fmt.Errorf("ristretto: MaxCost must be positive, got %d", cfg.MaxCost)
	}
	buf := cfg.BufferItems
	if buf <= 0 {
		buf = DefaultBufferItems
	}

	p := &Provider{}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: buf,
		Metrics:     cfg.Metrics,
		OnEvict:     func(*rc.Item) { p.markEvicted() },
	})
	if err != nil {
		return nil, err
	}
	p.c = c
	return p, nil
}

func (p *Provider) markEvicted() {
	p.mu.Lock()
	defer p.mu.Unlock()
	// Close clears the cache through the same callbacks
	if p.closed || p.lost != nil {
		return
	}
	p.lost = fmt.Errorf("ristretto: entry evicted at MaxCost: %w", pr.ErrNotStored)
}

func (p *Provider) err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lost
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := p.err(); err != nil {
		return nil, false, err
	}
	v, ok := p.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		p.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

// Set returns once the entry is readable. A present key keeps its first value.
func (p *Provider) Set(_ context.Context, key string, value []byte, cost int64) (bool, error) {
	if err := p.err(); err != nil {
		return false, err
	}
	if _, ok := p.c.Get(key); ok {
		return true, nil
	}
	accepted := false
	for i := 0; i < setAttempts && !accepted; i++ {
		accepted = p.c.Set(key, value, cost)
		// flushes the write buffer, and on acceptance makes the entry visible
		p.c.Wait()
	}
	if !accepted {
		return false, fmt.Errorf("ristretto: write buffer full after %d attempts: %w", setAttempts, pr.ErrNotStored)
	}
	if err := p.err(); err != nil {
		return false, err
	}
	// the policy may still have refused it; a concurrent Set of the same key also
	// reports a refusal, so presence is what counts
	if _, ok := p.c.Get(key); !ok {
		return false, fmt.Errorf("ristretto: entry rejected at MaxCost: %w", pr.ErrNotStored)
	}
	return true, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.c.Del(key)
	return nil
}

// Wait blocks until buffered Sets are applied.
func (p *Provider) Wait() { p.c.Wait() }

func (p *Provider) Close(_ context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.c.Close()
	return nil
}

// Stats is a snapshot of Ristretto's counters; all zero unless Config.Metrics was set.
type Stats struct {
	Hits         uint64
	Misses       uint64
	KeysAdded    uint64
	KeysEvicted  uint64
	SetsRejected uint64
	SetsDropped  uint64
}

func (p *Provider) Stats() Stats {
	m := p.c.Metrics // nil-safe accessors
	return Stats{
		Hits:         m.Hits(),
		Misses:       m.Misses(),
		KeysAdded:    m.KeysAdded(),
		KeysEvicted:  m.KeysEvicted(),
		SetsRejected: m.SetsRejected(),
		SetsDropped:  m.SetsDropped(),
	}
}
