package bigcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bc "github.com/allegro/bigcache/v3"

	pr "github.com/unkn0wn-root/tokencount/provider"
)

// DefaultLifeWindow outlives any realistic run, so entries are never aged out mid-run.
const DefaultLifeWindow = 7 * 24 * time.Hour

// Provider stores entries in BigCache. If BigCache ever drops an entry on its own
// (life window passed, or HardMaxCacheSizeMB reached) every later Get and Set returns
// pr.ErrNotStored.
type Provider struct {
	c *bc.BigCache

	mu   sync.Mutex
	lost error
}

var _ pr.Provider = (*Provider)(nil)

type Config struct {
	LifeWindow         time.Duration // 0 => DefaultLifeWindow
	Shards             int           // power of two; 0 => bigcache default (1024)
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // memory bound; reaching it fails the run. 0 = unlimited
}

// New builds an append-only BigCache: the clean window is disabled so nothing is
// removed before Close unless the life window or HardMaxCacheSizeMB forces it.
func New(cfg Config) (*Provider, error) {
	life := cfg.LifeWindow
	if life <= 0 {
		life = DefaultLifeWindow
	}
	conf := bc.DefaultConfig(life)
	conf.CleanWindow = 0
	conf.Verbose = false
	if cfg.Shards > 0 {
		conf.Shards = cfg.Shards
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}

	p := &Provider{}
	conf.OnRemoveWithReason = p.onRemove
	conf = conf.OnRemoveFilterSet(bc.Expired, bc.NoSpace)

	c, err := bc.New(context.Background(), conf)
	if err != nil {
		return nil, err
	}
	p.c = c
	return p, nil
}

func (p *Provider) onRemove(key string, _ []byte, reason bc.RemoveReason) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lost != nil {
		return
	}
	what := "expired"
	if reason == bc.NoSpace {
		what = "evicted at HardMaxCacheSizeMB"
	}
	p.lost = fmt.Errorf("bigcache: %s %s: %w", key, what, pr.ErrNotStored)
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
	b, err := p.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil, false, nil
	}
	return b, err == nil, err
}

// Set keeps the first value written for a key.
func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64) (bool, error) {
	if err := p.err(); err != nil {
		return false, err
	}
	if _, err := p.c.Get(key); err == nil {
		return true, nil
	}
	if err := p.c.Set(key, value); err != nil {
		return false, err
	}
	// the Set itself may have pushed the oldest entry out
	if err := p.err(); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	err := p.c.Delete(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil
	}
	return err
}

// Len reports the number of stored entries.
func (p *Provider) Len() int { return p.c.Len() }

func (p *Provider) Close(_ context.Context) error {
	return p.c.Close()
}
