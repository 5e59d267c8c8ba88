package tokencount

import (
	"context"
	"fmt"
	"time"
)

// RunOptions configure one counting run.
type RunOptions struct {
	// Cache to count through. nil => a fresh ShardedCache with Shards shards,
	// closed when the run ends. A caller-provided cache is left open.
	Cache  Cache
	Shards int

	Workers int    // 0 => GOMAXPROCS
	Logger  Logger // if nil, NopLogger is used
	Hooks   Hooks  // if nil, NopHooks is used
}

// Result of one run.
type Result struct {
	Total   uint64
	Stats   Stats
	Elapsed time.Duration
}

// Run counts the population of tokens after steps generations.
// steps must be positive.
func Run(ctx context.Context, tokens []Token, steps uint32, opts RunOptions) (Result, error) {
	if steps == 0 {
		return Result{}, fmt.Errorf("%w: steps must be positive", ErrInvalidSteps)
	}
	log := coalesce[Logger](opts.Logger, NopLogger{})

	d, release, err := newRunDispatcher(opts, log)
	if err != nil {
		return Result{}, err
	}
	defer release()

	start := time.Now()
	total, err := d.Total(ctx, tokens, steps)
	res := Result{Stats: d.counter.Stats(), Elapsed: time.Since(start)}
	if err != nil {
		return res, err
	}
	res.Total = total

	log.Info("run finished", Fields{
		"tokens":    len(tokens),
		"steps":     steps,
		"total":     total,
		"hits":      res.Stats.Hits,
		"misses":    res.Stats.Misses,
		"hit_ratio": res.Stats.HitRatio(),
		"elapsed":   res.Elapsed.String(),
	})
	return res, nil
}

// Curve returns the population after every generation 0..maxSteps.
// All generations share one cache, so each one mostly reuses the previous work.
func Curve(ctx context.Context, tokens []Token, maxSteps uint32, opts RunOptions) ([]uint64, error) {
	log := coalesce[Logger](opts.Logger, NopLogger{})

	d, release, err := newRunDispatcher(opts, log)
	if err != nil {
		return nil, err
	}
	defer release()

	out := make([]uint64, 0, int(maxSteps)+1)
	for s := uint32(0); ; s++ {
		total, err := d.Total(ctx, tokens, s)
		if err != nil {
			return nil, err
		}
		out = append(out, total)
		if s == maxSteps {
			break
		}
	}
	log.Debug("curve finished", Fields{"tokens": len(tokens), "max_steps": maxSteps})
	return out, nil
}

// newRunDispatcher wires cache, counter and dispatcher for one run. release closes
// the cache when the run owns it.
func newRunDispatcher(opts RunOptions, log Logger) (*Dispatcher, func(), error) {
	cache := opts.Cache
	release := func() {}
	if cache == nil {
		cache = NewShardedCache(opts.Shards)
		release = func() { closeQuietly(context.Background(), cache, log) }
	}

	counter, err := NewCounter(cache, CounterOptions{Logger: log})
	if err != nil {
		release()
		return nil, nil, err
	}
	d, err := NewDispatcher(counter, DispatcherOptions{
		Workers: opts.Workers,
		Logger:  log,
		Hooks:   opts.Hooks,
	})
	if err != nil {
		release()
		return nil, nil, err
	}
	return d, release, nil
}
