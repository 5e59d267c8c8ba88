package tokencount

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
)

type CounterOptions struct {
	Logger Logger // if nil, NopLogger is used
}

// Counter computes populations by memoized recursion over (token, steps).
// One Counter may be shared by any number of goroutines; they all read and
// write through the same Cache.
type Counter struct {
	cache Cache
	log   Logger
	stats statCounters
}

func NewCounter(cache Cache, opts CounterOptions) (*Counter, error) {
	if cache == nil {
		return nil, fmt.Errorf("tokencount: cache is required")
	}
	return &Counter{
		cache: cache,
		log:   coalesce[Logger](opts.Logger, NopLogger{}),
	}, nil
}

// Count returns how many tokens t expands into after exactly steps generations.
//
// Two goroutines missing on the same key may both compute it; the result is a pure
// function of the key, so both insert the same value and nothing is lost but time.
func (c *Counter) Count(ctx context.Context, t Token, steps uint32) (uint64, error) {
	if steps == 0 {
		return 1, nil
	}

	k := Key{Token: t, Steps: steps}
	n, ok, err := c.cache.Get(ctx, k)
	if err != nil {
		return 0, fmt.Errorf("tokencount: cache get %d@%d: %w", t, steps, err)
	}
	if ok {
		c.stats.hits.Add(1)
		return n, nil
	}
	c.stats.misses.Add(1)

	// only a sibling worker's failure cancels ctx
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	succ, err := Evaluate(t)
	if err != nil {
		var oe *OverflowError
		if errors.As(err, &oe) {
			oe.Steps = steps
			c.log.Error("rule overflow", Fields{"token": uint64(t), "steps": steps})
		}
		return 0, err
	}

	var total uint64
	for _, s := range succ {
		n, err := c.Count(ctx, s, steps-1)
		if err != nil {
			return 0, err
		}
		sum, carry := bits.Add64(total, n, 0)
		if carry != 0 {
			c.log.Error("population overflow", Fields{"token": uint64(t), "steps": steps})
			return 0, &OverflowError{Op: OpAdd, Token: t, Steps: steps}
		}
		total = sum
	}

	if err := c.cache.Insert(ctx, k, total); err != nil {
		return 0, fmt.Errorf("tokencount: cache insert %d@%d: %w", t, steps, err)
	}
	c.stats.inserts.Add(1)
	return total, nil
}

// Stats returns a snapshot of cache usage so far.
func (c *Counter) Stats() Stats { return c.stats.snapshot() }
