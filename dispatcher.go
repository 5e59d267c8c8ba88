package tokencount

import (
	"context"
	"errors"
	"fmt"
	"math/bits"

	"golang.org/x/sync/errgroup"
)

type DispatcherOptions struct {
	Workers int    // 0 => GOMAXPROCS
	Logger  Logger // if nil, NopLogger is used
	Hooks   Hooks  // if nil, NopHooks is used
}

// Dispatcher fans initial tokens out to a bounded pool of workers sharing one Counter.
type Dispatcher struct {
	counter *Counter
	workers int
	log     Logger
	hooks   Hooks
}

func NewDispatcher(counter *Counter, opts DispatcherOptions) (*Dispatcher, error) {
	if counter == nil {
		return nil, fmt.Errorf("tokencount: counter is required")
	}
	if opts.Workers < 0 {
		return nil, fmt.Errorf("tokencount: workers must be >= 0, got %d", opts.Workers)
	}
	return &Dispatcher{
		counter: counter,
		workers: defaultWorkers(opts.Workers),
		log:     coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:   coalesce[Hooks](opts.Hooks, NopHooks{}),
	}, nil
}

func (d *Dispatcher) Workers() int { return d.workers }

// Total returns the population of all tokens after steps generations.
//
// Every token is one work item. The first failing item cancels the items not yet
// finished and is returned as a *WorkerError; no partial total is ever returned.
// The result does not depend on token order or worker count.
func (d *Dispatcher) Total(ctx context.Context, tokens []Token, steps uint32) (uint64, error) {
	partials := make([]uint64, len(tokens))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for i, t := range tokens {
		if gctx.Err() != nil {
			break
		}
		i, t := i, t
		g.Go(func() error {
			n, err := d.counter.Count(gctx, t, steps)
			if err != nil {
				// siblings stopped by the first failure are not failures themselves
				if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
					d.hooks.WorkerFailed(i, t, err)
				}
				return &WorkerError{Index: i, Token: t, Err: err}
			}
			partials[i] = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		d.log.Error("dispatch aborted", Fields{"err": err, "tokens": len(tokens), "steps": steps})
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var total uint64
	for i, n := range partials {
		sum, carry := bits.Add64(total, n, 0)
		if carry != 0 {
			return 0, &OverflowError{Op: OpTotal, Token: tokens[i], Steps: steps}
		}
		total = sum
	}

	d.log.Debug("dispatch finished", Fields{"tokens": len(tokens), "steps": steps, "workers": d.workers, "total": total})
	return total, nil
}
