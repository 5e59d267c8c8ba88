// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{SelfHealEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	res, err := tokencount.Run(ctx, tokens, 75, tokencount.RunOptions{Hooks: hooks})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/tokencount"
)

// Hooks moves event delivery off the counting goroutines. Events are dropped,
// never blocked on, when the queue is full.
type Hooks struct {
	inner tokencount.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ tokencount.Hooks = (*Hooks)(nil)

func New(inner tokencount.Hooks, workers, qlen int) *Hooks {
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

// Close drains queued events and stops the workers. Events sent after Close panic.
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

func (h *Hooks) SelfHealEntry(k, r string)    { h.try(func() { h.inner.SelfHealEntry(k, r) }) }
func (h *Hooks) ProviderSetRejected(k string) { h.try(func() { h.inner.ProviderSetRejected(k) }) }
func (h *Hooks) WorkerFailed(i int, t tokencount.Token, err error) {
	h.try(func() { h.inner.WorkerFailed(i, t, err) })
}
