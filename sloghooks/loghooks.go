package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/tokencount"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	SelfHealEvery uint64
	RejectEvery   uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	selfHealCtr atomic.Uint64
	rejectCtr   atomic.Uint64
}

var _ tokencount.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) SelfHealEntry(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("tokencount.self_heal_entry",
		"key", storageKey,
		"reason", reason)
}

func (h *Hooks) ProviderSetRejected(storageKey string) {
	if h.l == nil || !sample(h.opts.RejectEvery, &h.rejectCtr) {
		return
	}
	h.l.Warn("tokencount.provider_set_rejected",
		"key", storageKey)
}

func (h *Hooks) WorkerFailed(index int, token tokencount.Token, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("tokencount.worker_failed",
		"index", index,
		"token", uint64(token),
		"err", err)
}
