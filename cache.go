package tokencount

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	c "github.com/unkn0wn-root/tokencount/codec"
	"github.com/unkn0wn-root/tokencount/internal/util"
	"github.com/unkn0wn-root/tokencount/internal/wire"
	pr "github.com/unkn0wn-root/tokencount/provider"
)

type providerCache struct {
	ns             string
	provider       pr.Provider
	codec          c.Codec[uint64]
	log            Logger
	hooks          Hooks
	computeSetCost SetCostFunc
}

func newProviderCache(opts Options) (*providerCache, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("tokencount: provider is required")
	}

	pc := &providerCache{
		ns:       opts.Namespace,
		provider: opts.Provider,
	}
	if pc.ns == "" {
		// a fresh namespace per run keeps a shared store from leaking entries across runs
		pc.ns = "run-" + uuid.NewString()
	}

	// defaults
	pc.codec = coalesce[c.Codec[uint64]](opts.Codec, c.Uint64{})
	pc.log = coalesce[Logger](opts.Logger, NopLogger{})
	pc.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})

	if opts.ComputeSetCost != nil {
		pc.computeSetCost = opts.ComputeSetCost
	} else {
		pc.computeSetCost = func(_ string, _ []byte) int64 { return 1 }
	}

	pc.log.Debug("provider cache ready", Fields{"ns": pc.ns})
	return pc, nil
}

// Namespace returns the keyspace this cache writes under.
func (pc *providerCache) Namespace() string { return pc.ns }

func (pc *providerCache) Close(ctx context.Context) error {
	if pc.provider != nil {
		return pc.provider.Close(ctx)
	}
	return nil
}

func (pc *providerCache) Get(ctx context.Context, k Key) (uint64, bool, error) {
	sk := pc.storageKey(k)
	raw, ok, err := pc.provider.Get(ctx, sk)
	if err != nil || !ok {
		return 0, false, err
	}
	token, steps, payload, err := wire.DecodeEntry(raw)
	if err != nil {
		pc.selfHeal(ctx, sk, "corrupt")
		return 0, false, nil
	}
	// validate the entry belongs to the key we asked for
	if Token(token) != k.Token || steps != k.Steps {
		pc.selfHeal(ctx, sk, "key_mismatch")
		return 0, false, nil
	}
	n, err := pc.codec.Decode(payload)
	if err != nil {
		pc.selfHeal(ctx, sk, "value_decode")
		return 0, false, nil
	}
	return n, true, nil
}

func (pc *providerCache) Insert(ctx context.Context, k Key, n uint64) error {
	payload, err := pc.codec.Encode(n)
	if err != nil {
		return err
	}
	sk := pc.storageKey(k)
	wireb := wire.EncodeEntry(uint64(k.Token), k.Steps, payload)
	ok, err := pc.provider.Set(ctx, sk, wireb, pc.computeSetCost(sk, wireb))
	if err != nil {
		return err
	}
	if !ok {
		pc.log.Warn("insert not kept by provider", Fields{"key": sk})
		pc.hooks.ProviderSetRejected(sk)
		return fmt.Errorf("tokencount: insert %s: %w", sk, pr.ErrNotStored)
	}
	return nil
}

func (pc *providerCache) selfHeal(ctx context.Context, storageKey, reason string) {
	if err := pc.provider.Del(ctx, storageKey); err != nil {
		pc.log.Warn("self-heal delete failed", Fields{"key": storageKey, "reason": reason, "err": err})
	}
	pc.hooks.SelfHealEntry(storageKey, reason)
}

func (pc *providerCache) storageKey(k Key) string {
	return util.StorageKey(pc.ns, uint64(k.Token), k.Steps)
}
