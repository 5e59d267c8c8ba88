package tokencount_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/tokencount"
	"github.com/unkn0wn-root/tokencount/provider"
	"github.com/unkn0wn-root/tokencount/provider/bigcache"
	"github.com/unkn0wn-root/tokencount/provider/ristretto"
)

var example = []tokencount.Token{125, 17}

func TestRunExample(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		steps uint32
		want  uint64
	}{
		{1, 3},
		{6, 22},
		{25, 55312},
		{75, 65601038650482},
	}
	for _, tt := range tests {
		res, err := tokencount.Run(ctx, example, tt.steps, tokencount.RunOptions{})
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.Total, "steps=%d", tt.steps)
	}
}

func TestRunDistinctTokens(t *testing.T) {
	res, err := tokencount.Run(context.Background(), []tokencount.Token{0, 1, 10, 99, 999}, 75, tokencount.RunOptions{Workers: 3})
	require.NoError(t, err)
	assert.Equal(t, uint64(149161030616311), res.Total)
	assert.Greater(t, res.Stats.Hits, uint64(0))
	assert.Equal(t, res.Stats.Misses, res.Stats.Inserts)
}

func TestRunRejectsZeroSteps(t *testing.T) {
	_, err := tokencount.Run(context.Background(), example, 0, tokencount.RunOptions{})
	assert.ErrorIs(t, err, tokencount.ErrInvalidSteps)
}

func TestRunLeavesCallerCacheOpen(t *testing.T) {
	cache := tokencount.NewShardedCache(4)
	_, err := tokencount.Run(context.Background(), example, 25, tokencount.RunOptions{Cache: cache})
	require.NoError(t, err)
	assert.Greater(t, cache.Len(), 0)

	// a second run over the warm cache never evaluates the rule
	res, err := tokencount.Run(context.Background(), example, 25, tokencount.RunOptions{Cache: cache})
	require.NoError(t, err)
	assert.Equal(t, uint64(55312), res.Total)
	assert.Equal(t, uint64(0), res.Stats.Misses)
}

func TestRunOnProviderBackends(t *testing.T) {
	ctx := context.Background()

	bc, err := bigcache.New(bigcache.Config{Shards: 16, MaxEntriesInWindow: 4096, MaxEntrySize: 64})
	require.NoError(t, err)
	rs, err := ristretto.New(ristretto.Config{NumCounters: 1 << 14, MaxCost: 1 << 20})
	require.NoError(t, err)

	for name, p := range map[string]provider.Provider{"bigcache": bc, "ristretto": rs} {
		t.Run(name, func(t *testing.T) {
			cache, err := tokencount.NewProviderCache(tokencount.Options{Provider: p})
			require.NoError(t, err)
			t.Cleanup(func() { _ = cache.Close(ctx) })

			res, err := tokencount.Run(ctx, example, 25, tokencount.RunOptions{Cache: cache, Workers: 1})
			require.NoError(t, err)
			assert.Equal(t, uint64(55312), res.Total)
			// every sub-problem is evaluated once, as with the in-process cache
			assert.Equal(t, memoryMisses(t, 25), res.Stats.Misses)
		})
	}
}

func memoryMisses(t *testing.T, steps uint32) uint64 {
	t.Helper()
	res, err := tokencount.Run(context.Background(), example, steps, tokencount.RunOptions{Workers: 1})
	require.NoError(t, err)
	return res.Stats.Misses
}

func TestRunFailsWhenStoreDropsEntries(t *testing.T) {
	ctx := context.Background()
	rs, err := ristretto.New(ristretto.Config{NumCounters: 1 << 10, MaxCost: 1 << 10})
	require.NoError(t, err)
	cache, err := tokencount.NewProviderCache(tokencount.Options{
		Provider:       rs,
		ComputeSetCost: func(_ string, raw []byte) int64 { return int64(len(raw)) },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close(ctx) })

	_, err = tokencount.Run(ctx, example, 40, tokencount.RunOptions{Cache: cache, Workers: 4})
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrNotStored)
}

func TestCurve(t *testing.T) {
	got, err := tokencount.Curve(context.Background(), example, 7, tokencount.RunOptions{Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3, 4, 5, 9, 13, 22, 31}, got)
}

func TestCurveZeroSteps(t *testing.T) {
	got, err := tokencount.Curve(context.Background(), example, 0, tokencount.RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, got)
}
