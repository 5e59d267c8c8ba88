// Package setup turns a config.Config into the pieces of a run: logger, hooks and cache.
package setup

import (
	"fmt"
	"io"
	stdslog "log/slog"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/tokencount"
	"github.com/unkn0wn-root/tokencount/codec"
	asynchook "github.com/unkn0wn-root/tokencount/hooks/async"
	"github.com/unkn0wn-root/tokencount/internal/config"
	tclogrus "github.com/unkn0wn-root/tokencount/log/logrus"
	tcslog "github.com/unkn0wn-root/tokencount/log/slog"
	tczap "github.com/unkn0wn-root/tokencount/log/zap"
	"github.com/unkn0wn-root/tokencount/provider"
	"github.com/unkn0wn-root/tokencount/provider/bigcache"
	"github.com/unkn0wn-root/tokencount/provider/redis"
	"github.com/unkn0wn-root/tokencount/provider/ristretto"
	"github.com/unkn0wn-root/tokencount/sloghooks"
)

// Logger builds the configured backend writing to w. flush must be called before exit.
func Logger(cfg config.LogConfig, w io.Writer) (log tokencount.Logger, flush func(), err error) {
	switch cfg.Backend {
	case "zap":
		lvl, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, err
		}
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(w),
			lvl,
		)
		l := zap.New(core)
		return tczap.ZapLogger{L: l}, func() { _ = l.Sync() }, nil

	case "logrus":
		lvl, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, err
		}
		l := logrus.New()
		l.SetOutput(w)
		l.SetLevel(lvl)
		l.SetFormatter(&logrus.JSONFormatter{})
		return tclogrus.New(l), func() {}, nil

	case "slog":
		return tcslog.Logger{L: slogLogger(cfg, w)}, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown log backend %q", cfg.Backend)
}

func slogLevel(level string) stdslog.Level {
	var l stdslog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return stdslog.LevelWarn
	}
	return l
}

func slogLogger(cfg config.LogConfig, w io.Writer) *stdslog.Logger {
	return stdslog.New(stdslog.NewJSONHandler(w, &stdslog.HandlerOptions{Level: slogLevel(cfg.Level)}))
}

// Hooks reports cache and worker events as sampled slog records, delivered off the
// counting goroutines. stop drains pending events.
func Hooks(cfg *config.Config, w io.Writer) (h tokencount.Hooks, stop func()) {
	raw := sloghooks.New(slogLogger(cfg.Log, w), sloghooks.Options{
		SelfHealEvery: cfg.Hooks.SelfHealEvery,
		RejectEvery:   cfg.Hooks.RejectEvery,
	})
	ah := asynchook.New(raw, 1, cfg.Hooks.Queue)
	return ah, ah.Close
}

// Cache builds the store the run memoizes into. The caller owns the returned cache
// and must Close it.
func Cache(cfg *config.Config, log tokencount.Logger, hooks tokencount.Hooks) (tokencount.Cache, error) {
	if cfg.Store == config.StoreMemory {
		return tokencount.NewShardedCache(cfg.Shards), nil
	}

	cd, err := codec.ByName(cfg.Codec)
	if err != nil {
		return nil, err
	}
	opts := tokencount.Options{Codec: cd, Logger: log, Hooks: hooks}

	var p provider.Provider
	switch cfg.Store {
	case config.StoreBigCache:
		b := cfg.BigCache
		p, err = bigcache.New(bigcache.Config{
			LifeWindow:         b.LifeWindow,
			Shards:             b.Shards,
			MaxEntriesInWindow: b.MaxEntriesInWindow,
			MaxEntrySize:       b.MaxEntrySize,
			HardMaxCacheSizeMB: b.HardMaxCacheSizeMB,
		})

	case config.StoreRistretto:
		r := cfg.Ristretto
		p, err = ristretto.New(ristretto.Config{
			NumCounters: r.NumCounters,
			MaxCost:     r.MaxCost,
			BufferItems: r.BufferItems,
			Metrics:     r.Metrics,
		})
		// cost in bytes, so MaxCost reads as a memory bound
		opts.ComputeSetCost = func(_ string, raw []byte) int64 { return int64(len(raw)) }

	case config.StoreRedis:
		rc := cfg.Redis
		client := goredis.NewClient(&goredis.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		})
		p, err = redis.New(redis.Config{Client: client, CloseClient: true, Expiry: rc.Expiry})
		// a shared store can hand back anything; bound what we try to decode
		opts.Codec = codec.Limit(cd, rc.MaxValueBytes)

	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
	if err != nil {
		return nil, fmt.Errorf("%s provider: %w", cfg.Store, err)
	}

	opts.Provider = p
	return tokencount.NewProviderCache(opts)
}
