package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/unkn0wn-root/tokencount"
	"github.com/unkn0wn-root/tokencount/codec"
)

const (
	DefaultSteps         = 75
	DefaultStore         = StoreMemory
	DefaultCodec         = "binary"
	DefaultLogBackend    = "zap"
	DefaultLogLevel      = "warn"
	DefaultHookQueue     = 1024
	DefaultRedisAddr     = "localhost:6379"
	DefaultRedisMaxValue = 64
)

// Stores a run can memoize into.
const (
	StoreMemory    = "memory"
	StoreBigCache  = "bigcache"
	StoreRistretto = "ristretto"
	StoreRedis     = "redis"
)

var (
	stores      = []string{StoreMemory, StoreBigCache, StoreRistretto, StoreRedis}
	logBackends = []string{"zap", "logrus", "slog"}
	logLevels   = []string{"debug", "info", "warn", "error"}
)

type Config struct {
	Steps     uint32          `yaml:"steps"`
	Workers   int             `yaml:"workers"`
	Shards    int             `yaml:"shards"`
	Store     string          `yaml:"store"`
	Codec     string          `yaml:"codec"`
	Log       LogConfig       `yaml:"log"`
	Hooks     HooksConfig     `yaml:"hooks"`
	BigCache  BigCacheConfig  `yaml:"bigcache"`
	Ristretto RistrettoConfig `yaml:"ristretto"`
	Redis     RedisConfig     `yaml:"redis"`
}

type LogConfig struct {
	Backend string `yaml:"backend"`
	Level   string `yaml:"level"`
}

type HooksConfig struct {
	SelfHealEvery uint64 `yaml:"self_heal_every"`
	RejectEvery   uint64 `yaml:"reject_every"`
	Queue         int    `yaml:"queue"`
}

type BigCacheConfig struct {
	LifeWindow         time.Duration `yaml:"life_window"`
	Shards             int           `yaml:"shards"`
	MaxEntriesInWindow int           `yaml:"max_entries_in_window"`
	MaxEntrySize       int           `yaml:"max_entry_size"`
	HardMaxCacheSizeMB int           `yaml:"hard_max_cache_size_mb"`
}

type RistrettoConfig struct {
	NumCounters int64 `yaml:"num_counters"`
	MaxCost     int64 `yaml:"max_cost"`
	BufferItems int64 `yaml:"buffer_items"`
	Metrics     bool  `yaml:"metrics"`
}

type RedisConfig struct {
	Addr          string        `yaml:"addr"`
	Password      string        `yaml:"password"`
	DB            int           `yaml:"db"`
	Expiry        time.Duration `yaml:"expiry"`
	MaxValueBytes int           `yaml:"max_value_bytes"`
}

func DefaultConfig() *Config {
	return &Config{
		Steps: DefaultSteps,
		Store: DefaultStore,
		Codec: DefaultCodec,
		Log: LogConfig{
			Backend: DefaultLogBackend,
			Level:   DefaultLogLevel,
		},
		Hooks: HooksConfig{
			SelfHealEvery: 1,
			RejectEvery:   1,
			Queue:         DefaultHookQueue,
		},
		BigCache: BigCacheConfig{
			Shards:             64,
			MaxEntriesInWindow: 1 << 16,
			MaxEntrySize:       64,
		},
		Ristretto: RistrettoConfig{
			NumCounters: 1 << 22,
			MaxCost:     64 << 20,
			BufferItems: 64,
		},
		Redis: RedisConfig{
			Addr:          DefaultRedisAddr,
			MaxValueBytes: DefaultRedisMaxValue,
		},
	}
}

// Load reads a YAML file over DefaultConfig; keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings no run could start with.
func (c *Config) Validate() error {
	if c.Steps == 0 {
		return fmt.Errorf("%w: steps must be positive", tokencount.ErrInvalidSteps)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.Shards < 0 {
		return fmt.Errorf("shards must be >= 0, got %d", c.Shards)
	}
	if err := oneOf("store", c.Store, stores); err != nil {
		return err
	}
	if err := oneOf("codec", c.Codec, codec.Names()); err != nil {
		return err
	}
	if err := oneOf("log.backend", c.Log.Backend, logBackends); err != nil {
		return err
	}
	if err := oneOf("log.level", c.Log.Level, logLevels); err != nil {
		return err
	}
	if c.Store == StoreRistretto {
		r := c.Ristretto
		if r.NumCounters <= 0 || r.MaxCost <= 0 || r.BufferItems <= 0 {
			return fmt.Errorf("ristretto: num_counters, max_cost and buffer_items must be positive")
		}
	}
	if c.Store == StoreRedis && c.Redis.Addr == "" {
		return fmt.Errorf("redis: addr is required")
	}
	return nil
}

func oneOf(field, v string, allowed []string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%s: unknown value %q (want one of %v)", field, v, allowed)
}
