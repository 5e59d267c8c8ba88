package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/tokencount"
	"github.com/unkn0wn-root/tokencount/internal/config"
	"github.com/unkn0wn-root/tokencount/internal/setup"
)

var (
	configFile string
	steps      uint32
	workers    int
	shards     int
	store      string
	codecName  string
	logBackend string
	logLevel   string
	showStats  bool
	// curve
	plotHeight int
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tokencount [file]",
		Short: "count tokens after repeated rule application",
		Long: "Reads whitespace-separated tokens from the first line of file (or stdin)\n" +
			"and prints how many tokens they become after --steps generations.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCount,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.Uint32Var(&steps, "steps", config.DefaultSteps, "generations to apply")
	pf.IntVar(&workers, "workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	pf.IntVar(&shards, "shards", 0, "memory store shards (0 = 4 per CPU)")
	pf.StringVar(&store, "store", config.DefaultStore, "memo store: memory, bigcache, ristretto, redis")
	pf.StringVar(&codecName, "codec", config.DefaultCodec, "value codec for byte stores: binary, json, cbor, msgpack, protobuf")
	pf.StringVar(&logBackend, "log-backend", config.DefaultLogBackend, "log backend: zap, logrus, slog")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	rootCmd.Flags().BoolVar(&showStats, "stats", false, "print cache statistics to stderr")

	naiveCmd := &cobra.Command{
		Use:   "naive [file]",
		Short: "expand the token list generation by generation (small runs only)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runNaive,
	}

	curveCmd := &cobra.Command{
		Use:   "curve [file]",
		Short: "plot the population after every generation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCurve,
	}
	curveCmd.Flags().IntVar(&plotHeight, "height", 15, "plot height in rows")

	rootCmd.AddCommand(naiveCmd, curveCmd)
	return rootCmd
}

// loadConfig reads --config when given; flags set on the command line win over it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("shards") {
		cfg.Shards = shards
	}
	if flags.Changed("store") {
		cfg.Store = store
	}
	if flags.Changed("codec") {
		cfg.Codec = codecName
	}
	if flags.Changed("log-backend") {
		cfg.Log.Backend = logBackend
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readTokens(cmd *cobra.Command, args []string) ([]tokencount.Token, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return tokencount.ParseTokens(r)
}

// runEnv is everything one counting command needs; close releases it in order.
type runEnv struct {
	cfg   *config.Config
	log   tokencount.Logger
	opts  tokencount.RunOptions
	close func()
}

func newRunEnv(cmd *cobra.Command) (*runEnv, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	stderr := cmd.ErrOrStderr()

	log, flush, err := setup.Logger(cfg.Log, stderr)
	if err != nil {
		return nil, err
	}
	hooks, stopHooks := setup.Hooks(cfg, stderr)

	cache, err := setup.Cache(cfg, log, hooks)
	if err != nil {
		stopHooks()
		flush()
		return nil, err
	}

	return &runEnv{
		cfg: cfg,
		log: log,
		opts: tokencount.RunOptions{
			Cache:   cache,
			Workers: cfg.Workers,
			Logger:  log,
			Hooks:   hooks,
		},
		close: func() {
			if err := cache.Close(context.Background()); err != nil {
				log.Warn("cache close failed", tokencount.Fields{"err": err})
			}
			stopHooks()
			flush()
		},
	}, nil
}

func runCount(cmd *cobra.Command, args []string) error {
	tokens, err := readTokens(cmd, args)
	if err != nil {
		return err
	}
	env, err := newRunEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	res, err := tokencount.Run(cmd.Context(), tokens, env.cfg.Steps, env.opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Total)

	if showStats {
		fmt.Fprintf(cmd.ErrOrStderr(), "store=%s hits=%d misses=%d hit_ratio=%.3f elapsed=%s\n",
			env.cfg.Store, res.Stats.Hits, res.Stats.Misses, res.Stats.HitRatio(), res.Elapsed)
	}
	return nil
}

func runNaive(cmd *cobra.Command, args []string) error {
	tokens, err := readTokens(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	n, err := tokencount.Simulate(tokens, cfg.Steps)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), n)
	return nil
}

func runCurve(cmd *cobra.Command, args []string) error {
	tokens, err := readTokens(cmd, args)
	if err != nil {
		return err
	}
	env, err := newRunEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	totals, err := tokencount.Curve(cmd.Context(), tokens, env.cfg.Steps, env.opts)
	if err != nil {
		return err
	}

	data := make([]float64, len(totals))
	for i, n := range totals {
		data[i] = float64(n)
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("population per generation (0..%d)", env.cfg.Steps)),
	)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, graph)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "generation %d: %d\n", env.cfg.Steps, totals[len(totals)-1])
	return nil
}
