package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"fakedata/internal/config"
	"fakedata/internal/logging"
	"fakedata/internal/sampler"
	"fakedata/internal/trace"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// options holds raw flag values before they are merged into a config.Config.
type options struct {
	expType     string
	coreCount   int
	scaleFactor int
	trials      int
	seed        uint64
	output      string
	configPath  string
	verbose     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the gen-fake-data command tree.
func newRootCmd() *cobra.Command {
	opts := &options{}
	var (
		cfg    *config.Config
		logger *zap.Logger
	)

	rootCmd := &cobra.Command{
		Use:   "gen-fake-data",
		Short: "Generate a synthetic software event experiment trace",
		Long: `Generate a synthetic software event experiment trace of a given type.

Data points are sampled from an (approximately) normal distribution whose mean
is the scale factor and whose standard deviation is a tenth of it.

Experiment types:
  one_core   N trials on a single core, one "trial,value" row per trial
  many_core  adds a (source, dest) core pair per sample; with c cores and
             n trials there are n*(c^2-c) rows of "trial,src,dst,value"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			logger, err = logging.New(cfg.Logging, zapcore.AddSync(cmd.ErrOrStderr()))
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), cfg, logger)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.expType, "type", "t", string(config.OneCore), "Experiment type to mimic: one_core or many_core")
	flags.IntVarP(&opts.coreCount, "core-count", "c", 1, "Number of cores for a many_core experiment")
	flags.IntVarP(&opts.scaleFactor, "scale-factor", "s", 1000, "Mean of the sampled values (reasonable cycle counts)")
	flags.IntVarP(&opts.trials, "trials", "n", 100, "How many times to measure each event")
	flags.Uint64Var(&opts.seed, "seed", 0, "Seed for the random stream (default: fresh each run)")
	flags.StringVarP(&opts.output, "output", "o", "", "Write the trace to a file instead of stdout")

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML experiment config file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// resolveConfig merges defaults, the optional config file, the environment and
// explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.FromEnv()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("type") {
		cfg.Type = opts.expType
	}
	if flags.Changed("core-count") {
		cfg.CoreCount = opts.coreCount
	}
	if flags.Changed("scale-factor") {
		cfg.ScaleFactor = opts.scaleFactor
	}
	if flags.Changed("trials") {
		cfg.Trials = opts.trials
	}
	if flags.Changed("seed") {
		cfg.SetSeed(opts.seed)
	}
	if flags.Changed("output") {
		cfg.Output = opts.output
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runGenerate writes one trace to stdout or cfg.Output.
func runGenerate(ctx context.Context, stdout io.Writer, cfg *config.Config, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, _ = logging.WithRunID(logger)
	boot := logging.For(logger, logging.CategoryBoot)

	if cfg.Type != string(config.OneCore) && cfg.Type != string(config.ManyCore) {
		boot.Warn("unrecognized experiment type, treating as many_core", zap.String("type", cfg.Type))
	}

	var s *sampler.Sampler
	if cfg.Seed != nil {
		s = sampler.New(*cfg.Seed)
	} else {
		s = sampler.NewUnseeded()
	}
	mean, stddev := sampler.Params(cfg.ScaleFactor)
	logging.For(logger, logging.CategorySampler).Debug("sampler ready",
		zap.Uint64("seed", s.Seed()),
		zap.Float64("mean", mean),
		zap.Float64("stddev", stddev),
	)

	if cfg.Output == "" {
		return writeTrace(ctx, stdout, cfg, s, logger)
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to create output file [%s]: %w", cfg.Output, err)
	}
	if err := writeTrace(ctx, f, cfg, s, logger); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file [%s]: %w", cfg.Output, err)
	}
	return nil
}

func writeTrace(ctx context.Context, w io.Writer, cfg *config.Config, s *sampler.Sampler, logger *zap.Logger) error {
	stats, err := trace.NewWriter(w, logging.For(logger, logging.CategoryTrace)).Write(ctx, cfg, s)
	if err != nil {
		return fmt.Errorf("failed to generate trace: %w", err)
	}
	logging.For(logger, logging.CategoryBoot).Info("trace generated", zap.Int("rows", stats.Rows))
	return nil
}
