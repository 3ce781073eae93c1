package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/estalvi/internal/cli"
	"github.com/theirongolddev/estalvi/internal/config"
	"github.com/theirongolddev/estalvi/internal/forecast"
	"github.com/theirongolddev/estalvi/internal/model"
	"github.com/theirongolddev/estalvi/internal/pipeline"
	"github.com/theirongolddev/estalvi/internal/rng"
	"github.com/theirongolddev/estalvi/internal/source"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagSource  string
	flagSeed    uint64
	flagQuiet   bool
	flagTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "estalvi",
	Short: "Consumption dashboard and forecasts",
	Long:  "Aggregate electricity, water and consumables data and project next year's costs and savings.",
	RunE:  runSummary,

	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.RenderWarning(friendlyError(err)))
		os.Exit(1)
	}
}

func init() {
	// A missing .env is fine.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVarP(&flagSource, "source", "s", "", "CSV path or http(s) URL (default from config)")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "Random seed for forecasts, 0 for fresh randomness")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", source.DefaultTimeout, "Fetch timeout for remote sources")
}

// friendlyError turns the domain sentinels into a single readable line.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, source.ErrLoadFailure):
		return "Could not load data: " + err.Error()
	case errors.Is(err, forecast.ErrInvalidDateRange):
		return "Invalid date range: " + err.Error()
	case errors.Is(err, forecast.ErrUnknownPeriod):
		return "Unknown period (use nextYear, nextCourse or custom): " + err.Error()
	case errors.Is(err, model.ErrUnknownBucket):
		return "Unknown bucket (use electric, water, office or cleaning): " + err.Error()
	}
	return err.Error()
}

// loadConfig reads the config file, falling back to defaults.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  %v, using defaults\n", err)
	}
	return cfg
}

// openSource resolves the input location from flag, env or config.
func openSource(cfg config.Config) source.Source {
	location := flagSource
	if location == "" {
		location = config.GetSource(cfg)
	}
	timeout := flagTimeout
	if !rootCmd.PersistentFlags().Changed("timeout") && cfg.General.TimeoutSec > 0 {
		timeout = time.Duration(cfg.General.TimeoutSec) * time.Second
	}
	return source.Open(location, timeout)
}

// randSource returns a seeded source when a seed is set by flag, env or
// config, and system entropy otherwise.
func randSource(cfg config.Config) rng.Source {
	seed := flagSeed
	if seed == 0 {
		seed = config.GetSeed(cfg)
	}
	return rng.FromSeed(seed)
}

// loadData is the shared data loading path used by all commands.
func loadData() (*pipeline.LoadResult, rng.Source, error) {
	cfg := loadConfig()
	src := openSource(cfg)
	rnd := randSource(cfg)

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loading %s...\n", src.Name())
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Building buckets [%d/%d]", current, total)
	}

	ctx, cancel := commandContext()
	defer cancel()

	result, err := pipeline.Load(ctx, src, pipeline.Options{Rand: rnd, Progress: progressFn})
	if err != nil {
		if !flagQuiet {
			fmt.Fprintln(os.Stderr)
		}
		return nil, nil, err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "\r  Loaded %s rows in %s    \n",
			cli.FormatNumber(int64(result.Rows)), cli.FormatLoadTime(result.LoadTime))
		printLoadWarnings(result)
	}
	return result, rnd, nil
}

func printLoadWarnings(result *pipeline.LoadResult) {
	if result.InvalidDates > 0 {
		fmt.Fprintln(os.Stderr, cli.RenderWarning(fmt.Sprintf("%d rows skipped: unparseable date", result.InvalidDates)))
	}
	if result.NonNumericValues > 0 {
		fmt.Fprintln(os.Stderr, cli.RenderWarning(fmt.Sprintf("%d values are not numeric; totals that include them show n/a", result.NonNumericValues)))
	}
	for _, b := range model.AllBuckets {
		if result.Snapshot.Series(b).Source == model.SourceSynthetic {
			fmt.Fprintln(os.Stderr, cli.RenderNote(fmt.Sprintf("%s: no data, showing synthetic values", config.Profile(b).Label)))
		}
	}
}

// bucketArg parses an optional bucket argument. An empty list yields every
// bucket accepted by keep.
func bucketArg(args []string, keep func(model.Bucket) bool) ([]model.Bucket, error) {
	if len(args) == 0 {
		var out []model.Bucket
		for _, b := range model.AllBuckets {
			if keep(b) {
				out = append(out, b)
			}
		}
		return out, nil
	}
	b, err := model.ParseBucket(args[0])
	if err != nil {
		return nil, err
	}
	if !keep(b) {
		return nil, fmt.Errorf("%w: %s has no such view", model.ErrUnknownBucket, b)
	}
	return []model.Bucket{b}, nil
}
