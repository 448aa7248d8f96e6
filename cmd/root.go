// Package cmd implements the cbudget CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/ledger"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/store"
)

var (
	flagStore     string
	flagStorePath string
	flagQuiet     bool
	flagVerbose   bool
	flagNow       string
)

var (
	appCfg config.Config
	logger = zap.NewNop()
	nowFn  = time.Now
)

var rootCmd = &cobra.Command{
	Use:               "cbudget",
	Short:             "Student budget tracker",
	Long:              "Track a monthly budget, expenses and savings goals, with a health score and spending insights.",
	SilenceUsage:      true,
	PersistentPreRunE: setupRoot,
	PersistentPostRun: func(*cobra.Command, []string) { _ = logger.Sync() },
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "Storage backend: sqlite, bolt, redis or memory")
	rootCmd.PersistentFlags().StringVar(&flagStorePath, "store-path", "", "Database file path (sqlite/bolt) or redis URL")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress warnings")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging to stderr")
	rootCmd.PersistentFlags().StringVar(&flagNow, "now", "", "Evaluate as of this time (RFC3339 or YYYY-MM-DD)")
}

func setupRoot(_ *cobra.Command, _ []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	logger = log

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagStore != "" {
		cfg.Store.Backend = flagStore
	}
	if flagStorePath != "" {
		if cfg.Store.Backend == store.BackendRedis {
			cfg.Store.RedisURL = flagStorePath
		} else {
			cfg.Store.Path = flagStorePath
		}
	}
	appCfg = cfg

	if flagNow != "" {
		t, err := parseNow(flagNow)
		if err != nil {
			return err
		}
		nowFn = func() time.Time { return t }
	}
	return nil
}

func newLogger() (*zap.Logger, error) {
	level := zapcore.WarnLevel
	switch {
	case flagVerbose:
		level = zapcore.DebugLevel
	case flagQuiet:
		level = zapcore.ErrorLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = "console"
	zc.Sampling = nil
	zc.OutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc.Build()
}

func parseNow(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: want RFC3339 or YYYY-MM-DD", raw)
	}
	return d.Time(), nil
}

// openLedger opens the configured store and loads the budget from it.
// A store that cannot be opened is logged and the ledger runs on the default
// snapshot in memory. The returned func closes the store.
func openLedger(ctx context.Context) (*ledger.Ledger, func(), error) {
	var (
		p       ledger.Persister
		closeFn = func() {}
	)
	kv, err := store.Open(ctx, appCfg.Store)
	if err != nil {
		logger.Error("opening store failed",
			zap.String("backend", appCfg.Store.Backend), zap.Error(err))
		p = store.Unavailable{Err: fmt.Errorf("opening %s store: %w", appCfg.Store.Backend, err)}
	} else {
		p = store.Snapshots{KV: kv, Key: appCfg.Store.Key}
		closeFn = func() {
			if err := kv.Close(); err != nil {
				logger.Warn("closing store", zap.Error(err))
			}
		}
	}

	l := ledger.Open(ctx, p, ledger.Options{
		Logger: logger,
		Now:    nowFn,
	})
	if l.Recovered() && !flagQuiet {
		fmt.Fprintln(os.Stderr, "  Stored budget could not be read; showing defaults. Changes will not be saved.")
	}
	return l, closeFn, nil
}

func currency() config.Currency {
	return config.LookupCurrency(appCfg.General.Currency)
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	d, err := cli.ParseMoney(raw, currency())
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

func parseDateFlag(raw string) (model.Date, error) {
	if raw == "" {
		return model.Date{}, nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return model.Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", raw)
	}
	return d, nil
}
