// Package config loads cbudget settings from config.toml, .env and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cbudget/internal/analytics"
)

// Environment overrides. They win over config.toml.
const (
	EnvStoreBackend = "CBUDGET_STORE_BACKEND"
	EnvStorePath    = "CBUDGET_STORE_PATH"
	EnvRedisURL     = "CBUDGET_REDIS_URL"
	EnvCurrency     = "CBUDGET_CURRENCY"
)

// DefaultStoreKey is the key the whole budget snapshot is stored under.
const DefaultStoreKey = "studentBudgetData"

// Config holds all cbudget configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Store      StoreConfig      `toml:"store"`
	Scoring    ScoringConfig    `toml:"scoring"`
	Insights   InsightsConfig   `toml:"insights"`
	Appearance AppearanceConfig `toml:"appearance"`
	Daemon     DaemonConfig     `toml:"daemon"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	Currency  string `toml:"currency"`
	ExportDir string `toml:"export_dir,omitempty"`
}

// StoreConfig selects and locates the key-value backend.
type StoreConfig struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path,omitempty"`
	RedisURL string `toml:"redis_url,omitempty"`
	Key      string `toml:"key"`
}

// ScoringConfig is the health score rubric.
type ScoringConfig struct {
	Start               int          `toml:"start"`
	Utilization         []TierConfig `toml:"utilization"`
	OverBudgetPenalty   int          `toml:"over_budget_penalty"`
	NoActiveGoalPenalty int          `toml:"no_active_goal_penalty"`
}

// TierConfig is one utilization penalty step.
type TierConfig struct {
	Above   float64 `toml:"above"`
	Penalty int     `toml:"penalty"`
}

// InsightsConfig holds the insight and recommendation thresholds.
type InsightsConfig struct {
	HighUtilizationPercent float64 `toml:"high_utilization_percent"`
	ConcentrationShare     float64 `toml:"concentration_share"`
	WindowDays             int     `toml:"window_days"`
	AchievableShare        float64 `toml:"achievable_share"`
	ChallengingShare       float64 `toml:"challenging_share"`
	HighSpendPercent       float64 `toml:"high_spend_percent"`
	LowSpendPercent        float64 `toml:"low_spend_percent"`
	SavingsRateFloor       float64 `toml:"savings_rate_floor"`
	HighAverageExpense     float64 `toml:"high_average_expense"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DaemonConfig holds the local HTTP API settings.
type DaemonConfig struct {
	Addr         string   `toml:"addr"`
	IntervalSecs int      `toml:"interval_secs"`
	EventsBuffer int      `toml:"events_buffer"`
	CORSOrigins  []string `toml:"cors_origins,omitempty"`
}

// Interval returns the poll interval, at least one second.
func (d DaemonConfig) Interval() time.Duration {
	if d.IntervalSecs < 1 {
		return time.Second
	}
	return time.Duration(d.IntervalSecs) * time.Second
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	rubric := analytics.DefaultRubric()
	tiers := make([]TierConfig, 0, len(rubric.Utilization))
	for _, t := range rubric.Utilization {
		tiers = append(tiers, TierConfig{Above: t.Above, Penalty: t.Penalty})
	}

	th := analytics.DefaultThresholds()
	return Config{
		General: GeneralConfig{
			Currency: "USD",
		},
		Store: StoreConfig{
			Backend: "sqlite",
			Key:     DefaultStoreKey,
		},
		Scoring: ScoringConfig{
			Start:               rubric.Start,
			Utilization:         tiers,
			OverBudgetPenalty:   rubric.OverBudgetPenalty,
			NoActiveGoalPenalty: rubric.NoActiveGoalPenalty,
		},
		Insights: InsightsConfig{
			HighUtilizationPercent: th.HighUtilizationPercent,
			ConcentrationShare:     th.ConcentrationShare.InexactFloat64(),
			WindowDays:             th.WindowDays,
			AchievableShare:        th.AchievableShare.InexactFloat64(),
			ChallengingShare:       th.ChallengingShare.InexactFloat64(),
			HighSpendPercent:       th.HighSpendPercent,
			LowSpendPercent:        th.LowSpendPercent,
			SavingsRateFloor:       th.SavingsRateFloor,
			HighAverageExpense:     th.HighAverageExpense.InexactFloat64(),
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8765",
			IntervalSecs: 5,
			EventsBuffer: 200,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cbudget")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cbudget")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant directory for file-backed stores.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "cbudget")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "cbudget")
}

// Load reads the config file, returning defaults if it doesn't exist.
// A .env file in the working directory and CBUDGET_* variables are applied on top.
func Load() (Config, error) {
	cfg := DefaultConfig()

	_ = godotenv.Load()

	data, err := os.ReadFile(ConfigPath())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvStoreBackend); v != "" {
		cfg.Store.Backend = strings.ToLower(v)
	}
	if v := os.Getenv(EnvStorePath); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		cfg.Store.RedisURL = v
	}
	if v := os.Getenv(EnvCurrency); v != "" {
		cfg.General.Currency = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// StorePath returns the configured store path, or the default file under
// DataDir for the file-backed backends.
func (s StoreConfig) StorePath() string {
	if s.Path != "" {
		return s.Path
	}
	switch s.Backend {
	case "bolt":
		return filepath.Join(DataDir(), "budget.bolt")
	default:
		return filepath.Join(DataDir(), "budget.db")
	}
}

// AnalyticsOptions converts the scoring and insight sections into analytics options.
// The message currency symbol comes from the general section.
func (c Config) AnalyticsOptions() analytics.Options {
	opts := analytics.DefaultOptions()

	opts.Rubric.Start = c.Scoring.Start
	opts.Rubric.OverBudgetPenalty = c.Scoring.OverBudgetPenalty
	opts.Rubric.NoActiveGoalPenalty = c.Scoring.NoActiveGoalPenalty
	opts.Rubric.Utilization = make([]analytics.Tier, 0, len(c.Scoring.Utilization))
	for _, t := range c.Scoring.Utilization {
		opts.Rubric.Utilization = append(opts.Rubric.Utilization, analytics.Tier{Above: t.Above, Penalty: t.Penalty})
	}

	in := c.Insights
	opts.Thresholds = analytics.Thresholds{
		HighUtilizationPercent: in.HighUtilizationPercent,
		ConcentrationShare:     decimal.NewFromFloat(in.ConcentrationShare),
		WindowDays:             in.WindowDays,
		AchievableShare:        decimal.NewFromFloat(in.AchievableShare),
		ChallengingShare:       decimal.NewFromFloat(in.ChallengingShare),
		HighSpendPercent:       in.HighSpendPercent,
		LowSpendPercent:        in.LowSpendPercent,
		SavingsRateFloor:       in.SavingsRateFloor,
		HighAverageExpense:     decimal.NewFromFloat(in.HighAverageExpense),
		Currency:               LookupCurrency(c.General.Currency).Symbol,
	}
	return opts
}
