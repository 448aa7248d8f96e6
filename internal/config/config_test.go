package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cbudget/internal/analytics"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvStoreBackend, "")
	t.Setenv(EnvCurrency, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != "sqlite" {
		t.Errorf("Store.Backend = %q, want sqlite", cfg.Store.Backend)
	}
	if cfg.Store.Key != DefaultStoreKey {
		t.Errorf("Store.Key = %q, want %q", cfg.Store.Key, DefaultStoreKey)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	body := `
[general]
currency = "INR"

[store]
backend = "bolt"
key = "studentBudgetData"

[scoring]
start = 90
over_budget_penalty = 5

[[scoring.utilization]]
above = 50
penalty = 20
`
	if err := os.MkdirAll(filepath.Join(dir, "cbudget"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "cbudget", "config.toml"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvStoreBackend, "MEMORY")
	t.Setenv(EnvCurrency, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("Store.Backend = %q, want memory (env wins)", cfg.Store.Backend)
	}
	if cfg.General.Currency != "INR" {
		t.Errorf("General.Currency = %q, want INR", cfg.General.Currency)
	}

	opts := cfg.AnalyticsOptions()
	if opts.Rubric.Start != 90 || opts.Rubric.OverBudgetPenalty != 5 {
		t.Errorf("rubric = %+v, want start 90 and over penalty 5", opts.Rubric)
	}
	if diff := cmp.Diff([]analytics.Tier{{Above: 50, Penalty: 20}}, opts.Rubric.Utilization); diff != "" {
		t.Errorf("tiers mismatch (-want +got):\n%s", diff)
	}
	if opts.Thresholds.Currency != "₹" {
		t.Errorf("Thresholds.Currency = %q, want ₹", opts.Thresholds.Currency)
	}
}

func TestAnalyticsOptions_DefaultsRoundTrip(t *testing.T) {
	got := DefaultConfig().AnalyticsOptions()
	want := analytics.DefaultOptions()

	if diff := cmp.Diff(want.Rubric, got.Rubric); diff != "" {
		t.Errorf("rubric mismatch (-want +got):\n%s", diff)
	}
	checks := map[string][2]decimal.Decimal{
		"ConcentrationShare": {want.Thresholds.ConcentrationShare, got.Thresholds.ConcentrationShare},
		"AchievableShare":    {want.Thresholds.AchievableShare, got.Thresholds.AchievableShare},
		"ChallengingShare":   {want.Thresholds.ChallengingShare, got.Thresholds.ChallengingShare},
		"HighAverageExpense": {want.Thresholds.HighAverageExpense, got.Thresholds.HighAverageExpense},
	}
	for name, pair := range checks {
		if !pair[0].Equal(pair[1]) {
			t.Errorf("%s = %s, want %s", name, pair[1], pair[0])
		}
	}
	if got.Thresholds.WindowDays != 30 {
		t.Errorf("WindowDays = %d, want 30", got.Thresholds.WindowDays)
	}
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvStoreBackend, "")
	t.Setenv(EnvCurrency, "")

	cfg := DefaultConfig()
	cfg.Appearance.Theme = "tokyo-night"
	cfg.Daemon.CORSOrigins = []string{"http://localhost:3000"}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("config mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestStorePath_DefaultsPerBackend(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := (StoreConfig{Backend: "sqlite"}).StorePath(); got != "/data/cbudget/budget.db" {
		t.Errorf("sqlite path = %q", got)
	}
	if got := (StoreConfig{Backend: "bolt"}).StorePath(); got != "/data/cbudget/budget.bolt" {
		t.Errorf("bolt path = %q", got)
	}
	if got := (StoreConfig{Backend: "bolt", Path: "/x.db"}).StorePath(); got != "/x.db" {
		t.Errorf("explicit path = %q", got)
	}
}

func TestLookupCurrency(t *testing.T) {
	tests := []struct {
		in         string
		wantSymbol string
		wantPlaces int32
	}{
		{"usd", "$", 2},
		{" INR ", "₹", 2},
		{"₹", "₹", 2},
		{"JPY", "¥", 0},
		{"", "$", 2},
		{"CHF", "CHF ", 2},
	}
	for _, tt := range tests {
		got := LookupCurrency(tt.in)
		if got.Symbol != tt.wantSymbol || got.Places != tt.wantPlaces {
			t.Errorf("LookupCurrency(%q) = %+v, want symbol %q places %d", tt.in, got, tt.wantSymbol, tt.wantPlaces)
		}
	}
}
