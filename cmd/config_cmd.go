package cmd

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	cur := config.LookupCurrency(cfg.General.Currency)
	fmt.Println("  [General]")
	fmt.Printf("    Currency:    %s (%s)\n", cur.Code, cur.Symbol)
	if cfg.General.ExportDir != "" {
		fmt.Printf("    Export dir:  %s\n", cfg.General.ExportDir)
	}
	fmt.Println()

	fmt.Println("  [Store]")
	fmt.Printf("    Backend:     %s\n", cfg.Store.Backend)
	switch cfg.Store.Backend {
	case store.BackendRedis:
		fmt.Printf("    Redis URL:   %s\n", maskURL(cfg.Store.RedisURL))
	case store.BackendMemory:
		fmt.Println("    Location:    in memory (not persisted)")
	default:
		fmt.Printf("    Path:        %s\n", cfg.Store.StorePath())
	}
	fmt.Printf("    Key:         %s\n", cfg.Store.Key)
	fmt.Println()

	fmt.Println("  [Scoring]")
	fmt.Printf("    Start:               %d\n", cfg.Scoring.Start)
	for _, t := range cfg.Scoring.Utilization {
		fmt.Printf("    Utilization > %3.0f%%: -%d\n", t.Above, t.Penalty)
	}
	fmt.Printf("    Per over category:   -%d\n", cfg.Scoring.OverBudgetPenalty)
	fmt.Printf("    No active goal:      -%d\n", cfg.Scoring.NoActiveGoalPenalty)
	fmt.Println()

	fmt.Println("  [Insights]")
	fmt.Printf("    High utilization:    %.0f%%\n", cfg.Insights.HighUtilizationPercent)
	fmt.Printf("    Concentration share: %.2f\n", cfg.Insights.ConcentrationShare)
	fmt.Printf("    Window:              %d days\n", cfg.Insights.WindowDays)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval: %s\n", cfg.Daemon.Interval())
	fmt.Println()

	fmt.Println("  Run `cbudget setup` to reconfigure.")
	return nil
}

// maskURL hides any password in a redis URL.
func maskURL(raw string) string {
	if raw == "" {
		return "not configured"
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}
