package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Choose currency, theme and storage backend",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Start from the file, not appCfg, so --store flags are not persisted.
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("config unreadable, starting from defaults")
		cfg = config.DefaultConfig()
	}

	fmt.Println()
	fmt.Println("  Welcome to cbudget!")
	fmt.Println()

	vals := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}
	vals.Apply(&cfg)

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `cbudget setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
