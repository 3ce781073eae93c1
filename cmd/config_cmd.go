// Package cmd implements the estalvi CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/estalvi/internal/config"

	"github.com/spf13/cobra"
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
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	src := config.GetSource(cfg)
	fmt.Printf("    Source:         %s%s\n", src, envMarker("ESTALVI_SOURCE"))
	if seed := config.GetSeed(cfg); seed != 0 {
		fmt.Printf("    Seed:           %d%s\n", seed, envMarker("ESTALVI_SEED"))
	} else {
		fmt.Println("    Seed:           none (fresh randomness)")
	}
	fmt.Printf("    Default period: %s\n", cfg.General.DefaultPeriod)
	fmt.Printf("    Fetch timeout:  %ds\n", cfg.General.TimeoutSec)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:          %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Refresh interval: %ds\n", cfg.Daemon.RefreshIntervalSec)
	fmt.Printf("    Events buffer:    %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Auto refresh:     %v\n", cfg.TUI.AutoRefresh)
	fmt.Printf("    Refresh interval: %ds\n", cfg.TUI.RefreshIntervalSec)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `estalvi setup` to reconfigure.")
	return nil
}

func envMarker(key string) string {
	if os.Getenv(key) != "" {
		return "  (from " + key + ")"
	}
	return ""
}
