package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/estalvi/internal/forecast"
	"github.com/theirongolddev/estalvi/internal/tui"
	"github.com/theirongolddev/estalvi/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	period, err := forecast.ParsePeriod(cfg.General.DefaultPeriod, "", "")
	if err != nil {
		period = forecast.Period{Kind: forecast.NextYear}
	}

	app := tui.NewApp(tui.Options{
		Source:          openSource(cfg),
		Rand:            randSource(cfg),
		Period:          period,
		AutoRefresh:     cfg.TUI.AutoRefresh,
		RefreshInterval: time.Duration(cfg.TUI.RefreshIntervalSec) * time.Second,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
