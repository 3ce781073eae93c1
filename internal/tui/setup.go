package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/theirongolddev/estalvi/internal/config"
	"github.com/theirongolddev/estalvi/internal/forecast"
	"github.com/theirongolddev/estalvi/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	Source string
	Seed   string
	Period string
	Theme  string
}

// NewSetupValues seeds the form from an existing config.
func NewSetupValues(cfg config.Config) *SetupValues {
	v := &SetupValues{
		Source: cfg.General.Source,
		Period: cfg.General.DefaultPeriod,
		Theme:  cfg.Appearance.Theme,
	}
	if cfg.General.Seed != 0 {
		v.Seed = strconv.FormatUint(cfg.General.Seed, 10)
	}
	if v.Period == "" {
		v.Period = forecast.NextYear.String()
	}
	if v.Theme == "" {
		v.Theme = theme.FlexokiDark.Name
	}
	return v
}

// NewSetupForm builds the setup form bound to vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to estalvi").
				Description("Consumption dashboard and forecasts.\nLet's set up a few things."),
			huh.NewInput().
				Title("Data source").
				Description("Path or http(s) URL of the CSV file. Leave blank for "+config.DefaultSource+".").
				Value(&vals.Source),
			huh.NewInput().
				Title("Random seed").
				Description("Fixes forecast draws. Leave blank for fresh randomness.").
				Validate(validateSeed).
				Value(&vals.Seed),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default forecast period").
				Options(
					huh.NewOption("Next year", forecast.NextYear.String()),
					huh.NewOption("Next course (Sep-Jun)", forecast.NextCourse.String()),
				).
				Value(&vals.Period),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithShowHelp(false)
}

func validateSeed(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseUint(s, 10, 64); err != nil {
		return errors.New("seed must be a non-negative integer")
	}
	return nil
}

// Apply copies the form answers into cfg.
func (v *SetupValues) Apply(cfg *config.Config) {
	cfg.General.Source = strings.TrimSpace(v.Source)
	cfg.General.Seed = 0
	if seed, err := strconv.ParseUint(strings.TrimSpace(v.Seed), 10, 64); err == nil {
		cfg.General.Seed = seed
	}
	if v.Period != "" {
		cfg.General.DefaultPeriod = v.Period
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
}

// saveSetupConfig writes the setup answers and applies the theme.
func (a *App) saveSetupConfig() error {
	cfg, _ := config.Load()
	a.setupVals.Apply(&cfg)
	theme.SetActive(cfg.Appearance.Theme)
	return config.Save(cfg)
}
