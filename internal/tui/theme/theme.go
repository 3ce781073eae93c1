// Package theme defines color themes for the estalvi dashboard.
package theme

import (
	"github.com/theirongolddev/estalvi/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the color roles used throughout the TUI.
type Theme struct {
	Name string

	Background   lipgloss.Color // Main app background
	Surface      lipgloss.Color // Card/panel backgrounds
	SurfaceHover lipgloss.Color // Active tab
	Border       lipgloss.Color // Card borders
	BorderAccent lipgloss.Color // Loading card and focus borders

	TextDim     lipgloss.Color // Hints, axis labels
	TextMuted   lipgloss.Color // Labels, metadata
	TextPrimary lipgloss.Color // Values

	Accent       lipgloss.Color
	AccentBright lipgloss.Color

	// Consumption going up is bad news, going down is good news.
	Increase lipgloss.Color
	Decrease lipgloss.Color

	Synthetic lipgloss.Color // Values built from fallback data
	Busy      lipgloss.Color // Reload in progress
	Error     lipgloss.Color

	// Buckets has one chart color per bucket, indexed by model.Bucket.
	Buckets [4]lipgloss.Color
}

// BucketColor returns the chart color for b, or Accent for an unknown bucket.
func (t Theme) BucketColor(b model.Bucket) lipgloss.Color {
	if int(b) < 0 || int(b) >= len(t.Buckets) {
		return t.Accent
	}
	return t.Buckets[b]
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme - warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Increase:     lipgloss.Color("#D14D41"),
	Decrease:     lipgloss.Color("#879A39"),
	Synthetic:    lipgloss.Color("#D0A215"),
	Busy:         lipgloss.Color("#DA702C"),
	Error:        lipgloss.Color("#D14D41"),
	Buckets: [4]lipgloss.Color{
		model.Electric: "#DA702C",
		model.Water:    "#4385BE",
		model.Office:   "#8B7EC8",
		model.Cleaning: "#24837B",
	},
}

// CatppuccinMocha is a warm pastel theme with soft, soothing colors.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	SurfaceHover: lipgloss.Color("#45475A"),
	Border:       lipgloss.Color("#585B70"),
	BorderAccent: lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	Increase:     lipgloss.Color("#F38BA8"),
	Decrease:     lipgloss.Color("#A6E3A1"),
	Synthetic:    lipgloss.Color("#F9E2AF"),
	Busy:         lipgloss.Color("#FAB387"),
	Error:        lipgloss.Color("#F38BA8"),
	Buckets: [4]lipgloss.Color{
		model.Electric: "#FAB387",
		model.Water:    "#89B4FA",
		model.Office:   "#CBA6F7",
		model.Cleaning: "#94E2D5",
	},
}

// Classic keeps the bucket colors of the web dashboard on a neutral slate.
var Classic = Theme{
	Name:         "classic",
	Background:   lipgloss.Color("#1B2631"),
	Surface:      lipgloss.Color("#212F3C"),
	SurfaceHover: lipgloss.Color("#2C3E50"),
	Border:       lipgloss.Color("#34495E"),
	BorderAccent: lipgloss.Color("#16A085"),
	TextDim:      lipgloss.Color("#5D6D7E"),
	TextMuted:    lipgloss.Color("#95A5A6"),
	TextPrimary:  lipgloss.Color("#ECF0F1"),
	Accent:       lipgloss.Color("#16A085"),
	AccentBright: lipgloss.Color("#1ABC9C"),
	Increase:     lipgloss.Color("#E74C3C"),
	Decrease:     lipgloss.Color("#27AE60"),
	Synthetic:    lipgloss.Color("#F1C40F"),
	Busy:         lipgloss.Color("#E67E22"),
	Error:        lipgloss.Color("#E74C3C"),
	Buckets: [4]lipgloss.Color{
		model.Electric: "#F39C12",
		model.Water:    "#3498DB",
		model.Office:   "#9B59B6",
		model.Cleaning: "#16A085",
	},
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Increase:     lipgloss.Color("1"),
	Decrease:     lipgloss.Color("2"),
	Synthetic:    lipgloss.Color("3"),
	Busy:         lipgloss.Color("3"),
	Error:        lipgloss.Color("1"),
	Buckets: [4]lipgloss.Color{
		model.Electric: "3",
		model.Water:    "4",
		model.Office:   "5",
		model.Cleaning: "6",
	},
}

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, Classic, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}
