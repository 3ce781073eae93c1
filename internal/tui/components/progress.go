package components

import (
	"fmt"
	"math"

	"github.com/theirongolddev/estalvi/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ShareBar renders a labeled bar for a 0-1 share followed by its caption.
func ShareBar(label string, share float64, color lipgloss.Color, labelW, barWidth int, caption string) string {
	t := theme.Active

	if math.IsNaN(share) || share < 0 {
		share = 0
	}
	if share > 1 {
		share = 1
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
		progress.WithColorProfile(lipgloss.ColorProfile()),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	captionStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(share) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%5.1f%%", share*100)) +
		spaceStyle.Render("  ") +
		captionStyle.Render(caption)
}

// ColorForChange returns the theme's increase or decrease color, or muted
// text when nothing changed.
func ColorForChange(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct > 0:
		return t.Increase
	case pct < 0:
		return t.Decrease
	default:
		return t.TextMuted
	}
}
