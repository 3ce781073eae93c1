package components

import (
	"strings"

	"github.com/theirongolddev/estalvi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar. errMsg, when set, replaces
// the right-hand info in the warning color.
func RenderStatusBar(width int, info, errMsg string, reloading bool) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	left := " [d/f/s]tabs  [p]eriod  [r]eload  [?]help  [q]uit"

	right := info
	rightStyle := base
	switch {
	case reloading:
		right = "reloading…"
		rightStyle = base.Foreground(t.Accent)
	case errMsg != "":
		right = errMsg
		rightStyle = base.Foreground(t.Busy)
	}
	right += " "

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		maxRight := width - lipgloss.Width(left) - 1
		if maxRight < 0 {
			maxRight = 0
		}
		r := []rune(right)
		if len(r) > maxRight {
			right = string(r[:maxRight])
		}
		padding = max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	}

	return base.Render(left) + base.Render(strings.Repeat(" ", padding)) + rightStyle.Render(right)
}
