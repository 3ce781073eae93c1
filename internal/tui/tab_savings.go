package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/estalvi/internal/cli"
	"github.com/theirongolddev/estalvi/internal/config"
	"github.com/theirongolddev/estalvi/internal/tui/components"
	"github.com/theirongolddev/estalvi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderSavingsTab(cw int) string {
	t := theme.Active
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if len(a.savings) == 0 {
		return components.ContentCard("Potential savings", hintStyle.Render("no data"), cw)
	}

	metrics := make([]components.Metric, 0, len(a.savings))
	for _, s := range a.savings {
		p := config.Profile(s.Bucket)
		metrics = append(metrics, components.Metric{
			Label: p.Label,
			Value: cli.FormatAmount(s.Amount, p.Unit),
			Note:  fmt.Sprintf("%.1f%% of %s", s.Percent, cli.FormatAmount(s.Baseline, p.Unit)),
		})
	}

	innerW := components.CardInnerWidth(cw)
	labelW := 0
	for _, s := range a.savings {
		labelW = max(labelW, lipgloss.Width(config.Profile(s.Bucket).Label))
	}
	barW := max(innerW-labelW-24, 8)

	lines := make([]string, 0, len(a.savings)+2)
	for _, s := range a.savings {
		p := config.Profile(s.Bucket)
		span := fmt.Sprintf("range %.0f-%.0f%%", p.Savings.Min, p.Savings.Max)
		lines = append(lines, components.ShareBar(p.Label, s.Percent/100, t.BucketColor(s.Bucket), labelW, barW, span))
	}
	lines = append(lines, "", hintStyle.Render("Estimates are illustrative draws. [n] redraw"))

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Potential savings", strings.Join(lines, "\n"), cw))
	return b.String()
}
