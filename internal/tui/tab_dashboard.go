package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/estalvi/internal/cli"
	"github.com/theirongolddev/estalvi/internal/config"
	"github.com/theirongolddev/estalvi/internal/model"
	"github.com/theirongolddev/estalvi/internal/pipeline"
	"github.com/theirongolddev/estalvi/internal/tui/components"
	"github.com/theirongolddev/estalvi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderDashboardTab(cw int) string {
	if a.result == nil {
		return ""
	}
	t := theme.Active
	snap := a.result.Snapshot

	metrics := make([]components.Metric, 0, len(a.summaries))
	for _, s := range a.summaries {
		p := config.Profile(s.Bucket)
		m := components.Metric{
			Label:     p.Label,
			Value:     cli.FormatAmount(s.Total, p.Unit),
			Synthetic: s.Source == model.SourceSynthetic,
		}
		if s.Bucket.IsMonthly() {
			m.Note = fmt.Sprintf("%s/month · %d months", cli.FormatAmount(s.MonthlyAverage, p.Unit), s.Months)
		} else if s.TopCategory != "" {
			m.Note = fmt.Sprintf("top: %s %s", s.TopCategory, cli.FormatPercent(s.TopShare))
		}
		metrics = append(metrics, m)
	}

	halves := components.LayoutRow(cw, 2)
	chartH := 8

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	b.WriteString(components.CardRow([]string{
		monthlyCard(snap.Series(model.Electric), t.BucketColor(model.Electric), halves[0], chartH),
		monthlyCard(snap.Series(model.Water), t.BucketColor(model.Water), halves[1], chartH),
	}))
	b.WriteString("\n")

	b.WriteString(components.CardRow([]string{
		categoryCard(snap.Series(model.Office), halves[0]),
		categoryCard(snap.Series(model.Cleaning), halves[1]),
	}))

	return b.String()
}

// monthlyCard renders a monthly bucket as a bar chart, one bar per month.
func monthlyCard(s model.Series, color lipgloss.Color, outerW, chartH int) string {
	p := config.Profile(s.Bucket)
	title := fmt.Sprintf("%s (%s)", p.Label, p.Unit)
	if s.Source == model.SourceSynthetic {
		title += " ~ synthetic"
	}

	if len(s.Monthly) == 0 {
		return components.ContentCard(title, "no data", outerW)
	}

	values := make([]float64, len(s.Monthly))
	labels := make([]string, len(s.Monthly))
	for i, m := range s.Monthly {
		values[i] = m.Value
		labels[i] = monthShort(m)
	}

	innerW := components.CardInnerWidth(outerW)
	return components.ContentCard(title, components.BarChart(values, labels, color, innerW, chartH), outerW)
}

func monthShort(m model.MonthlyAggregate) string {
	name := m.MonthName
	if name == "" && m.Month >= 0 && m.Month < 12 {
		name = pipeline.MonthNames[m.Month]
	}
	r := []rune(name)
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}

// categoryCard renders a category bucket as one share bar per category.
func categoryCard(s model.Series, outerW int) string {
	p := config.Profile(s.Bucket)
	title := fmt.Sprintf("%s (%s)", p.Label, p.Unit)
	if s.Source == model.SourceSynthetic {
		title += " ~ synthetic"
	}

	labels := s.Categories.Labels()
	if len(labels) == 0 {
		return components.ContentCard(title, "no data", outerW)
	}

	total := s.Categories.Total()
	labelW := 0
	for _, l := range labels {
		labelW = max(labelW, lipgloss.Width(l))
	}
	innerW := components.CardInnerWidth(outerW)
	barW := max(innerW-labelW-22, 8)

	lines := make([]string, 0, len(labels))
	for _, l := range labels {
		share := 0.0
		if total != 0 {
			share = s.Categories[l] / total
		}
		lines = append(lines, components.ShareBar(l, share, theme.Active.BucketColor(s.Bucket), labelW, barW, cli.FormatAmount(s.Categories[l], p.Unit)))
	}
	return components.ContentCard(title, strings.Join(lines, "\n"), outerW)
}
