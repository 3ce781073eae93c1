package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/estalvi/internal/cli"
	"github.com/theirongolddev/estalvi/internal/config"
	"github.com/theirongolddev/estalvi/internal/forecast"
	"github.com/theirongolddev/estalvi/internal/model"
	"github.com/theirongolddev/estalvi/internal/tui/components"
	"github.com/theirongolddev/estalvi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderForecastTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(t.Error).Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	// Period selector
	var hdr strings.Builder
	hdr.WriteString(labelStyle.Render("Period  "))
	for i, k := range periodCycle {
		if i > 0 {
			hdr.WriteString(hintStyle.Render(" · "))
		}
		name := periodLabel(k)
		if k == a.period.Kind {
			hdr.WriteString(valueStyle.Render("▸ " + name))
		} else {
			hdr.WriteString(labelStyle.Render(name))
		}
	}
	if a.period.Kind == forecast.Custom {
		hdr.WriteString("\n\n")
		if a.editing {
			hdr.WriteString(labelStyle.Render("From ") + a.startInput.View())
			hdr.WriteString(labelStyle.Render("  To ") + a.endInput.View())
			hdr.WriteString("\n")
			hdr.WriteString(hintStyle.Render("[tab] switch  [enter] apply  [esc] cancel"))
		} else {
			if !a.period.Start.IsZero() {
				hdr.WriteString(labelStyle.Render(fmt.Sprintf("%s, %d days, ratio %.3f",
					a.period.String(), a.period.Days(), a.period.Ratio())))
				hdr.WriteString("  ")
			}
			hdr.WriteString(hintStyle.Render("[e] edit dates"))
		}
	}
	if a.periodErr != "" {
		hdr.WriteString("\n")
		hdr.WriteString(errStyle.Render(a.periodErr))
	}
	hdr.WriteString("\n")
	hdr.WriteString(hintStyle.Render("[p] cycle period  [n] redraw"))

	var b strings.Builder
	b.WriteString(components.ContentCard("Forecast", hdr.String(), cw))
	b.WriteString("\n")

	if len(a.predictions) == 0 {
		b.WriteString(components.ContentCard("Predictions", hintStyle.Render("no forecast for this period yet"), cw))
		return b.String()
	}

	b.WriteString(components.ContentCard("Predictions", a.renderPredictionTable(cw), cw))
	return b.String()
}

func (a App) renderPredictionTable(cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	synthStyle := lipgloss.NewStyle().Foreground(t.Synthetic).Background(t.Surface)

	const labelW, numW = 24, 14
	row := func(label, base, ref, pred string) string {
		return fmt.Sprintf("%-*s%*s%*s%*s", labelW, label, numW, base, numW, ref, numW, pred)
	}

	lines := []string{headStyle.Render(row("Bucket", "Baseline", "Reference", "Predicted") + fmt.Sprintf("%10s", "Change"))}
	sepW := min(innerW, labelW+3*numW+10)
	lines = append(lines, headStyle.Render(strings.Repeat("─", sepW)))

	for _, p := range a.predictions {
		prof := config.Profile(p.Bucket)
		label := prof.Label
		style := rowStyle
		if a.result != nil && a.result.Snapshot.Series(p.Bucket).Source == model.SourceSynthetic {
			label += " ~"
			style = synthStyle
		}
		change := lipgloss.NewStyle().
			Foreground(components.ColorForChange(p.PercentChangeVsBaseline)).
			Background(t.Surface).
			Render(fmt.Sprintf("%10s", cli.FormatChange(p.PercentChangeVsBaseline)))
		lines = append(lines, style.Render(row(label,
			cli.FormatAmount(p.Baseline, prof.Unit),
			cli.FormatAmount(p.Reference, prof.Unit),
			cli.FormatAmount(p.PredictedValue, prof.Unit)))+change)
	}
	return strings.Join(lines, "\n")
}

func periodLabel(k forecast.PeriodKind) string {
	switch k {
	case forecast.NextYear:
		return "Next year"
	case forecast.NextCourse:
		return "Next course"
	default:
		return "Custom"
	}
}
