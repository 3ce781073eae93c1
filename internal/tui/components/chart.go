package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/estalvi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline scaled between the series min and max.
// NaN values render as gaps.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}

	lo, hi := finiteRange(values)
	span := hi - lo
	if span <= 0 {
		span = 1
	}

	var buf strings.Builder
	for _, v := range values {
		if math.IsNaN(v) {
			buf.WriteRune(' ')
			continue
		}
		idx := int((v - lo) / span * float64(len(sparkBlocks)-1))
		idx = min(max(idx, 0), len(sparkBlocks)-1)
		buf.WriteRune(sparkBlocks[idx])
	}

	style := lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface)
	return style.Render(buf.String())
}

// BarChart renders vertical bars, one per value, with a y-axis showing the
// maximum and one label row under the bars. Narrow or short areas fall back
// to a sparkline.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}

	t := theme.Active
	_, peak := finiteRange(values)
	if peak <= 0 {
		peak = 1
	}

	axisLabel := formatChartLabel(peak)
	axisW := len(axisLabel) + 1

	n := len(values)
	barW := (width - axisW - 1 - (n - 1)) / n
	if barW < 1 {
		return Sparkline(values, color)
	}
	barW = min(barW, 6)

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	bgStyle := lipgloss.NewStyle().Background(t.Surface)
	partial := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	for row := height; row >= 1; row-- {
		top := peak * float64(row) / float64(height)
		bottom := peak * float64(row-1) / float64(height)

		label := ""
		if row == height {
			label = axisLabel
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", axisW, label)))

		for i, v := range values {
			if i > 0 {
				b.WriteString(bgStyle.Render(" "))
			}
			switch {
			case math.IsNaN(v) || v <= bottom:
				b.WriteString(bgStyle.Render(strings.Repeat(" ", barW)))
			case v >= top:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			default:
				idx := int((v - bottom) / (top - bottom) * 8)
				idx = min(max(idx, 1), 8)
				b.WriteString(barStyle.Render(strings.Repeat(string(partial[idx]), barW)))
			}
		}
		b.WriteString("\n")
	}

	axisLen := n*barW + (n - 1)
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", axisW, "0", strings.Repeat("─", axisLen))))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(bgStyle.Render(strings.Repeat(" ", axisW+1)))
		cells := make([]string, n)
		for i, l := range labels {
			r := []rune(l)
			if len(r) > barW {
				r = r[:barW]
			}
			cells[i] = fmt.Sprintf("%-*s", barW, string(r))
		}
		b.WriteString(axisStyle.Render(strings.Join(cells, " ")))
	}

	return b.String()
}

func finiteRange(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e4:
		return fmt.Sprintf("%.0fk", v/1e3)
	case v >= 1e3:
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
