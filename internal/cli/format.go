// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatAmount formats a value with two decimals, thousands separators and
// an optional unit suffix. NaN renders as "n/a".
// e.g., 1234.5, "kWh" -> "1,234.50 kWh"
func FormatAmount(v float64, unit string) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	if math.IsInf(v, 0) {
		return "∞"
	}

	neg := v < 0
	if neg {
		v = -v
	}
	cents := int64(math.Round(v * 100))
	s := FormatNumber(cents/100) + fmt.Sprintf(".%02d", cents%100)
	if neg && cents != 0 {
		s = "-" + s
	}
	if unit != "" {
		s += " " + unit
	}
	return s
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	if math.IsNaN(f) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatChange formats a percent change with a leading "+" when positive.
// e.g., 2.53 -> "+2.5%", -1.2 -> "-1.2%", 0 -> "0.0%"
func FormatChange(pct float64) string {
	if math.IsNaN(pct) {
		return "n/a"
	}
	if pct > 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatLoadTime formats a load duration for status lines.
// e.g., 850ms -> "850ms", 2300ms -> "2.3s"
func FormatLoadTime(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
