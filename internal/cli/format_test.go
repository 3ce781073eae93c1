package cli

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		v    float64
		unit string
		want string
	}{
		{0, "", "0.00"},
		{1234.5, "kWh", "1,234.50 kWh"},
		{198.56, "€", "198.56 €"},
		{-42.125, "", "-42.13"},
		{1_000_000, "m³", "1,000,000.00 m³"},
		{math.NaN(), "kWh", "n/a"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.v, tt.unit); got != tt.want {
			t.Errorf("FormatAmount(%v, %q) = %q, want %q", tt.v, tt.unit, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4321, "-4,321"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatChange(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{2.53, "+2.5%"},
		{-1.24, "-1.2%"},
		{0, "0.0%"},
		{math.NaN(), "n/a"},
	}
	for _, tt := range tests {
		if got := FormatChange(tt.pct); got != tt.want {
			t.Errorf("FormatChange(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestFormatLoadTime(t *testing.T) {
	if got := FormatLoadTime(850 * time.Millisecond); got != "850ms" {
		t.Errorf("got %q, want 850ms", got)
	}
	if got := FormatLoadTime(2300 * time.Millisecond); got != "2.3s" {
		t.Errorf("got %q, want 2.3s", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	got := []rune(RenderSparkline([]float64{300, 350, math.NaN(), 325}))
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	if got[0] != '▁' || got[1] != '█' || got[2] != ' ' {
		t.Errorf("sparkline = %q", string(got))
	}
	if RenderSparkline(nil) != "" {
		t.Error("empty input should render nothing")
	}
}

func TestRenderTable_Aligns(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Bucket", "Total"},
		Rows: [][]string{
			{"water", "6,000.00 m³"},
			{"office", "737.64 €"},
		},
	})
	if !strings.Contains(out, "water") || !strings.Contains(out, "737.64 €") {
		t.Errorf("table missing cells:\n%s", out)
	}
}
