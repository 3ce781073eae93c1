package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/theirongolddev/estalvi/internal/forecast"
	"github.com/theirongolddev/estalvi/internal/pipeline"
	"github.com/theirongolddev/estalvi/internal/rng"
	"github.com/theirongolddev/estalvi/internal/source"
	"github.com/theirongolddev/estalvi/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
)

const testCSV = `Tipus,Categoria,Data,Valor
Energia,Consum,2024-01-15,300
Energia,Consum,2024-02-03,280
Aigua,Consum,2024-01-10,6000
Consumible,Marcador,2024-01-10,10.5
`

type stubSource struct {
	data []byte
	err  error
}

func (s stubSource) Name() string { return "stub.csv" }

func (s stubSource) Fetch(context.Context) ([]byte, error) { return s.data, s.err }

// loadedApp returns an App that has finished its first load.
func loadedApp(t *testing.T) App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	a := NewApp(Options{
		Source: stubSource{data: []byte(testCSV)},
		Rand:   rng.Seeded(7),
		Period: forecast.Period{Kind: forecast.NextYear},
	})
	a.needSetup = false
	a.setupForm = nil
	a.width, a.height = 120, 40

	res := pipeline.Build(source.ParseCSV(testCSV), pipeline.Options{Rand: rng.Seeded(7)})
	m, _ := a.Update(DataLoadedMsg{Result: res})
	return m.(App)
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+u":
			msg = tea.KeyMsg{Type: tea.KeyCtrlU}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ := a.Update(msg)
		a = m.(App)
	}
	return a
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := 0; active < 3; active++ {
		a := App{activeTab: active}
		pos := 0

		for i := 0; i < 3; i++ {
			w := tabWidthForTest(i, active)
			x := pos + w/2
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w + 1
		}
	}
}

func tabWidthForTest(tabIdx, activeIdx int) int {
	nameWidths := []int{len("Dashboard"), len("Forecast"), len("Savings")}
	w := nameWidths[tabIdx] + 2
	if tabIdx != activeIdx {
		w += 2
	}
	return w
}

func TestLoadPopulatesViews(t *testing.T) {
	a := loadedApp(t)
	if len(a.summaries) != 4 {
		t.Errorf("summaries = %d, want 4", len(a.summaries))
	}
	if len(a.predictions) != 4 {
		t.Errorf("predictions = %d, want 4", len(a.predictions))
	}
	if len(a.savings) != 4 {
		t.Errorf("savings = %d, want 4", len(a.savings))
	}
	for _, p := range a.predictions {
		if p.Period != "nextYear" {
			t.Errorf("prediction period = %q, want nextYear", p.Period)
		}
	}
}

func TestTabKeys(t *testing.T) {
	tests := []struct {
		keys []string
		want int
	}{
		{[]string{"f"}, tabForecast},
		{[]string{"s"}, tabSavings},
		{[]string{"s", "d"}, tabDashboard},
		{[]string{"l", "l", "l"}, tabDashboard},
		{[]string{"h"}, tabSavings},
	}
	for _, tt := range tests {
		a := press(t, loadedApp(t), tt.keys...)
		if a.activeTab != tt.want {
			t.Errorf("keys %v: activeTab = %d, want %d", tt.keys, a.activeTab, tt.want)
		}
	}
}

func TestCyclePeriod(t *testing.T) {
	a := loadedApp(t)

	a = press(t, a, "p")
	if a.period.Kind != forecast.NextCourse {
		t.Fatalf("after one p: %v, want nextCourse", a.period.Kind)
	}
	if a.predictions[0].Period != "nextCourse" {
		t.Errorf("predictions not recomputed: %q", a.predictions[0].Period)
	}

	// No dates entered yet, so custom opens with an empty forecast.
	a = press(t, a, "p")
	if a.period.Kind != forecast.Custom {
		t.Fatalf("after two p: %v, want custom", a.period.Kind)
	}
	if a.predictions != nil {
		t.Errorf("custom without dates should clear predictions")
	}
	if a.activeTab != tabForecast {
		t.Errorf("custom should switch to the forecast tab")
	}

	a = press(t, a, "p")
	if a.period.Kind != forecast.NextYear {
		t.Errorf("cycle should wrap to nextYear, got %v", a.period.Kind)
	}
}

func TestCustomRangeEditing(t *testing.T) {
	a := press(t, loadedApp(t), "p", "p")

	a = press(t, a, "e")
	if !a.editing {
		t.Fatal("e on custom forecast should open the editor")
	}
	a = press(t, a, "2025-09-01", "tab", "2026-06-30", "enter")
	if a.editing {
		t.Fatal("valid range should close the editor")
	}
	if a.periodErr != "" {
		t.Fatalf("unexpected error: %s", a.periodErr)
	}
	if len(a.predictions) != 4 || !strings.HasPrefix(a.predictions[0].Period, "custom") {
		t.Fatalf("custom predictions not computed: %+v", a.predictions)
	}
	prev := a.predictions

	// Reversed range is rejected and the previous forecast stays.
	a = press(t, a, "e", "ctrl+u", "2026-07-01", "enter")
	if !a.editing {
		t.Error("invalid range should keep the editor open")
	}
	if !strings.Contains(a.periodErr, forecast.ErrInvalidDateRange.Error()) {
		t.Errorf("periodErr = %q, want invalid date range", a.periodErr)
	}
	if len(a.predictions) != len(prev) || a.predictions[0] != prev[0] {
		t.Error("invalid range replaced the previous predictions")
	}

	a = press(t, a, "esc")
	if a.editing {
		t.Error("esc should close the editor")
	}
}

func TestReloadFailureKeepsData(t *testing.T) {
	a := loadedApp(t)
	before := a.result

	a = press(t, a, "r")
	if !a.reloading {
		t.Fatal("r should start a reload")
	}

	m, _ := a.Update(DataLoadedMsg{Err: errors.New("boom"), Reload: true})
	a = m.(App)
	if a.reloading {
		t.Error("reloading flag not cleared")
	}
	if a.result != before {
		t.Error("failed reload replaced the snapshot")
	}
	if a.reloadErr != "boom" {
		t.Errorf("reloadErr = %q, want boom", a.reloadErr)
	}
	if a.loadErr != nil {
		t.Errorf("failed reload should not become a load error: %v", a.loadErr)
	}
}

func TestInitialLoadFailure(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	a := NewApp(Options{Source: stubSource{err: source.ErrLoadFailure}})
	a.needSetup = false
	a.width, a.height = 100, 30

	m, _ := a.Update(DataLoadedMsg{Err: source.ErrLoadFailure})
	a = m.(App)
	if !strings.Contains(a.View(), "Could not load data") {
		t.Error("load error view not shown")
	}
}

func TestViewsRender(t *testing.T) {
	a := loadedApp(t)
	for _, k := range []string{"d", "f", "s", "?"} {
		a = press(t, a, k)
		if v := a.View(); v == "" {
			t.Errorf("empty view after %q", k)
		}
	}
}

func TestNarrowTerminal(t *testing.T) {
	a := loadedApp(t)
	a.width = 60
	if !strings.Contains(a.View(), "too narrow") {
		t.Error("narrow terminal message not shown")
	}
}

func TestSetupValuesApply(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	v := &SetupValues{Source: " https://example.com/data.csv ", Seed: "42", Period: "nextCourse", Theme: "terminal"}
	a := App{setupVals: v}
	t.Cleanup(func() { theme.Active = theme.FlexokiDark })
	if err := a.saveSetupConfig(); err != nil {
		t.Fatal(err)
	}

	if theme.Active.Name != "terminal" {
		t.Errorf("theme not applied: %s", theme.Active.Name)
	}

	if err := validateSeed("-1"); err == nil {
		t.Error("negative seed should be rejected")
	}
	if err := validateSeed(""); err != nil {
		t.Errorf("blank seed should be accepted: %v", err)
	}
}
