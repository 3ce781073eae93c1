// Package tui provides the interactive Bubble Tea dashboard for estalvi.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/estalvi/internal/cli"
	"github.com/theirongolddev/estalvi/internal/config"
	"github.com/theirongolddev/estalvi/internal/forecast"
	"github.com/theirongolddev/estalvi/internal/model"
	"github.com/theirongolddev/estalvi/internal/pipeline"
	"github.com/theirongolddev/estalvi/internal/rng"
	"github.com/theirongolddev/estalvi/internal/source"
	"github.com/theirongolddev/estalvi/internal/tui/components"
	"github.com/theirongolddev/estalvi/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when a load or reload finishes.
type DataLoadedMsg struct {
	Result *pipeline.LoadResult
	Err    error
	Reload bool
}

// ProgressMsg reports bucket build progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// Options configures the dashboard.
type Options struct {
	Source          source.Source
	Rand            rng.Source
	Period          forecast.Period
	AutoRefresh     bool
	RefreshInterval time.Duration
}

const (
	tabDashboard = iota
	tabForecast
	tabSavings
)

// periodCycle is the order 'p' steps through.
var periodCycle = []forecast.PeriodKind{forecast.NextYear, forecast.NextCourse, forecast.Custom}

// App is the root Bubble Tea model.
type App struct {
	opts       Options
	forecaster *forecast.Forecaster

	// Data. result is replaced wholesale on each successful load.
	result      *pipeline.LoadResult
	loaded      bool
	loadErr     error
	reloadErr   string
	reloading   bool
	lastRefresh time.Time

	summaries   []model.BucketSummary
	predictions []model.PredictionResult
	savings     []model.SavingsEstimate

	// Forecast period state
	period      forecast.Period
	periodErr   string
	editing     bool
	startInput  textinput.Model
	endInput    textinput.Model
	focusedDate int

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	// Loading: channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	if opts.Rand == nil {
		opts.Rand = rng.System()
	}
	if opts.RefreshInterval < 10*time.Second {
		opts.RefreshInterval = time.Minute
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	newDateInput := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 25
		ti.Width = 12
		return ti
	}

	a := App{
		opts:       opts,
		forecaster: forecast.New(opts.Rand),
		period:     opts.Period,
		startInput: newDateInput("2025-09-01"),
		endInput:   newDateInput("2026-06-30"),
		spinner:    sp,
		loadSub:    make(chan tea.Msg, 1),
	}
	if opts.Period.Kind == forecast.Custom {
		a.startInput.SetValue(opts.Period.Start.Format("2006-01-02"))
		a.endInput.SetValue(opts.Period.End.Format("2006-01-02"))
	}

	if !config.Exists() {
		cfg, _ := config.Load()
		a.needSetup = true
		a.setupVals = NewSetupValues(cfg)
		a.setupForm = NewSetupForm(a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		loadDataCmd(a.opts, a.loadSub),
		a.spinner.Tick,
		tickCmd(),
	}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

// recompute refreshes every derived view from the current snapshot.
// Forecasts and savings draw fresh randomness on each call.
func (a *App) recompute() {
	if a.result == nil {
		return
	}
	snap := a.result.Snapshot
	a.summaries = pipeline.Summarize(snap)
	a.savings = forecast.EstimateAllSavings(a.opts.Rand, snap)
	a.recomputeForecast()
}

func (a *App) recomputeForecast() {
	if a.result == nil {
		return
	}
	preds, err := a.forecaster.PredictAll(a.result.Snapshot, a.period)
	if err != nil {
		a.periodErr = err.Error()
		return
	}
	a.periodErr = ""
	a.predictions = preds
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case tea.MouseMsg:
		if a.needSetup || !a.loaded || a.editing {
			return a, nil
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == 0 {
			if idx := a.tabAtX(msg.X); idx >= 0 {
				a.activeTab = idx
				a.showHelp = false
			}
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case DataLoadedMsg:
		a.reloading = false
		a.lastRefresh = time.Now()
		if msg.Err != nil {
			if msg.Reload && a.result != nil {
				// Keep showing the previous snapshot.
				a.reloadErr = msg.Err.Error()
				return a, nil
			}
			a.loadErr = msg.Err
			a.loaded = true
			return a, nil
		}
		a.loaded = true
		a.loadErr = nil
		a.reloadErr = ""
		a.result = msg.Result
		a.recompute()
		return a, nil

	case spinner.TickMsg:
		if !a.loaded || a.reloading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.opts.AutoRefresh && !a.reloading &&
			time.Since(a.lastRefresh) >= a.opts.RefreshInterval {
			a.reloading = true
			cmds = append(cmds, reloadDataCmd(a.opts), a.spinner.Tick)
		}
		return a, tea.Batch(cmds...)
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.editing {
		return a.updateDateInputs(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// First-run setup intercepts all keys.
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if !a.loaded {
		if key == "q" {
			return a, tea.Quit
		}
		return a, nil
	}

	if a.editing {
		return a.updateDateEditing(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if a.reloading {
			return a, nil
		}
		a.reloading = true
		return a, tea.Batch(reloadDataCmd(a.opts), a.spinner.Tick)
	case "p":
		a.cyclePeriod()
		return a, nil
	case "e", "enter":
		if a.activeTab == tabForecast && a.period.Kind == forecast.Custom {
			return a.startEditing()
		}
		return a, nil
	case "n":
		// Fresh draws for the visible estimates.
		a.recompute()
		return a, nil
	case "left", "h":
		a.activeTab = (a.activeTab + len(components.Tabs) - 1) % len(components.Tabs)
		return a, nil
	case "right", "l", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

// cyclePeriod steps to the next period. Custom keeps the last valid range
// and opens the date editor when none exists yet.
func (a *App) cyclePeriod() {
	next := periodCycle[0]
	for i, k := range periodCycle {
		if k == a.period.Kind {
			next = periodCycle[(i+1)%len(periodCycle)]
			break
		}
	}

	if next == forecast.Custom {
		p, err := forecast.CustomPeriod(a.startInput.Value(), a.endInput.Value())
		if err != nil {
			a.period = forecast.Period{Kind: forecast.Custom}
			a.predictions = nil
			a.periodErr = "press e to enter a date range"
			a.activeTab = tabForecast
			return
		}
		a.period = p
	} else {
		a.period = forecast.Period{Kind: next}
	}
	a.recomputeForecast()
}

func (a App) startEditing() (tea.Model, tea.Cmd) {
	a.editing = true
	a.focusedDate = 0
	a.endInput.Blur()
	return a, a.startInput.Focus()
}

func (a App) updateDateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.editing = false
		a.startInput.Blur()
		a.endInput.Blur()
		return a, nil
	case "tab", "shift+tab":
		a.focusedDate = 1 - a.focusedDate
		if a.focusedDate == 0 {
			a.endInput.Blur()
			return a, a.startInput.Focus()
		}
		a.startInput.Blur()
		return a, a.endInput.Focus()
	case "enter":
		p, err := forecast.CustomPeriod(a.startInput.Value(), a.endInput.Value())
		if err != nil {
			// Keep the editor open and the previous forecast on screen.
			a.periodErr = err.Error()
			return a, nil
		}
		a.editing = false
		a.startInput.Blur()
		a.endInput.Blur()
		a.period = p
		a.recomputeForecast()
		return a, nil
	}
	return a.updateDateInputs(msg)
}

func (a App) updateDateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if a.focusedDate == 0 {
		a.startInput, cmd = a.startInput.Update(msg)
	} else {
		a.endInput, cmd = a.endInput.Update(msg)
	}
	return a, cmd
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		if err := a.saveSetupConfig(); err != nil {
			a.reloadErr = "saving config: " + err.Error()
		}
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  estalvi needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.loadErr != nil {
		return a.viewLoadError()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ estalvi"))
	b.WriteString(subtitleStyle.Render(" · Consum i previsions"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	if a.progressMax > 0 {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf(" Building buckets %d/%d", a.progress, a.progressMax)))
	} else {
		b.WriteString(subtitleStyle.Render(" Loading " + a.opts.Source.Name()))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoadError() string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Error).
		Background(t.Surface).
		Padding(1, 3).
		Width(min(a.width-4, 80))
	errStyle := lipgloss.NewStyle().Foreground(t.Error).Background(t.Surface).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := errStyle.Render("Could not load data") + "\n\n" +
		hintStyle.Render(a.loadErr.Error()) + "\n\n" +
		hintStyle.Render("[r] retry  [q] quit")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	keys := []struct{ key, desc string }{
		{"d / f / s", "Dashboard, Forecast, Savings"},
		{"← →", "previous / next tab"},
		{"p", "cycle forecast period"},
		{"e", "edit custom date range"},
		{"n", "draw new forecast and savings values"},
		{"r", "reload data"},
		{"?", "toggle help"},
		{"q", "quit"},
	}
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(keyStyle.Render(fmt.Sprintf("%-10s", k.key)))
		b.WriteString(descStyle.Render(k.desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(descStyle.Render("~ marks values built from synthetic fallback data"))

	card := components.ContentCard("Keys", b.String(), 60)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)

	info := ""
	if a.result != nil {
		info = fmt.Sprintf("%s · %d rows · %s", a.result.Snapshot.SourceName, a.result.Rows,
			cli.FormatLoadTime(a.result.LoadTime))
	}
	statusBar := components.RenderStatusBar(w, info, a.reloadErr, a.reloading)

	contentH := a.height - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabDashboard:
		content = a.renderDashboardTab(cw)
	case tabForecast:
		content = a.renderForecastTab(cw)
	case tabSavings:
		content = a.renderSavingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// ─── Helpers ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadDataCmd starts the initial load in a background goroutine.
// It streams ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(opts Options, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}
			res, err := pipeline.Load(context.Background(), opts.Source, pipeline.Options{
				Rand:     opts.Rand,
				Progress: progressFn,
			})
			sub <- DataLoadedMsg{Result: res, Err: err}
		}()

		// Block until the first message (either ProgressMsg or DataLoadedMsg)
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// reloadDataCmd reloads in the background without progress UI.
func reloadDataCmd(opts Options) tea.Cmd {
	return func() tea.Msg {
		res, err := pipeline.Load(context.Background(), opts.Source, pipeline.Options{Rand: opts.Rand})
		return DataLoadedMsg{Result: res, Err: err, Reload: true}
	}
}

// tabAtX maps a click column on the tab bar to a tab index, or -1.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1 // separator
	}
	return -1
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
