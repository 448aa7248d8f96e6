// Package tui provides the interactive Bubble Tea dashboard for cbudget.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cbudget/internal/analytics"
	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/export"
	"github.com/theirongolddev/cbudget/internal/ledger"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/tui/components"
	"github.com/theirongolddev/cbudget/internal/tui/theme"
)

// Tab indexes, in components.Tabs order.
const (
	tabOverview = iota
	tabCategories
	tabGoals
	tabExpenses
	tabInsights
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160
	minContentHeight = 5

	flashTTL = 4 * time.Second
)

// mutatedMsg reports the outcome of a ledger operation run in the background.
type mutatedMsg struct {
	flash string
	err   error
}

// reloadedMsg is sent after a periodic reload from the store.
type reloadedMsg struct {
	err error
}

type reloadTickMsg struct{}

// Options configures the dashboard.
type Options struct {
	Ledger *ledger.Ledger
	Config config.Config
	// RefreshInterval is how often the store is re-read for writes made by
	// other processes. Zero disables it.
	RefreshInterval time.Duration
	// NeedSetup opens the setup form on start.
	NeedSetup bool
}

// App is the root Bubble Tea model.
type App struct {
	ledger *ledger.Ledger
	cfg    config.Config
	cur    config.Currency
	opts   analytics.Options

	// Derived from the ledger on every change
	snap   model.Snapshot
	report model.Report

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	cursor    int // selected row on the Goals and Expenses tabs

	flash      string
	flashIsErr bool
	flashAt    time.Time

	// Active huh form, if any. vals is heap allocated so the form's value
	// pointers survive App copies.
	form     *huh.Form
	formKind formKind
	vals     *formValues

	refreshInterval time.Duration
}

// NewApp creates a new TUI app model.
func NewApp(o Options) App {
	a := App{
		ledger:          o.Ledger,
		cfg:             o.Config,
		refreshInterval: o.RefreshInterval,
	}
	a.applyConfig()
	a.recompute()
	if o.NeedSetup {
		a.openForm(formSetup)
	}
	return a
}

func (a *App) applyConfig() {
	a.cur = config.LookupCurrency(a.cfg.General.Currency)
	a.opts = a.cfg.AnalyticsOptions()
	theme.SetActive(a.cfg.Appearance.Theme)
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.refreshInterval > 0 {
		cmds = append(cmds, reloadTick(a.refreshInterval))
	}
	if a.form != nil {
		cmds = append(cmds, a.form.Init())
	}
	return tea.Batch(cmds...)
}

func (a *App) recompute() {
	a.snap = a.ledger.Snapshot()
	a.report = analytics.Analyze(a.snap, a.ledger.Now(), a.opts)
	a.cursor = min(a.cursor, max(a.rowCount()-1, 0))
}

// rowCount is the number of selectable rows on the active tab.
func (a App) rowCount() int {
	switch a.activeTab {
	case tabGoals:
		return len(a.report.Goals)
	case tabExpenses:
		return len(a.snap.RecentExpenses)
	default:
		return 0
	}
}

func (a *App) setFlash(msg string, isErr bool) {
	a.flash = msg
	a.flashIsErr = isErr
	a.flashAt = time.Now()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(min(msg.Width, 72)).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if a.form != nil || a.showHelp {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		return a.updateKey(msg)

	case mutatedMsg:
		a.recompute()
		if msg.err != nil {
			a.setFlash(msg.err.Error(), true)
		} else {
			a.setFlash(msg.flash, false)
		}
		return a, nil

	case reloadTickMsg:
		if a.form != nil {
			return a, reloadTick(a.refreshInterval)
		}
		return a, tea.Batch(reloadCmd(a.ledger), reloadTick(a.refreshInterval))

	case reloadedMsg:
		if msg.err != nil {
			a.setFlash("reload failed: "+msg.err.Error(), true)
			return a, nil
		}
		a.recompute()
		return a, nil
	}

	// Forward unhandled messages to the form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

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
	case "left", "shift+tab":
		a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
		return a, nil
	case "right", "tab":
		a.switchTab((a.activeTab + 1) % len(components.Tabs))
		return a, nil
	case "j", "down":
		if a.cursor < a.rowCount()-1 {
			a.cursor++
		}
		return a, nil
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	case "a":
		cmd := a.openForm(formExpense)
		return a, cmd
	case "n":
		cmd := a.openForm(formGoal)
		return a, cmd
	case "S":
		cmd := a.openForm(formSetup)
		return a, cmd
	case "x":
		return a, exportCmd(a.ledger, a.exportDir())
	case "r":
		return a, reloadCmd(a.ledger)
	}

	if a.activeTab == tabGoals && len(a.report.Goals) > 0 {
		goal := a.report.Goals[a.cursor].Goal
		switch key {
		case "f", "enter":
			cmd := a.openForm(formFund)
			return a, cmd
		case "1", "2", "3", "4":
			amount := ledger.QuickAddAmounts[int(key[0]-'1')]
			return a, fundCmd(a.ledger, goal.ID, amount, a.cur)
		case "D":
			return a, deleteGoalCmd(a.ledger, goal)
		}
	}

	if a.activeTab == tabExpenses {
		if q, ok := quickExpenseKey(key); ok {
			return a, quickExpenseCmd(a.ledger, q, a.cur)
		}
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			a.switchTab(idx)
		}
	}
	return a, nil
}

func (a *App) switchTab(idx int) {
	if idx != a.activeTab {
		a.activeTab = idx
		a.cursor = 0
	}
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.cursor > 0 {
			a.cursor--
		}
	case tea.MouseButtonWheelDown:
		if a.cursor < a.rowCount()-1 {
			a.cursor++
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.switchTab(tab)
			}
		}
	}
	return a, nil
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		a.closeForm()
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		kind, vals := a.formKind, a.vals
		a.closeForm()
		submit := a.submitForm(kind, vals)
		return a, submit
	case huh.StateAborted:
		a.closeForm()
		return a, nil
	}
	return a, cmd
}

func (a App) exportDir() string {
	if a.cfg.General.ExportDir != "" {
		return a.cfg.General.ExportDir
	}
	return "."
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  cbudget needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}

	t := theme.Active
	if a.form != nil {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.form.View(),
			lipgloss.WithWhitespaceBackground(t.Background))
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)

	flash := ""
	if a.flash != "" && time.Since(a.flashAt) < flashTTL {
		flash = a.flash
	}
	statusBar := components.RenderStatusBar(w, components.StatusInfo{
		Flash:       flash,
		FlashIsErr:  a.flashIsErr,
		Utilization: a.report.UtilizationPercent,
		Backend:     a.cfg.Store.Backend,
	})

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabCategories:
		content = a.renderCategoriesTab(cw)
	case tabGoals:
		content = a.renderGoalsTab(cw)
	case tabExpenses:
		content = a.renderExpensesTab(cw)
	case tabInsights:
		content = a.renderInsightsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"o c g e i", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Select goal or expense"},
		}},
		{"Actions", [][2]string{
			{"a", "Add expense"},
			{"n", "New goal"},
			{"f Enter", "Fund selected goal"},
			{"1-4", "Quick add " + quickAmounts(a.cur) + " (Goals)"},
			{"1-6", "Log a quick expense (Expenses)"},
			{"D", "Delete selected goal"},
			{"x", "Export backup"},
			{"r", "Reload from store"},
			{"S", "Settings"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}

// ─── Commands ───────────────────────────────────────────────────

func reloadTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

func reloadCmd(l *ledger.Ledger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return reloadedMsg{err: l.Reload(ctx)}
	}
}

func exportCmd(l *ledger.Ledger, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := export.Write(dir, l.Snapshot(), l.Now(), export.FormatJSON)
		if err != nil {
			return mutatedMsg{err: err}
		}
		return mutatedMsg{flash: "Exported " + path}
	}
}

// mutate runs op against the ledger off the UI goroutine.
func mutate(op func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		flash, err := op(ctx)
		return mutatedMsg{flash: flash, err: err}
	}
}

func fundCmd(l *ledger.Ledger, id string, amount decimal.Decimal, cur config.Currency) tea.Cmd {
	return mutate(func(ctx context.Context) (string, error) {
		g, err := l.QuickAdd(ctx, id, amount)
		if err != nil {
			return "", err
		}
		if !g.Active() {
			return fmt.Sprintf("%s reached!", g.Name), nil
		}
		return fmt.Sprintf("Added %s to %s", cli.FormatMoney(amount, cur), g.Name), nil
	})
}

func deleteGoalCmd(l *ledger.Ledger, g model.Goal) tea.Cmd {
	return mutate(func(ctx context.Context) (string, error) {
		if err := l.DeleteGoal(ctx, g.ID); err != nil {
			return "", err
		}
		return "Deleted " + g.Name, nil
	})
}

// ─── Layout helpers ─────────────────────────────────────────────

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
