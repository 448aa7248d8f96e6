package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"

	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/ledger"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/store"
	"github.com/theirongolddev/cbudget/internal/tui/components"
)

var testNow = time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)

func init() {
	// Plain output so views can be searched for text.
	lipgloss.SetColorProfile(termenv.Ascii)
}

func newTestApp(t *testing.T) App {
	t.Helper()
	l := ledger.Open(context.Background(),
		store.Snapshots{KV: store.NewMemory(), Key: "studentBudgetData"},
		ledger.Options{
			Logger: zaptest.NewLogger(t),
			Now:    func() time.Time { return testNow },
		})
	a := NewApp(Options{Ledger: l, Config: config.DefaultConfig()})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m.(App)
}

func press(t *testing.T, a App, key string) (App, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

// run executes cmd and feeds its message back into the app.
func run(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	m, _ := a.Update(cmd())
	return m.(App)
}

func TestTabAtXMatchesTabBar(t *testing.T) {
	a := newTestApp(t)
	for active := range components.Tabs {
		a.activeTab = active
		pos := 0
		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			if got := a.tabAtX(pos); got != i {
				t.Fatalf("active %d: tabAtX(%d) = %d, want %d", active, pos, got, i)
			}
			if got := a.tabAtX(pos + w - 1); got != i {
				t.Fatalf("active %d: tabAtX(%d) = %d, want %d", active, pos+w-1, got, i)
			}
			pos += w + 1
		}
		if got := a.tabAtX(pos + 50); got != -1 {
			t.Fatalf("tabAtX past the bar = %d, want -1", got)
		}
	}
}

func TestKeysSwitchTabs(t *testing.T) {
	a := newTestApp(t)

	a, _ = press(t, a, "g")
	if a.activeTab != tabGoals {
		t.Fatalf("after g activeTab = %d, want %d", a.activeTab, tabGoals)
	}
	a, _ = press(t, a, "right")
	if a.activeTab != tabExpenses {
		t.Fatalf("after right activeTab = %d, want %d", a.activeTab, tabExpenses)
	}
	a, _ = press(t, a, "left")
	a, _ = press(t, a, "left")
	a, _ = press(t, a, "left")
	if a.activeTab != tabOverview {
		t.Fatalf("after 3x left activeTab = %d, want %d", a.activeTab, tabOverview)
	}
	a, _ = press(t, a, "left")
	if a.activeTab != tabInsights {
		t.Fatalf("left from first tab = %d, want wrap to %d", a.activeTab, tabInsights)
	}
}

func TestCursorBoundedByRows(t *testing.T) {
	a := newTestApp(t)
	a, _ = press(t, a, "g")
	for range 5 {
		a, _ = press(t, a, "down")
	}
	if want := len(a.report.Goals) - 1; a.cursor != want {
		t.Fatalf("cursor = %d, want %d", a.cursor, want)
	}
	a, _ = press(t, a, "o")
	if a.cursor != 0 {
		t.Fatalf("cursor after tab switch = %d, want 0", a.cursor)
	}
}

func TestQuickFundGoal(t *testing.T) {
	a := newTestApp(t)
	a, _ = press(t, a, "g")
	a, cmd := press(t, a, "1")
	a = run(t, a, cmd)

	g := a.snap.Goals[a.snap.GoalIndex("1")]
	want := decimal.NewFromInt(12450).Add(ledger.QuickAddAmounts[0])
	if !g.Current.Equal(want) {
		t.Fatalf("goal current = %s, want %s", g.Current, want)
	}
	if a.flashIsErr || !strings.Contains(a.flash, g.Name) {
		t.Fatalf("flash = %q (err=%v), want success mentioning %q", a.flash, a.flashIsErr, g.Name)
	}
}

func TestQuickExpenseOnExpensesTab(t *testing.T) {
	a := newTestApp(t)
	before := a.snap.TotalSpent

	a, _ = press(t, a, "e")
	a, cmd := press(t, a, "1")
	a = run(t, a, cmd)

	coffee := ledger.QuickExpenses[0]
	if got, want := a.snap.TotalSpent, before.Add(coffee.Amount); !got.Equal(want) {
		t.Fatalf("TotalSpent = %s, want %s", got, want)
	}
	if got := a.snap.RecentExpenses[0].Description; got != coffee.Name {
		t.Fatalf("newest expense = %q, want %q", got, coffee.Name)
	}
	if out := a.renderExpensesTab(96); !strings.Contains(out, "Spending by category") {
		t.Fatal("expenses tab has no category chart after logging an expense")
	}
}

func TestMutatedErrorFlashes(t *testing.T) {
	a := newTestApp(t)
	m, _ := a.Update(mutatedMsg{err: ledger.ErrGoalNotFound})
	a = m.(App)
	if !a.flashIsErr || a.flash != ledger.ErrGoalNotFound.Error() {
		t.Fatalf("flash = %q (err=%v), want error flash", a.flash, a.flashIsErr)
	}
}

func TestDeleteGoal(t *testing.T) {
	a := newTestApp(t)
	a, _ = press(t, a, "g")
	a, _ = press(t, a, "down")
	a, cmd := press(t, a, "D")
	a = run(t, a, cmd)

	if len(a.snap.Goals) != 1 {
		t.Fatalf("goals = %d, want 1", len(a.snap.Goals))
	}
	if a.cursor != 0 {
		t.Fatalf("cursor = %d, want clamped to 0", a.cursor)
	}
}

func TestExpenseInput(t *testing.T) {
	usd := config.LookupCurrency("USD")
	v := &formValues{Description: "Pizza", Amount: "$1,234.50", Category: "Food & Dining", Date: "2024-01-18"}

	in, err := v.expenseInput(usd)
	if err != nil {
		t.Fatalf("expenseInput: %v", err)
	}
	if !in.Amount.Equal(decimal.RequireFromString("1234.5")) {
		t.Fatalf("Amount = %s, want 1234.5", in.Amount)
	}
	if !in.Date.Equal(model.NewDate(2024, 1, 18)) {
		t.Fatalf("Date = %s, want 2024-01-18", in.Date)
	}

	v.Date = ""
	if in, err = v.expenseInput(usd); err != nil || !in.Date.IsZero() {
		t.Fatalf("blank date = %v, %v; want zero date", in.Date, err)
	}

	v.Date = "18/01/2024"
	if _, err := v.expenseInput(usd); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestGoalInput(t *testing.T) {
	usd := config.LookupCurrency("USD")
	v := &formValues{Name: "Laptop", Target: "900", Deadline: "2024-09-01", GoalCategory: string(model.GoalPurchase)}

	in, err := v.goalInput(usd)
	if err != nil {
		t.Fatalf("goalInput: %v", err)
	}
	if !in.Current.IsZero() {
		t.Fatalf("Current = %s, want 0 when left blank", in.Current)
	}
	if in.Category != model.GoalPurchase {
		t.Fatalf("Category = %q, want %q", in.Category, model.GoalPurchase)
	}

	v.Target = "lots"
	if _, err := v.goalInput(usd); err == nil {
		t.Fatal("expected error for non-numeric target")
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a := newTestApp(t)
	for i, tab := range components.Tabs {
		a.switchTab(i)
		out := a.View()
		if out == "" {
			t.Fatalf("%s tab rendered empty", tab.Name)
		}
		if !strings.Contains(out, tab.Name) {
			t.Fatalf("%s tab view does not contain its tab label", tab.Name)
		}
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := newTestApp(t)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if out := m.(App).View(); !strings.Contains(out, "too narrow") {
		t.Fatalf("View at 60 cols = %q, want narrow warning", out)
	}
}

func TestSetupValuesRoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	v := SetupValuesFrom(cfg)
	v.Currency = "EUR"
	v.Backend = store.BackendBolt
	v.Apply(&cfg)
	if cfg.General.Currency != "EUR" || cfg.Store.Backend != store.BackendBolt {
		t.Fatalf("Apply left currency=%q backend=%q", cfg.General.Currency, cfg.Store.Backend)
	}
}
