package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"

	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/ledger"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/store"
)

func TestOpenLedger_UnavailableStoreFallsBack(t *testing.T) {
	prevCfg, prevLogger, prevQuiet := appCfg, logger, flagQuiet
	t.Cleanup(func() { appCfg, logger, flagQuiet = prevCfg, prevLogger, prevQuiet })

	// A regular file where the store directory should be makes mkdir fail.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	appCfg = config.DefaultConfig()
	appCfg.Store.Backend = store.BackendSQLite
	appCfg.Store.Path = filepath.Join(blocker, "budget.db")
	logger = zaptest.NewLogger(t)
	flagQuiet = true

	l, closeStore, err := openLedger(context.Background())
	if err != nil {
		t.Fatalf("openLedger err = %v, want fallback to defaults", err)
	}
	defer closeStore()

	if !l.Recovered() {
		t.Fatal("Recovered() = false for a store that could not be opened")
	}
	if got, want := l.Snapshot().TotalBudget, model.DefaultSnapshot().TotalBudget; !got.Equal(want) {
		t.Fatalf("TotalBudget = %s, want default %s", got, want)
	}

	_, err = l.AddExpense(context.Background(), ledger.ExpenseInput{
		Description: "Coffee", Amount: decimal.NewFromInt(3), Category: "Other",
		Date: model.DateOf(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)),
	})
	if !errors.Is(err, ledger.ErrPersist) {
		t.Fatalf("AddExpense err = %v, want ErrPersist", err)
	}
	if got := l.Snapshot().RecentExpenses[0].Description; got != "Coffee" {
		t.Fatalf("newest expense = %q, want Coffee kept in memory", got)
	}
}
