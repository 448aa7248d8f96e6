package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/cbudget/internal/analytics"
	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/ledger"
	"github.com/theirongolddev/cbudget/internal/model"
)

var (
	flagExpenseCategory string
	flagExpenseDate     string
	flagExpenseNotes    string
)

var expenseCmd = &cobra.Command{
	Use:     "expense",
	Aliases: []string{"expenses", "e"},
	Short:   "Log and list expenses",
	RunE:    runExpenseList,
}

var expenseAddCmd = &cobra.Command{
	Use:   "add <description> <amount>",
	Short: "Log an expense against a category",
	Args:  cobra.ExactArgs(2),
	RunE:  runExpenseAdd,
}

var expenseListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the most recent expenses",
	RunE:  runExpenseList,
}

var expenseQuickCmd = &cobra.Command{
	Use:   "quick [preset]",
	Short: "Log a preset expense, or list the presets",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExpenseQuick,
}

func init() {
	expenseAddCmd.Flags().StringVarP(&flagExpenseCategory, "category", "c", "Other", "Budget category")
	expenseAddCmd.Flags().StringVar(&flagExpenseDate, "date", "", "Expense date YYYY-MM-DD (default today)")
	expenseAddCmd.Flags().StringVar(&flagExpenseNotes, "notes", "", "Optional notes")

	expenseCmd.AddCommand(expenseAddCmd, expenseListCmd, expenseQuickCmd)
	rootCmd.AddCommand(expenseCmd)
}

func runExpenseAdd(cmd *cobra.Command, args []string) error {
	amount, err := parseAmount("amount", args[1])
	if err != nil {
		return err
	}
	date, err := parseDateFlag(flagExpenseDate)
	if err != nil {
		return err
	}

	return addExpense(cmd, ledger.ExpenseInput{
		Description: args[0],
		Amount:      amount,
		Category:    flagExpenseCategory,
		Date:        date,
		Notes:       flagExpenseNotes,
	})
}

func runExpenseQuick(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		rows := make([][]string, 0, len(ledger.QuickExpenses))
		for _, q := range ledger.QuickExpenses {
			rows = append(rows, []string{q.Name, q.Category, cli.FormatMoney(q.Amount, currency())})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Quick expenses",
			Headers: []string{"Preset", "Category", "Amount"},
			Rows:    rows,
		}))
		return nil
	}

	for _, q := range ledger.QuickExpenses {
		if strings.EqualFold(q.Name, args[0]) {
			return addExpense(cmd, q.Input())
		}
	}
	return fmt.Errorf("unknown preset %q (run `cbudget expense quick` to list them)", args[0])
}

func addExpense(cmd *cobra.Command, in ledger.ExpenseInput) error {
	l, closeStore, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	e, err := l.AddExpense(cmd.Context(), in)
	if err != nil {
		return err
	}

	cat := l.Snapshot().Categories[e.Category]
	fmt.Printf("  Logged %s %s on %s (%s)\n",
		cli.FormatMoney(e.Amount, currency()), e.Description, e.Date, e.Category)
	fmt.Printf("  %s: %s of %s spent\n",
		e.Category, cli.FormatMoney(cat.Spent, currency()), cli.FormatMoney(cat.Limit, currency()))
	return nil
}

func runExpenseList(cmd *cobra.Command, _ []string) error {
	l, closeStore, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	snap := l.Snapshot()
	if len(snap.RecentExpenses) == 0 {
		fmt.Println("\n  No expenses logged yet.")
		fmt.Println("  Add one with: cbudget expense add \"Lunch\" 12.50 -c \"Food & Dining\"")
		return nil
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(expenseTable(snap.RecentExpenses)))
	fmt.Print(cli.RenderTable(expenseCategoryTable(snap.RecentExpenses)))
	return nil
}

func expenseCategoryTable(expenses []model.Expense) cli.Table {
	totals := analytics.ExpenseTotalsByCategory(expenses)
	var sum decimal.Decimal
	rows := make([][]string, 0, len(totals)+2)
	for _, cs := range totals {
		sum = sum.Add(cs.Amount)
		rows = append(rows, []string{cs.Name, cli.FormatMoney(cs.Amount, currency())})
	}
	rows = append(rows, []string{"---"}, []string{"Total", cli.FormatMoney(sum, currency())})
	return cli.Table{
		Title:   "By category",
		Headers: []string{"Category", "Spent"},
		Rows:    rows,
	}
}

func expenseTable(expenses []model.Expense) cli.Table {
	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []string{
			e.Date.String(),
			e.Description,
			e.Category,
			cli.FormatMoney(e.Amount, currency()),
		})
	}
	return cli.Table{
		Title:   fmt.Sprintf("Recent expenses (last %d)", model.MaxRecentExpenses),
		Headers: []string{"Date", "Description", "Category", "Amount"},
		Rows:    rows,
	}
}
