package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cbudget/internal/analytics"
	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/ledger"
)

var (
	flagBudgetApply bool
	flagBudgetPrune bool
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Show and edit the monthly budget",
	RunE:  runBudgetShow,
}

var budgetShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the budget and category limits",
	RunE:  runBudgetShow,
}

var budgetSetCmd = &cobra.Command{
	Use:   "set <total>",
	Short: "Set the total monthly budget",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetSet,
}

var budgetLimitCmd = &cobra.Command{
	Use:   "limit <category> <amount>",
	Short: "Set one category's limit",
	Args:  cobra.ExactArgs(2),
	RunE:  runBudgetLimit,
}

var budgetAddCategoryCmd = &cobra.Command{
	Use:   "add-category <name> <limit>",
	Short: "Add a new budget category",
	Args:  cobra.ExactArgs(2),
	RunE:  runBudgetAddCategory,
}

var budgetRemoveCategoryCmd = &cobra.Command{
	Use:   "remove-category <name>",
	Short: "Remove a budget category and its spend",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetRemoveCategory,
}

var budgetSuggestCmd = &cobra.Command{
	Use:   "suggest <monthly-income>",
	Short: "Suggest category limits for an income",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetSuggest,
}

func init() {
	budgetSuggestCmd.Flags().BoolVar(&flagBudgetApply, "apply", false, "Apply the suggestion as the new budget")
	budgetSuggestCmd.Flags().BoolVar(&flagBudgetPrune, "prune", false, "With --apply, drop categories not in the suggestion")

	budgetCmd.AddCommand(budgetShowCmd, budgetSetCmd, budgetLimitCmd,
		budgetAddCategoryCmd, budgetRemoveCategoryCmd, budgetSuggestCmd)
	rootCmd.AddCommand(budgetCmd)
}

func runBudgetShow(cmd *cobra.Command, _ []string) error {
	l, closeStore, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	snap := l.Snapshot()
	cur := currency()
	allocated := snap.SumCategoryLimits()

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Budget", "Amount"},
		Rows: [][]string{
			{"Total", cli.FormatMoney(snap.TotalBudget, cur)},
			{"Allocated", cli.FormatMoney(allocated, cur)},
			{"Unallocated", cli.FormatMoney(snap.TotalBudget.Sub(allocated), cur)},
		},
	}))
	fmt.Println()
	fmt.Print(cli.RenderTable(categoryTable(analytics.AnalyzeCategories(snap), cur)))
	return nil
}

func runBudgetSet(cmd *cobra.Command, args []string) error {
	total, err := parseAmount("total", args[0])
	if err != nil {
		return err
	}
	return withLedger(cmd, func(l *ledger.Ledger) error {
		if err := l.SetTotalBudget(cmd.Context(), total); err != nil {
			return err
		}
		fmt.Printf("  Total budget set to %s\n", cli.FormatMoney(total, currency()))
		return nil
	})
}

func runBudgetLimit(cmd *cobra.Command, args []string) error {
	limit, err := parseAmount("limit", args[1])
	if err != nil {
		return err
	}
	return withLedger(cmd, func(l *ledger.Ledger) error {
		if err := l.SetCategoryLimit(cmd.Context(), args[0], limit); err != nil {
			return err
		}
		fmt.Printf("  %s limit set to %s\n", args[0], cli.FormatMoney(limit, currency()))
		return nil
	})
}

func runBudgetAddCategory(cmd *cobra.Command, args []string) error {
	limit, err := parseAmount("limit", args[1])
	if err != nil {
		return err
	}
	return withLedger(cmd, func(l *ledger.Ledger) error {
		if err := l.AddCategory(cmd.Context(), args[0], limit); err != nil {
			return err
		}
		fmt.Printf("  Added %s with a %s limit\n", args[0], cli.FormatMoney(limit, currency()))
		return nil
	})
}

func runBudgetRemoveCategory(cmd *cobra.Command, args []string) error {
	return withLedger(cmd, func(l *ledger.Ledger) error {
		if err := l.RemoveCategory(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("  Removed %s\n", args[0])
		return nil
	})
}

func runBudgetSuggest(cmd *cobra.Command, args []string) error {
	income, err := parseAmount("income", args[0])
	if err != nil {
		return err
	}
	limits := ledger.SuggestAllocation(income)

	names := make([]string, 0, len(limits))
	for name := range limits {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if c := limits[names[i]].Cmp(limits[names[j]]); c != 0 {
			return c > 0
		}
		return names[i] < names[j]
	})

	cur := currency()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, cli.FormatMoney(limits[name], cur)})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Suggested allocation for " + cli.FormatMoney(income, cur),
		Headers: []string{"Category", "Limit"},
		Rows:    rows,
	}))

	if !flagBudgetApply {
		fmt.Println("  Re-run with --apply to use it.")
		return nil
	}
	return withLedger(cmd, func(l *ledger.Ledger) error {
		err := l.UpdateBudget(cmd.Context(), ledger.BudgetInput{
			Total:  income,
			Limits: limits,
			Prune:  flagBudgetPrune,
		})
		if err != nil {
			return err
		}
		fmt.Println("  Budget updated.")
		return nil
	})
}

// withLedger opens the ledger, runs fn and closes the store.
func withLedger(cmd *cobra.Command, fn func(*ledger.Ledger) error) error {
	l, closeStore, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(l)
}
