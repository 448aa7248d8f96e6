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
	flagGoalCurrent     string
	flagGoalDeadline    string
	flagGoalCategory    string
	flagGoalDescription string
	flagGoalName        string
	flagGoalTarget      string
)

var goalCmd = &cobra.Command{
	Use:     "goal",
	Aliases: []string{"goals", "g"},
	Short:   "Manage savings goals",
	RunE:    runGoalList,
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals with progress and monthly pace",
	RunE:  runGoalList,
}

var goalAddCmd = &cobra.Command{
	Use:   "add <name> <target>",
	Short: "Create a savings goal",
	Args:  cobra.ExactArgs(2),
	RunE:  runGoalAdd,
}

var goalEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a goal; unset flags keep their current value",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalEdit,
}

var goalDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a goal",
	Args:    cobra.ExactArgs(1),
	RunE:    runGoalDelete,
}

var goalFundCmd = &cobra.Command{
	Use:   "fund <id> <amount>",
	Short: "Add money to a goal, capped at its target",
	Args:  cobra.ExactArgs(2),
	RunE:  runGoalFund,
}

var goalTemplatesCmd = &cobra.Command{
	Use:   "templates [name]",
	Short: "List goal templates, or create a goal from one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGoalTemplates,
}

func init() {
	goalAddCmd.Flags().StringVar(&flagGoalDeadline, "deadline", "", "Deadline YYYY-MM-DD (required)")
	goalAddCmd.Flags().StringVar(&flagGoalCurrent, "current", "", "Amount already saved")
	goalAddCmd.Flags().StringVar(&flagGoalCategory, "category", "", "Goal category (default savings)")
	goalAddCmd.Flags().StringVar(&flagGoalDescription, "description", "", "Optional description")
	_ = goalAddCmd.MarkFlagRequired("deadline")

	goalEditCmd.Flags().StringVar(&flagGoalName, "name", "", "New name")
	goalEditCmd.Flags().StringVar(&flagGoalTarget, "target", "", "New target amount")
	goalEditCmd.Flags().StringVar(&flagGoalCurrent, "current", "", "New saved amount")
	goalEditCmd.Flags().StringVar(&flagGoalDeadline, "deadline", "", "New deadline YYYY-MM-DD")
	goalEditCmd.Flags().StringVar(&flagGoalCategory, "category", "", "New category")
	goalEditCmd.Flags().StringVar(&flagGoalDescription, "description", "", "New description")

	goalCmd.AddCommand(goalListCmd, goalAddCmd, goalEditCmd, goalDeleteCmd, goalFundCmd, goalTemplatesCmd)
	rootCmd.AddCommand(goalCmd)
}

func runGoalList(cmd *cobra.Command, _ []string) error {
	l, closeStore, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	goals := analytics.AnalyzeGoals(l.Snapshot().Goals, l.Now())
	if len(goals) == 0 {
		fmt.Println("\n  No goals yet.")
		fmt.Println("  Start from a template with: cbudget goal templates")
		return nil
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(goalTable(goals, currency())))
	return nil
}

func runGoalAdd(cmd *cobra.Command, args []string) error {
	target, err := parseAmount("target", args[1])
	if err != nil {
		return err
	}
	current := decimal.Zero
	if flagGoalCurrent != "" {
		if current, err = parseAmount("current", flagGoalCurrent); err != nil {
			return err
		}
	}
	deadline, err := parseDateFlag(flagGoalDeadline)
	if err != nil {
		return err
	}

	return createGoal(cmd, ledger.GoalInput{
		Name:        args[0],
		Target:      target,
		Current:     current,
		Deadline:    deadline,
		Description: flagGoalDescription,
		Category:    model.GoalCategory(strings.ToLower(flagGoalCategory)),
	})
}

func createGoal(cmd *cobra.Command, in ledger.GoalInput) error {
	return withLedger(cmd, func(l *ledger.Ledger) error {
		g, err := l.AddGoal(cmd.Context(), in)
		if err != nil {
			return err
		}
		ga := analytics.AnalyzeGoal(g, l.Now())
		fmt.Printf("  Created goal %q (id %s)\n", g.Name, g.ID)
		fmt.Printf("  Save %s/month to reach %s by %s\n",
			cli.FormatMoney(ga.MonthlyTarget, currency()), cli.FormatMoney(g.Target, currency()), g.Deadline)
		return nil
	})
}

func runGoalEdit(cmd *cobra.Command, args []string) error {
	return withLedger(cmd, func(l *ledger.Ledger) error {
		snap := l.Snapshot()
		i := snap.GoalIndex(args[0])
		if i < 0 {
			return fmt.Errorf("%w: %s", ledger.ErrGoalNotFound, args[0])
		}
		g := snap.Goals[i]

		in := ledger.GoalInput{
			Name:        g.Name,
			Target:      g.Target,
			Current:     g.Current,
			Deadline:    g.Deadline,
			Description: g.Description,
			Category:    g.Category,
		}
		flags := cmd.Flags()
		if flags.Changed("name") {
			in.Name = flagGoalName
		}
		if flags.Changed("description") {
			in.Description = flagGoalDescription
		}
		if flags.Changed("category") {
			in.Category = model.GoalCategory(strings.ToLower(flagGoalCategory))
		}
		var err error
		if flags.Changed("target") {
			if in.Target, err = parseAmount("target", flagGoalTarget); err != nil {
				return err
			}
		}
		if flags.Changed("current") {
			if in.Current, err = parseAmount("current", flagGoalCurrent); err != nil {
				return err
			}
		}
		if flags.Changed("deadline") {
			if in.Deadline, err = parseDateFlag(flagGoalDeadline); err != nil {
				return err
			}
		}

		updated, err := l.UpdateGoal(cmd.Context(), g.ID, in)
		if err != nil {
			return err
		}
		fmt.Printf("  Updated goal %q\n", updated.Name)
		return nil
	})
}

func runGoalDelete(cmd *cobra.Command, args []string) error {
	return withLedger(cmd, func(l *ledger.Ledger) error {
		if err := l.DeleteGoal(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("  Deleted goal %s\n", args[0])
		return nil
	})
}

func runGoalFund(cmd *cobra.Command, args []string) error {
	amount, err := parseAmount("amount", args[1])
	if err != nil {
		return err
	}
	return withLedger(cmd, func(l *ledger.Ledger) error {
		g, err := l.QuickAdd(cmd.Context(), args[0], amount)
		if err != nil {
			return err
		}
		ga := analytics.AnalyzeGoal(g, l.Now())
		fmt.Printf("  %s: %s of %s  %s\n", g.Name,
			cli.FormatMoney(g.Current, currency()), cli.FormatMoney(g.Target, currency()),
			cli.RenderProgressBar(ga.ProgressPercent, 20))
		if !g.Active() {
			fmt.Println("  Goal reached!")
		}
		return nil
	})
}

func runGoalTemplates(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		rows := make([][]string, 0, len(ledger.GoalTemplates))
		for _, t := range ledger.GoalTemplates {
			rows = append(rows, []string{t.Name, t.Category.Label(), cli.FormatMoney(t.Target, currency())})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Goal templates (90 day deadline)",
			Headers: []string{"Template", "Category", "Target"},
			Rows:    rows,
		}))
		return nil
	}

	for _, t := range ledger.GoalTemplates {
		if strings.EqualFold(t.Name, args[0]) {
			return createGoal(cmd, t.Input(nowFn()))
		}
	}
	return fmt.Errorf("unknown template %q", args[0])
}
