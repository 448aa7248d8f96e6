package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cbudget/internal/analytics"
	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/model"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Budget dashboard with categories, goals and insights",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	l, closeStore, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	now := l.Now()
	r := analytics.Analyze(l.Snapshot(), now, appCfg.AnalyticsOptions())
	cur := currency()

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BUDGET  %s", now.Format("Jan 2006"))))
	fmt.Println()

	fmt.Print(cli.RenderTable(overviewTable(r, cur)))
	fmt.Println()
	fmt.Print(cli.RenderTable(categoryTable(r.Categories, cur)))

	if len(r.Goals) > 0 {
		fmt.Println()
		fmt.Print(cli.RenderTable(goalTable(r.Goals, cur)))
	}

	if len(r.Insights) > 0 {
		fmt.Println()
		for _, in := range r.Insights {
			fmt.Print(cli.RenderInsight(in))
		}
	}
	fmt.Println()
	return nil
}

func overviewTable(r model.Report, cur config.Currency) cli.Table {
	return cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Budget", cli.FormatMoney(r.TotalBudget, cur)},
			{"Spent", cli.FormatMoney(r.TotalSpent, cur)},
			{"Remaining", cli.FormatMoney(r.Remaining, cur)},
			{"Utilization", cli.FormatPercent(r.UtilizationPercent)},
			{"---"},
			{"Health", cli.RenderHealth(r.HealthScore, r.HealthLabel)},
			{"Savings Rate", cli.FormatPercent(r.SavingsRatePercent)},
			{"Avg Daily Spend", cli.FormatMoney(r.AvgDailySpending, cur)},
		},
	}
}

func categoryTable(cats []model.CategoryAnalysis, cur config.Currency) cli.Table {
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{
			c.Name,
			cli.FormatMoney(c.Limit, cur),
			cli.FormatMoney(c.Spent, cur),
			cli.FormatMoney(c.Remaining, cur),
			cli.RenderSpendBar(c.SpendRatioPercent, c.Status, 12),
			cli.FormatPercent(c.SpendRatioPercent),
			cli.RenderStatus(c.Status),
		})
	}
	return cli.Table{
		Title:   "Categories",
		Headers: []string{"Category", "Budget", "Spent", "Left", "", "Used", "Status"},
		Rows:    rows,
	}
}

func goalTable(goals []model.GoalAnalysis, cur config.Currency) cli.Table {
	rows := make([][]string, 0, len(goals))
	for _, g := range goals {
		pace := cli.FormatMoney(g.MonthlyTarget, cur) + "/mo"
		if g.Challenging {
			pace += " !"
		}
		rows = append(rows, []string{
			g.Goal.Name,
			g.Goal.ID,
			cli.FormatMoney(g.Goal.Current, cur) + " / " + cli.FormatMoney(g.Goal.Target, cur),
			cli.RenderProgressBar(g.ProgressPercent, 10),
			cli.FormatDaysLeft(g.DaysLeft),
			pace,
		})
	}
	return cli.Table{
		Title:   "Goals",
		Headers: []string{"Goal", "ID", "Saved", "Progress", "Deadline", "Pace"},
		Rows:    rows,
	}
}
