package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cbudget/internal/analytics"
	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/model"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Spending insights and recommendations",
	RunE:  runInsights,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Financial health score and how it was reached",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(insightsCmd, healthCmd)
}

func runInsights(cmd *cobra.Command, _ []string) error {
	l, closeStore, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	r := analytics.Analyze(l.Snapshot(), l.Now(), appCfg.AnalyticsOptions())
	cur := currency()

	fmt.Println()
	fmt.Println(cli.RenderTitle("INSIGHTS"))
	fmt.Println()

	if len(r.Insights) == 0 {
		fmt.Println("  Nothing to flag right now.")
	}
	for _, in := range r.Insights {
		fmt.Print(cli.RenderInsight(in))
	}

	if len(r.Ranking) > 0 && r.Ranking[0].Amount.IsPositive() {
		fmt.Println()
		fmt.Println("  Spending by category")
		top := r.Ranking[0].Amount
		for _, cs := range r.Ranking {
			frac := cs.Amount.Div(top).InexactFloat64()
			fmt.Println(cli.RenderHorizontalBar(cs.Name, cli.FormatMoney(cs.Amount, cur), frac, 18, 30))
		}
	}

	if len(r.DailySpending) > 0 {
		values := make([]float64, 0, len(r.DailySpending))
		for _, d := range r.DailySpending {
			values = append(values, d.Amount.InexactFloat64())
		}
		fmt.Println()
		fmt.Printf("  Last %d days  %s  avg %s/day\n",
			appCfg.Insights.WindowDays, cli.RenderSparkline(values), cli.FormatMoney(r.AvgDailySpending, cur))
	}

	if len(r.Recommendations) > 0 {
		fmt.Println()
		fmt.Println("  Recommendations")
		for _, rec := range r.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}
	fmt.Println()
	return nil
}

func runHealth(cmd *cobra.Command, _ []string) error {
	l, closeStore, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	snap := l.Snapshot()
	opts := appCfg.AnalyticsOptions()
	rubric := opts.Rubric
	cats := analytics.AnalyzeCategories(snap)
	util := analytics.Utilization(snap)
	over := analytics.CountStatus(cats, model.StatusOver)
	active := analytics.ActiveGoals(snap.Goals)
	score := analytics.Score(snap, cats, rubric)

	noGoal := 0
	if active == 0 {
		noGoal = rubric.NoActiveGoalPenalty
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Factor", "Value", "Points"},
		Rows: [][]string{
			{"Starting score", "", fmt.Sprintf("%d", rubric.Start)},
			{"Budget utilization", cli.FormatPercent(util), fmt.Sprintf("-%d", rubric.UtilizationPenalty(util))},
			{"Over-budget categories", fmt.Sprintf("%d", over), fmt.Sprintf("-%d", over*rubric.OverBudgetPenalty)},
			{"Active goals", fmt.Sprintf("%d", active), fmt.Sprintf("-%d", noGoal)},
			{"---"},
			{"Health", "", cli.RenderHealth(score, analytics.HealthLabel(score))},
		},
	}))
	return nil
}
