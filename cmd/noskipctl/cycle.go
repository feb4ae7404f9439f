package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"noskip/internal/stats"
)

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Show the current budget cycle and spending pace",
	RunE:  withApp(runCycle),
}

func init() {
	rootCmd.AddCommand(cycleCmd)
}

func runCycle(ctx context.Context, a *app) error {
	today := a.clock.Today()
	cfg := a.prefs.LoadCycle(ctx, a.userID)
	c := stats.ResolveCycle(cfg, today)

	expenses, err := a.transactions.ListExpenses(ctx, a.userID, c.Start, c.End)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}
	incomes, err := a.transactions.ListIncomes(ctx, a.userID, c.Start, c.End)
	if err != nil {
		return fmt.Errorf("load incomes: %w", err)
	}
	spent := stats.Sum(expenses)
	elapsed := c.Elapsed(today)

	fmt.Println()
	fmt.Println(renderTitle(c.Label))
	fmt.Println()

	t := table{headers: []string{"Metric", "Value"}}
	t.rows = [][]cell{
		{plain("Cycle"), plain(string(cfg.Type))},
		{plain("Range"), plain(c.Start.String() + " → " + c.End.String())},
		{plain("Days left"), plain(fmt.Sprintf("%d of %d", c.DaysLeft, c.DaysTotal))},
		{plain("Income"), plain(stats.Sum(incomes).String())},
		{plain("Spent"), plain(spent.String())},
		{plain("Daily average"), plain(stats.DailyAverage(spent, elapsed).String())},
		{plain("Projected"), plain(stats.ProjectedSpend(spent, c, today).String())},
	}
	if top, ok := stats.TopCategory(expenses); ok {
		t.rows = append(t.rows, []cell{plain("Top category"), plain(top.Category + " " + top.Amount.String())})
	}
	fmt.Print(t.render())
	return nil
}
