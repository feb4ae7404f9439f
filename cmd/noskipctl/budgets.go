package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"noskip/internal/core"
	"noskip/internal/stats"
)

var budgetsMonth string

var budgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "Show budget progress for the current cycle or a given month",
	RunE:  withApp(runBudgets),
}

func init() {
	budgetsCmd.Flags().StringVarP(&budgetsMonth, "month", "m", "", "cycle starting in month YYYY-MM (default: current cycle)")
	rootCmd.AddCommand(budgetsCmd)
}

func runBudgets(ctx context.Context, a *app) error {
	cfg := a.prefs.LoadCycle(ctx, a.userID)
	c := stats.ResolveCycle(cfg, a.clock.Today())
	if budgetsMonth != "" {
		month, err := core.ParseDate(budgetsMonth + "-01")
		if err != nil {
			return fmt.Errorf("invalid --month %q, want YYYY-MM", budgetsMonth)
		}
		c = stats.CycleForMonth(cfg, month)
	}

	list, err := a.budgets.Progress(ctx, a.userID, c)
	if err != nil {
		return fmt.Errorf("load budgets: %w", err)
	}

	fmt.Println()
	fmt.Println(renderTitle("Budgets  " + c.Label))
	fmt.Println()
	if len(list) == 0 {
		fmt.Println(mutedStyle.Render("  No budgets set for " + c.BudgetMonth().MonthKey() + "."))
		return nil
	}

	t := table{headers: []string{"Category", "Spent", "Budget", "Remaining", "Progress", "%"}}
	for _, b := range list {
		st := statusStyle(b.Progress.Status)
		t.rows = append(t.rows, []cell{
			plain(b.Budget.Category),
			plain(b.Progress.Spent.String()),
			plain(b.Progress.Budget.String()),
			styled(b.Progress.Remaining.String(), st),
			styled(progressBar(b.Progress.Percent, 20), st),
			styled(formatPercent(b.Progress.Percent), st),
		})
	}
	fmt.Print(t.render())
	return nil
}
