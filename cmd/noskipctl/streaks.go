package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var streaksCmd = &cobra.Command{
	Use:   "streaks",
	Short: "Show current and longest streaks of active habits",
	RunE:  withApp(runStreaks),
}

func init() {
	rootCmd.AddCommand(streaksCmd)
}

func runStreaks(ctx context.Context, a *app) error {
	list, err := a.habits.Summaries(ctx, a.userID)
	if err != nil {
		return fmt.Errorf("load habits: %w", err)
	}

	fmt.Println()
	fmt.Println(renderTitle("Streaks  " + a.clock.Today().String()))
	fmt.Println()
	if len(list) == 0 {
		fmt.Println(mutedStyle.Render("  No active habits."))
		return nil
	}

	t := table{headers: []string{"Habit", "Today", "Current", "Longest", "Total", "Rate"}}
	for _, h := range list {
		name := h.Habit.Name
		if h.Habit.Emoji != "" {
			name = h.Habit.Emoji + " " + name
		}
		done := styled("·", mutedStyle)
		if h.Summary.CompletedToday {
			done = styled("✓", statusStyle("green"))
		}
		t.rows = append(t.rows, []cell{
			plain(name),
			done,
			plain(strconv.Itoa(h.Summary.CurrentStreak)),
			plain(strconv.Itoa(h.Summary.LongestStreak)),
			plain(strconv.Itoa(h.Summary.TotalCompletions)),
			plain(formatPercent(h.Summary.CompletionRate * 100)),
		})
	}
	fmt.Print(t.render())
	return nil
}
