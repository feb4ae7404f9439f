package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List built-in and custom expense categories",
	RunE:  withApp(runCategories),
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(ctx context.Context, a *app) error {
	list, err := a.categories.List(ctx, a.userID)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	fmt.Println()
	fmt.Println(renderTitle("Categories"))
	fmt.Println()

	t := table{headers: []string{"Name", "Color", "Kind"}}
	for _, c := range list {
		kind := styled("built-in", mutedStyle)
		if c.IsCustom() {
			kind = plain("custom")
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color()))
		t.rows = append(t.rows, []cell{
			plain(c.Name()),
			styled("■ "+c.Color(), swatch),
			kind,
		})
	}
	fmt.Print(t.render())
	return nil
}
