package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"noskip/internal/core"
	"noskip/internal/settings"
	"noskip/internal/stats"
	"noskip/internal/storage"
)

// DashboardService assembles the read-only overview of the current cycle.
type DashboardService struct {
	repo         *storage.SQLiteRepository
	transactions *TransactionService
	settings     *settings.Service
	clock        Clock
}

func NewDashboardService(repo *storage.SQLiteRepository, transactions *TransactionService, prefs *settings.Service, clock Clock) *DashboardService {
	return &DashboardService{repo: repo, transactions: transactions, settings: prefs, clock: clock}
}

// CategorySlice is a category total with its display color and share of
// the cycle's spending.
type CategorySlice struct {
	Category string     `json:"category"`
	Color    string     `json:"color"`
	Amount   core.Money `json:"amount"`
	Percent  float64    `json:"percent"`
}

type Dashboard struct {
	Today        core.Date           `json:"today"`
	Cycle        stats.Cycle         `json:"cycle"`
	TotalSpent   core.Money          `json:"total_spent"`
	TotalIncome  core.Money          `json:"total_income"`
	Balance      core.Money          `json:"balance"`
	DailyAverage core.Money          `json:"daily_average"`
	Projected    core.Money          `json:"projected"`
	Categories   []CategorySlice     `json:"categories"`
	TopCategory  *CategorySlice      `json:"top_category,omitempty"`
	Incomes      []stats.SourceTotal `json:"incomes"`
	Weekly       []stats.DayAmount   `json:"weekly"`
	Budgets      []BudgetStatus      `json:"budgets"`
	Habits       []HabitWithSummary  `json:"habits"`
}

// Load reads everything the dashboard needs concurrently, then derives the
// figures in one pass.
func (s *DashboardService) Load(ctx context.Context, userID string) (Dashboard, error) {
	today := s.clock.Today()
	cycle := stats.ResolveCycle(s.settings.LoadCycle(ctx, userID), today)
	monday := today.AddDays(-((int(today.Weekday()) + 6) % 7))

	var (
		expenses    []core.Expense
		week        []core.Expense
		incomes     []core.Income
		budgets     []core.Budget
		customs     []core.CustomCategory
		habits      []core.Habit
		completions []core.HabitCompletion
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		expenses, err = s.transactions.ListExpenses(gctx, userID, cycle.Start, cycle.End)
		return err
	})
	g.Go(func() (err error) {
		week, err = s.transactions.ListExpenses(gctx, userID, monday, today)
		return err
	})
	g.Go(func() (err error) {
		incomes, err = s.transactions.ListIncomes(gctx, userID, cycle.Start, cycle.End)
		return err
	})
	g.Go(func() (err error) {
		budgets, err = s.repo.ListBudgets(gctx, userID, cycle.BudgetMonth())
		return err
	})
	g.Go(func() (err error) {
		customs, err = s.repo.ListCustomCategories(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		habits, err = s.repo.ListHabits(gctx, userID, true)
		return err
	})
	g.Go(func() (err error) {
		completions, err = s.repo.ListCompletions(gctx, userID, today.AddDays(-core.CompletionLookbackDays))
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, fmt.Errorf("load dashboard: %w", err)
	}

	spent := stats.Sum(expenses)
	income := stats.Sum(incomes)
	d := Dashboard{
		Today:        today,
		Cycle:        cycle,
		TotalSpent:   spent,
		TotalIncome:  income,
		Balance:      income.Sub(spent),
		DailyAverage: stats.DailyAverage(spent, cycle.Elapsed(today)),
		Projected:    stats.ProjectedSpend(spent, cycle, today),
		Categories:   categorySlices(expenses, customs, spent),
		Incomes:      stats.IncomeTotals(incomes),
		Weekly:       stats.WeeklySeries(week, today),
		Budgets:      budgetStatuses(budgets, expenses, customs),
		Habits:       summarize(habits, completions, today),
	}
	if len(d.Categories) > 0 {
		top := d.Categories[0]
		d.TopCategory = &top
	}
	if d.Incomes == nil {
		d.Incomes = []stats.SourceTotal{}
	}
	return d, nil
}

// Calendar returns the spending heat map of one month.
func (s *DashboardService) Calendar(ctx context.Context, userID string, year, month int) (stats.Heatmap, error) {
	if month < 1 || month > 12 {
		return stats.Heatmap{}, core.ErrInvalidMonth
	}
	first := core.NewDate(year, month, 1)
	if err := first.Validate(); err != nil {
		return stats.Heatmap{}, err
	}
	expenses, err := s.transactions.ListExpenses(ctx, userID, first, first.LastOfMonth())
	if err != nil {
		return stats.Heatmap{}, err
	}
	return stats.CalendarHeatmap(expenses, year, month), nil
}

func categorySlices(expenses []core.Expense, customs []core.CustomCategory, total core.Money) []CategorySlice {
	totals := stats.CategoryTotals(expenses)
	out := make([]CategorySlice, 0, len(totals))
	for _, t := range totals {
		sl := CategorySlice{
			Category: t.Category,
			Color:    core.ResolveCategory(t.Category, customs).Color(),
			Amount:   t.Amount,
		}
		if total.Cents > 0 {
			sl.Percent = float64(t.Amount.Cents) * 100 / float64(total.Cents)
		}
		out = append(out, sl)
	}
	return out
}
