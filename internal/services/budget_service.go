package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"noskip/internal/core"
	"noskip/internal/stats"
	"noskip/internal/storage"
)

// BudgetService manages monthly budgets and measures spending against them.
type BudgetService struct {
	repo         *storage.SQLiteRepository
	transactions *TransactionService
}

func NewBudgetService(repo *storage.SQLiteRepository, transactions *TransactionService) *BudgetService {
	return &BudgetService{repo: repo, transactions: transactions}
}

// BudgetStatus is a budget together with its progress in a cycle.
type BudgetStatus struct {
	Budget   core.Budget    `json:"budget"`
	Color    string         `json:"color"`
	Progress stats.Progress `json:"progress"`
}

// Upsert sets the budget of a category, or Overall, for a month.
func (s *BudgetService) Upsert(ctx context.Context, userID string, b core.Budget) (core.Budget, error) {
	b.UserID = userID
	b.Category = strings.TrimSpace(b.Category)
	if !b.Month.IsEmpty() {
		b.Month = b.Month.FirstOfMonth()
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, fmt.Errorf("validate budget: %w", err)
	}
	if b.Category != core.OverallBudget {
		customs, err := s.repo.ListCustomCategories(ctx, userID)
		if err != nil {
			return core.Budget{}, err
		}
		if !core.IsKnownCategory(b.Category, customs) {
			return core.Budget{}, fmt.Errorf("category %q: %w", b.Category, core.ErrUnknownCategory)
		}
	}
	return s.repo.UpsertBudget(ctx, b)
}

func (s *BudgetService) List(ctx context.Context, userID string, month core.Date) ([]core.Budget, error) {
	return s.repo.ListBudgets(ctx, userID, month.FirstOfMonth())
}

func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.DeleteBudget(ctx, userID, id)
}

// Progress measures the cycle's spending against the budgets of the
// cycle's budget month.
func (s *BudgetService) Progress(ctx context.Context, userID string, cycle stats.Cycle) ([]BudgetStatus, error) {
	budgets, err := s.repo.ListBudgets(ctx, userID, cycle.BudgetMonth())
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return []BudgetStatus{}, nil
	}
	expenses, err := s.transactions.ListExpenses(ctx, userID, cycle.Start, cycle.End)
	if err != nil {
		return nil, err
	}
	customs, err := s.repo.ListCustomCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	return budgetStatuses(budgets, expenses, customs), nil
}

// budgetStatuses pairs each budget with spending in its category. Overall
// measures every expense. The Overall budget is listed first, then
// categories in name order.
func budgetStatuses(budgets []core.Budget, expenses []core.Expense, customs []core.CustomCategory) []BudgetStatus {
	spent := make(map[string]core.Money)
	var total core.Money
	for _, e := range expenses {
		name := core.ResolveCategory(e.Category, customs).Name()
		spent[name] = spent[name].Add(e.Amount)
		total = total.Add(e.Amount)
	}

	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		st := BudgetStatus{Budget: b}
		if b.Category == core.OverallBudget {
			st.Color = core.CategoryOther.Color()
			st.Progress = stats.BudgetProgress(total, b.Amount)
		} else {
			cat := core.ResolveCategory(b.Category, customs)
			st.Color = cat.Color()
			st.Progress = stats.BudgetProgress(spent[cat.Name()], b.Amount)
		}
		out = append(out, st)
	}
	sortStatuses(out)
	return out
}

func sortStatuses(list []BudgetStatus) {
	slices.SortStableFunc(list, func(a, b BudgetStatus) int {
		ao, bo := a.Budget.Category == core.OverallBudget, b.Budget.Category == core.OverallBudget
		switch {
		case ao && !bo:
			return -1
		case bo && !ao:
			return 1
		}
		return strings.Compare(a.Budget.Category, b.Budget.Category)
	})
}
