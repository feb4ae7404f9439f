package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"noskip/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "noskip.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func createHabit(t *testing.T, repo *SQLiteRepository, userID, name string) core.Habit {
	t.Helper()
	h, err := repo.CreateHabit(context.Background(), core.Habit{
		UserID:        userID,
		Name:          name,
		Emoji:         "📚",
		FrequencyType: core.FrequencyCustom,
		CustomDays:    core.Weekdays{time.Friday, time.Monday},
		PreferredTime: "07:30",
		StartDate:     core.NewDate(2024, 1, 1),
		IsActive:      true,
	})
	if err != nil {
		t.Fatalf("create habit: %v", err)
	}
	return h
}

func TestHabitCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	h := createHabit(t, repo, "u1", "Read")
	if h.ID == "" {
		t.Fatal("expected generated ID")
	}

	got, err := repo.GetHabit(ctx, "u1", h.ID)
	if err != nil {
		t.Fatalf("get habit: %v", err)
	}
	if got.Name != "Read" || got.PreferredTime != "07:30" || !got.IsActive {
		t.Fatalf("got %+v", got)
	}
	if !reflect.DeepEqual(got.CustomDays, core.Weekdays{time.Monday, time.Friday}) {
		t.Fatalf("custom days = %v", got.CustomDays)
	}
	if !got.StartDate.Equal(core.NewDate(2024, 1, 1)) {
		t.Fatalf("start date = %s", got.StartDate)
	}

	if _, err := repo.GetHabit(ctx, "someone-else", h.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("other user get: %v, want ErrNotFound", err)
	}

	got.IsActive = false
	got.Name = "Read 20 pages"
	if err := repo.UpdateHabit(ctx, got); err != nil {
		t.Fatalf("update habit: %v", err)
	}

	active, err := repo.ListHabits(ctx, "u1", true)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("active habits = %d, want 0", len(active))
	}
	all, err := repo.ListHabits(ctx, "u1", false)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 || all[0].Name != "Read 20 pages" {
		t.Fatalf("all habits = %+v", all)
	}

	missing := got
	missing.ID = "nope"
	if err := repo.UpdateHabit(ctx, missing); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("update missing: %v, want ErrNotFound", err)
	}
}

func TestToggleCompletionRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	h := createHabit(t, repo, "u1", "Run")
	today := core.NewDate(2024, 3, 10)
	since := core.NewDate(2023, 3, 10)

	// Seed one unrelated completion so the set is not empty.
	if _, err := repo.ToggleCompletion(ctx, "u1", h.ID, today.AddDays(-3), today); err != nil {
		t.Fatalf("seed: %v", err)
	}
	before, err := repo.ListCompletions(ctx, "u1", since)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	for _, date := range []core.Date{today, today.AddDays(-1), today.AddDays(-3)} {
		first, err := repo.ToggleCompletion(ctx, "u1", h.ID, date, today)
		if err != nil {
			t.Fatalf("toggle %s: %v", date, err)
		}
		second, err := repo.ToggleCompletion(ctx, "u1", h.ID, date, today)
		if err != nil {
			t.Fatalf("toggle back %s: %v", date, err)
		}
		if first == second {
			t.Fatalf("toggle %s returned %v twice", date, first)
		}

		after, err := repo.ListCompletions(ctx, "u1", since)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if !sameDates(before, after) {
			t.Fatalf("toggle pair on %s changed the set: %v -> %v", date, before, after)
		}
	}
}

func sameDates(a, b []core.HabitCompletion) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].HabitID != b[i].HabitID || !a[i].Date.Equal(b[i].Date) {
			return false
		}
	}
	return true
}

func TestToggleCompletionRetroactiveFlag(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	h := createHabit(t, repo, "u1", "Stretch")
	today := core.NewDate(2024, 3, 10)

	for _, d := range []core.Date{today, today.AddDays(-2)} {
		if done, err := repo.ToggleCompletion(ctx, "u1", h.ID, d, today); err != nil || !done {
			t.Fatalf("toggle %s: done=%v err=%v", d, done, err)
		}
	}

	got, err := repo.ListCompletions(ctx, "u1", today.AddDays(-30))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("completions = %d, want 2", len(got))
	}
	// Ordered by date: the past day first.
	if !got[0].IsRetroactive || got[1].IsRetroactive {
		t.Fatalf("retroactive flags = %v, %v", got[0].IsRetroactive, got[1].IsRetroactive)
	}
}

func TestToggleCompletionOtherUser(t *testing.T) {
	repo := newTestRepo(t)
	h := createHabit(t, repo, "u1", "Run")
	_, err := repo.ToggleCompletion(context.Background(), "u2", h.ID, core.NewDate(2024, 3, 1), core.NewDate(2024, 3, 1))
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteHabitCascades(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	h := createHabit(t, repo, "u1", "Meditate")
	keep := createHabit(t, repo, "u1", "Walk")
	today := core.NewDate(2024, 3, 10)

	for _, id := range []string{h.ID, keep.ID} {
		if _, err := repo.ToggleCompletion(ctx, "u1", id, today, today); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}
	if err := repo.DeleteHabit(ctx, "u1", h.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := repo.ListCompletions(ctx, "u1", today.AddDays(-1))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].HabitID != keep.ID {
		t.Fatalf("completions after delete = %+v", got)
	}
	if err := repo.DeleteHabit(ctx, "u1", h.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete: %v, want ErrNotFound", err)
	}
}

func TestExpensesAndIncomes(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, d := range []int{1, 15, 31} {
		_, err := repo.CreateExpense(ctx, core.Expense{
			UserID:   "u1",
			Amount:   core.Money{Cents: int64(d * 100)},
			Category: "Food",
			Date:     core.NewDate(2024, 3, d),
			Note:     "lunch",
		})
		if err != nil {
			t.Fatalf("create expense: %v", err)
		}
	}
	if _, err := repo.CreateExpense(ctx, core.Expense{
		UserID: "u2", Amount: core.Money{Cents: 999}, Category: "Food", Date: core.NewDate(2024, 3, 2),
	}); err != nil {
		t.Fatalf("create other user expense: %v", err)
	}

	got, err := repo.ListExpenses(ctx, "u1", core.NewDate(2024, 3, 1), core.NewDate(2024, 3, 15))
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if len(got) != 2 || got[0].Amount.Cents != 100 || got[1].Date.Day() != 15 {
		t.Fatalf("expenses = %+v", got)
	}

	loaded, err := repo.GetExpense(ctx, got[0].ID)
	if err != nil {
		t.Fatalf("get expense: %v", err)
	}
	if loaded.Note != "lunch" || loaded.UserID != "u1" {
		t.Fatalf("loaded = %+v", loaded)
	}
	if err := repo.MarkSynced(ctx, core.KindExpense, loaded.ID); err != nil {
		t.Fatalf("mark synced: %v", err)
	}

	if err := repo.DeleteExpense(ctx, "u2", loaded.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("delete by other user: %v, want ErrNotFound", err)
	}
	if err := repo.DeleteExpense(ctx, "u1", loaded.ID); err != nil {
		t.Fatalf("delete expense: %v", err)
	}
	if _, err := repo.GetExpense(ctx, loaded.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("get deleted: %v, want ErrNotFound", err)
	}

	in, err := repo.CreateIncome(ctx, core.Income{
		UserID: "u1", Amount: core.Money{Cents: 250000}, Source: core.SourceSalary, Date: core.NewDate(2024, 3, 25),
	})
	if err != nil {
		t.Fatalf("create income: %v", err)
	}
	incomes, err := repo.ListIncomes(ctx, "u1", core.NewDate(2024, 3, 1), core.NewDate(2024, 3, 31))
	if err != nil {
		t.Fatalf("list incomes: %v", err)
	}
	if len(incomes) != 1 || incomes[0].Source != core.SourceSalary {
		t.Fatalf("incomes = %+v", incomes)
	}
	if err := repo.MarkSynced(ctx, core.KindIncome, in.ID); err != nil {
		t.Fatalf("mark income synced: %v", err)
	}
	if err := repo.DeleteIncome(ctx, "u1", in.ID); err != nil {
		t.Fatalf("delete income: %v", err)
	}
}

func TestUpsertBudget(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first, err := repo.UpsertBudget(ctx, core.Budget{
		UserID: "u1", Category: "Food", Amount: core.Money{Cents: 30000}, Month: core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	second, err := repo.UpsertBudget(ctx, core.Budget{
		UserID: "u1", Category: "Food", Amount: core.Money{Cents: 45000}, Month: core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("upsert again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("upsert created a second row: %s != %s", first.ID, second.ID)
	}
	if _, err := repo.UpsertBudget(ctx, core.Budget{
		UserID: "u1", Category: core.OverallBudget, Amount: core.Money{Cents: 100000}, Month: core.NewDate(2024, 3, 1),
	}); err != nil {
		t.Fatalf("upsert overall: %v", err)
	}

	budgets, err := repo.ListBudgets(ctx, "u1", core.NewDate(2024, 3, 20))
	if err != nil {
		t.Fatalf("list budgets: %v", err)
	}
	if len(budgets) != 2 {
		t.Fatalf("budgets = %+v", budgets)
	}
	if budgets[0].Category != "Food" || budgets[0].Amount.Cents != 45000 {
		t.Fatalf("food budget = %+v", budgets[0])
	}

	if err := repo.DeleteBudget(ctx, "u1", first.ID); err != nil {
		t.Fatalf("delete budget: %v", err)
	}
	if err := repo.DeleteBudget(ctx, "u1", first.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete: %v, want ErrNotFound", err)
	}
}

func TestCustomCategories(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	c, err := repo.CreateCustomCategory(ctx, core.CustomCategory{UserID: "u1", Name: " Pets ", Color: "#112233"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Name != "Pets" {
		t.Fatalf("name = %q, want trimmed", c.Name)
	}
	if _, err := repo.CreateCustomCategory(ctx, core.CustomCategory{UserID: "u1", Name: "Pets", Color: "#445566"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate: %v, want ErrDuplicate", err)
	}

	list, err := repo.ListCustomCategories(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Color != "#112233" {
		t.Fatalf("list = %+v", list)
	}
	if err := repo.DeleteCustomCategory(ctx, "u1", c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if _, err := repo.GetPreference(ctx, "u1", "k"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("missing preference: %v, want ErrNotFound", err)
	}
	if err := repo.PutPreference(ctx, "u1", "k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.PutPreference(ctx, "u1", "k", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("put again: %v", err)
	}
	got, err := repo.GetPreference(ctx, "u1", "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"a":2}` {
		t.Fatalf("got %s", got)
	}
}

func TestListUnsyncedAndMarkSynced(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	e, err := repo.CreateExpense(ctx, core.Expense{
		UserID: "u1", Amount: core.Money{Cents: 500}, Category: "Food", Date: core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	in, err := repo.CreateIncome(ctx, core.Income{
		UserID: "u1", Amount: core.Money{Cents: 90000}, Source: core.SourceSalary, Date: core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("create income: %v", err)
	}

	pending, err := repo.ListUnsynced(ctx, 10)
	if err != nil {
		t.Fatalf("list unsynced: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %+v, want 2 entries", pending)
	}

	if err := repo.MarkSynced(ctx, core.KindExpense, e.ID); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, err = repo.ListUnsynced(ctx, 10)
	if err != nil {
		t.Fatalf("list unsynced: %v", err)
	}
	if len(pending) != 1 || pending[0].Kind != core.KindIncome || pending[0].ID != in.ID {
		t.Fatalf("pending after mark = %+v", pending)
	}

	if err := repo.MarkSynced(ctx, core.KindIncome, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("mark missing: got %v, want ErrNotFound", err)
	}
	if err := repo.MarkSynced(ctx, "transfer", in.ID); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
