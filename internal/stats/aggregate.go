package stats

import (
	"sort"

	"noskip/internal/core"
)

// Dated is any amount tied to a calendar date (expenses, incomes).
type Dated interface {
	OnDate() core.Date
	Value() core.Money
}

type CategoryTotal struct {
	Category string     `json:"category"`
	Amount   core.Money `json:"amount"`
}

type SourceTotal struct {
	Source core.IncomeSource `json:"source"`
	Amount core.Money        `json:"amount"`
}

type DayAmount struct {
	Date   core.Date  `json:"date"`
	Amount core.Money `json:"amount"`
}

// CategoryTotals folds expenses by category and sorts by amount, largest
// first. Ties keep the order in which categories were first seen.
func CategoryTotals(expenses []core.Expense) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, CategoryTotal{Category: e.Category})
		}
		out[i].Amount = out[i].Amount.Add(e.Amount)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	return out
}

// TopCategory returns the category with the largest total, if any.
func TopCategory(expenses []core.Expense) (CategoryTotal, bool) {
	totals := CategoryTotals(expenses)
	if len(totals) == 0 {
		return CategoryTotal{}, false
	}
	return totals[0], true
}

// IncomeTotals folds incomes by source, largest first.
func IncomeTotals(incomes []core.Income) []SourceTotal {
	index := make(map[core.IncomeSource]int)
	var out []SourceTotal
	for _, in := range incomes {
		i, ok := index[in.Source]
		if !ok {
			i = len(out)
			index[in.Source] = i
			out = append(out, SourceTotal{Source: in.Source})
		}
		out[i].Amount = out[i].Amount.Add(in.Amount)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	return out
}

// Sum adds up every item.
func Sum[T Dated](items []T) core.Money {
	var total core.Money
	for _, it := range items {
		total = total.Add(it.Value())
	}
	return total
}

// SumInRange adds up the items dated inside the cycle.
func SumInRange[T Dated](items []T, c Cycle) core.Money {
	var total core.Money
	for _, it := range items {
		if c.Contains(it.OnDate()) {
			total = total.Add(it.Value())
		}
	}
	return total
}

// WeeklySeries returns one entry per day of the Monday-start week holding
// today, stopping at today.
func WeeklySeries[T Dated](items []T, today core.Date) []DayAmount {
	offset := (int(today.Weekday()) + 6) % 7
	monday := today.AddDays(-offset)

	series := make([]DayAmount, offset+1)
	for i := range series {
		series[i].Date = monday.AddDays(i)
	}
	for _, it := range items {
		d := it.OnDate()
		if d.Before(monday) || d.After(today) {
			continue
		}
		i := monday.DaysUntil(d)
		series[i].Amount = series[i].Amount.Add(it.Value())
	}
	return series
}

// DailyAverage spreads total evenly over days, rounding to the cent.
func DailyAverage(total core.Money, days int) core.Money {
	if days <= 0 {
		return core.Money{}
	}
	return core.Money{Cents: (total.Cents + int64(days)/2) / int64(days)}
}

// ProjectedSpend extrapolates spending so far over the full cycle.
func ProjectedSpend(spent core.Money, c Cycle, ref core.Date) core.Money {
	elapsed := c.Elapsed(ref)
	if elapsed == 0 {
		return spent
	}
	avg := DailyAverage(spent, elapsed)
	return core.Money{Cents: avg.Cents * int64(c.DaysTotal)}
}
