package stats

import (
	"fmt"

	"noskip/internal/core"
)

// Cycle is a concrete spending window resolved from a CycleConfig.
type Cycle struct {
	Start     core.Date `json:"start"`
	End       core.Date `json:"end"`
	Label     string    `json:"label"`
	DaysTotal int       `json:"days_total"`
	DaysLeft  int       `json:"days_left"`
}

// ResolveCycle maps cfg and a reference date to the cycle containing it.
// Payday is clamped to 1..28 so every month has the anchor day.
func ResolveCycle(cfg core.CycleConfig, ref core.Date) Cycle {
	if cfg.Type != core.CyclePayday {
		start := ref.FirstOfMonth()
		total := ref.DaysInMonth()
		return Cycle{
			Start:     start,
			End:       ref.LastOfMonth(),
			Label:     start.Format("January 2006"),
			DaysTotal: total,
			DaysLeft:  total - ref.Day() + 1,
		}
	}

	payday := min(max(cfg.Payday, 1), 28)
	start := core.NewDate(ref.Year(), ref.Month(), payday)
	if ref.Day() < payday {
		start = core.NewDate(ref.Year(), ref.Month()-1, payday)
	}
	end := start.AddMonths(1).AddDays(-1)

	return Cycle{
		Start:     start,
		End:       end,
		Label:     paydayLabel(start, end),
		DaysTotal: start.DaysUntil(end) + 1,
		DaysLeft:  max(ref.DaysUntil(end)+1, 0),
	}
}

func paydayLabel(start, end core.Date) string {
	return fmt.Sprintf("%s – %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
}

// Contains reports whether d falls inside the cycle, bounds included.
func (c Cycle) Contains(d core.Date) bool {
	return !d.Before(c.Start) && !d.After(c.End)
}

// MonthKey is the YYYY-MM of the cycle start; budgets are looked up by it.
func (c Cycle) MonthKey() string {
	return c.Start.MonthKey()
}

// BudgetMonth is the first day of the month budgets are stored under.
func (c Cycle) BudgetMonth() core.Date {
	return c.Start.FirstOfMonth()
}

// Elapsed returns how many days of the cycle have passed up to and
// including ref, clamped to the cycle length.
func (c Cycle) Elapsed(ref core.Date) int {
	if ref.Before(c.Start) {
		return 0
	}
	return min(c.Start.DaysUntil(ref)+1, c.DaysTotal)
}

// CycleForMonth returns the cycle whose budgets are stored under month,
// i.e. the cycle that starts in that month.
func CycleForMonth(cfg core.CycleConfig, month core.Date) Cycle {
	ref := month.FirstOfMonth()
	if cfg.Type == core.CyclePayday {
		ref = core.NewDate(ref.Year(), ref.Month(), min(max(cfg.Payday, 1), 28))
	}
	return ResolveCycle(cfg, ref)
}
