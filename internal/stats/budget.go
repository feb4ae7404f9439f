package stats

import (
	"math"

	"noskip/internal/core"
)

type Status string

const (
	StatusGreen Status = "green"
	StatusAmber Status = "amber"
	StatusRed   Status = "red"
)

// Progress is how much of a budget has been used.
type Progress struct {
	Spent     core.Money `json:"spent"`
	Budget    core.Money `json:"budget"`
	Percent   float64    `json:"percent"`   // clamped to 0..100
	Remaining core.Money `json:"remaining"` // negative when over budget
	Over      bool       `json:"over"`
	Status    Status     `json:"status"`
}

// BudgetProgress compares spending to a budget amount. A zero budget counts
// as fully used as soon as anything is spent.
func BudgetProgress(spent, budget core.Money) Progress {
	p := Progress{
		Spent:     spent,
		Budget:    budget,
		Remaining: budget.Sub(spent),
		Over:      spent.Cents > budget.Cents,
	}
	switch {
	case budget.Cents > 0:
		p.Percent = math.Min(float64(spent.Cents)*100/float64(budget.Cents), 100)
	case spent.Cents > 0:
		p.Percent = 100
	}
	p.Status = statusFor(p.Percent)
	return p
}

func statusFor(percent float64) Status {
	switch {
	case percent >= 90:
		return StatusRed
	case percent >= 70:
		return StatusAmber
	default:
		return StatusGreen
	}
}
