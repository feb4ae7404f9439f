package stats

import (
	"testing"

	"noskip/internal/core"
)

func TestBudgetProgress(t *testing.T) {
	cases := []struct {
		name      string
		spent     int64
		budget    int64
		percent   float64
		remaining int64
		over      bool
		status    Status
	}{
		{"over budget clamps", 12000, 10000, 100, -2000, true, StatusRed},
		{"exactly ninety", 9000, 10000, 90, 1000, false, StatusRed},
		{"amber", 7000, 10000, 70, 3000, false, StatusAmber},
		{"green", 6999, 10000, 69.99, 3001, false, StatusGreen},
		{"nothing spent", 0, 10000, 0, 10000, false, StatusGreen},
		{"zero budget with spending", 100, 0, 100, -100, true, StatusRed},
		{"zero budget nothing spent", 0, 0, 0, 0, false, StatusGreen},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := BudgetProgress(core.Money{Cents: tc.spent}, core.Money{Cents: tc.budget})
			if diff := p.Percent - tc.percent; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("percent = %f, want %f", p.Percent, tc.percent)
			}
			if p.Remaining.Cents != tc.remaining {
				t.Errorf("remaining = %d, want %d", p.Remaining.Cents, tc.remaining)
			}
			if p.Over != tc.over {
				t.Errorf("over = %v, want %v", p.Over, tc.over)
			}
			if p.Status != tc.status {
				t.Errorf("status = %s, want %s", p.Status, tc.status)
			}
		})
	}
}
