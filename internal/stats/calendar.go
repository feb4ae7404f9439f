package stats

import "noskip/internal/core"

// minDayTotal keeps the intensity scale defined for months with no spending.
var minDayTotal = core.Money{Cents: 100}

type DayCell struct {
	Total      core.Money            `json:"total"`
	ByCategory map[string]core.Money `json:"by_category"`
}

// Heatmap is the per-day spending of one month.
type Heatmap struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	Days        map[int]DayCell `json:"days"`
	MaxDayTotal core.Money      `json:"max_day_total"`
}

// CalendarHeatmap groups the expenses of year/month by day of month.
// Expenses outside the month are ignored.
func CalendarHeatmap(expenses []core.Expense, year, month int) Heatmap {
	h := Heatmap{
		Year:        year,
		Month:       month,
		Days:        make(map[int]DayCell),
		MaxDayTotal: minDayTotal,
	}
	for _, e := range expenses {
		if e.Date.Year() != year || e.Date.Month() != month {
			continue
		}
		cell, ok := h.Days[e.Date.Day()]
		if !ok {
			cell.ByCategory = make(map[string]core.Money)
		}
		cell.Total = cell.Total.Add(e.Amount)
		cell.ByCategory[e.Category] = cell.ByCategory[e.Category].Add(e.Amount)
		h.Days[e.Date.Day()] = cell
	}
	for _, cell := range h.Days {
		if cell.Total.Cents > h.MaxDayTotal.Cents {
			h.MaxDayTotal = cell.Total
		}
	}
	return h
}

// Intensity scales a day's total linearly against the busiest day.
func (h Heatmap) Intensity(day int) float64 {
	cell, ok := h.Days[day]
	if !ok {
		return 0
	}
	return min(float64(cell.Total.Cents)/float64(h.MaxDayTotal.Cents), 1)
}
