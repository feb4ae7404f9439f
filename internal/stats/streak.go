// Package stats holds the pure calculation layer: habit streaks, budget
// cycles and expense aggregation. Nothing here performs I/O or keeps state;
// callers pass "today" explicitly and cache results if they need to.
package stats

import (
	"sort"

	"noskip/internal/core"
)

// HabitSummary is the per-habit statistics block shown on the dashboard.
type HabitSummary struct {
	HabitID          string  `json:"habit_id"`
	CurrentStreak    int     `json:"current_streak"`
	LongestStreak    int     `json:"longest_streak"`
	TotalCompletions int     `json:"total_completions"`
	CompletedToday   bool    `json:"completed_today"`
	CompletionRate   float64 `json:"completion_rate"` // 0..1
}

func completedDates(completions []core.HabitCompletion, habitID string) map[string]core.Date {
	set := make(map[string]core.Date)
	for _, c := range completions {
		if c.HabitID == habitID {
			set[c.Date.String()] = c.Date
		}
	}
	return set
}

// CurrentStreak counts consecutive completed days ending today, or ending
// yesterday when today has not been completed yet. Days before startDate
// never count.
func CurrentStreak(completions []core.HabitCompletion, habitID string, startDate, today core.Date) int {
	done := completedDates(completions, habitID)

	cursor := today
	if _, ok := done[today.String()]; !ok {
		cursor = today.AddDays(-1)
		if _, ok := done[cursor.String()]; !ok {
			return 0
		}
	}

	streak := 0
	for {
		if !startDate.IsZero() && cursor.Before(startDate) {
			break
		}
		if _, ok := done[cursor.String()]; !ok {
			break
		}
		streak++
		cursor = cursor.AddDays(-1)
	}
	return streak
}

// LongestStreak returns the longest run of consecutive completed days.
func LongestStreak(completions []core.HabitCompletion, habitID string) int {
	done := completedDates(completions, habitID)
	if len(done) == 0 {
		return 0
	}

	dates := make([]core.Date, 0, len(done))
	for _, d := range done {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if dates[i-1].DaysUntil(dates[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// SummarizeHabit derives the streaks and completion rate of one habit. The
// rate only considers scheduled days inside the completion lookback window.
// Completions dated before the habit's start date are ignored.
func SummarizeHabit(h core.Habit, completions []core.HabitCompletion, today core.Date) HabitSummary {
	completions = sinceStart(completions, h.ID, h.StartDate)
	done := completedDates(completions, h.ID)
	_, completedToday := done[today.String()]

	s := HabitSummary{
		HabitID:          h.ID,
		CurrentStreak:    CurrentStreak(completions, h.ID, h.StartDate, today),
		LongestStreak:    LongestStreak(completions, h.ID),
		TotalCompletions: len(done),
		CompletedToday:   completedToday,
	}

	from := today.AddDays(-(core.CompletionLookbackDays - 1))
	if h.StartDate.After(from) {
		from = h.StartDate
	}
	scheduled, hit := 0, 0
	for d := from; !d.After(today); d = d.AddDays(1) {
		if !h.IsScheduledOn(d) {
			continue
		}
		scheduled++
		if _, ok := done[d.String()]; ok {
			hit++
		}
	}
	if scheduled > 0 {
		s.CompletionRate = float64(hit) / float64(scheduled)
	}
	return s
}

// sinceStart keeps the completions of habitID on or after start. They
// can predate start when the habit's start date was moved later.
func sinceStart(completions []core.HabitCompletion, habitID string, start core.Date) []core.HabitCompletion {
	out := make([]core.HabitCompletion, 0, len(completions))
	for _, c := range completions {
		if c.HabitID == habitID && !c.Date.Before(start) {
			out = append(out, c)
		}
	}
	return out
}

// HabitHeatmap marks each day in [from, to] with whether the habit was done.
func HabitHeatmap(completions []core.HabitCompletion, habitID string, from, to core.Date) []DayFlag {
	done := completedDates(completions, habitID)
	var out []DayFlag
	for d := from; !d.After(to); d = d.AddDays(1) {
		_, ok := done[d.String()]
		out = append(out, DayFlag{Date: d, Done: ok})
	}
	return out
}

type DayFlag struct {
	Date core.Date `json:"date"`
	Done bool      `json:"done"`
}
