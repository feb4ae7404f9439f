package services

import (
	"context"
	"fmt"
	"strings"

	"noskip/internal/core"
	"noskip/internal/metrics"
	"noskip/internal/stats"
	"noskip/internal/storage"
)

// HabitService validates habit writes and derives streak summaries.
type HabitService struct {
	repo  *storage.SQLiteRepository
	clock Clock
}

func NewHabitService(repo *storage.SQLiteRepository, clock Clock) *HabitService {
	return &HabitService{repo: repo, clock: clock}
}

// CreateHabit stores a new active habit. A missing start date means today.
func (s *HabitService) CreateHabit(ctx context.Context, userID string, h core.Habit) (core.Habit, error) {
	h.UserID = userID
	h.Name = strings.TrimSpace(h.Name)
	h.IsActive = true
	if h.StartDate.IsEmpty() {
		h.StartDate = s.clock.Today()
	}
	if h.FrequencyType == core.FrequencyDaily {
		h.CustomDays = nil
	}
	if err := h.Validate(); err != nil {
		return core.Habit{}, fmt.Errorf("validate habit: %w", err)
	}
	return s.repo.CreateHabit(ctx, h)
}

// UpdateHabit replaces the editable fields of an existing habit.
func (s *HabitService) UpdateHabit(ctx context.Context, userID string, h core.Habit) (core.Habit, error) {
	current, err := s.repo.GetHabit(ctx, userID, h.ID)
	if err != nil {
		return core.Habit{}, err
	}

	h.UserID = userID
	h.Name = strings.TrimSpace(h.Name)
	h.CreatedAt = current.CreatedAt
	if h.StartDate.IsEmpty() {
		h.StartDate = current.StartDate
	}
	if h.FrequencyType == core.FrequencyDaily {
		h.CustomDays = nil
	}
	if err := h.Validate(); err != nil {
		return core.Habit{}, fmt.Errorf("validate habit: %w", err)
	}
	if err := s.repo.UpdateHabit(ctx, h); err != nil {
		return core.Habit{}, err
	}
	h.CustomDays = h.CustomDays.Normalize()
	return h, nil
}

func (s *HabitService) DeleteHabit(ctx context.Context, userID, id string) error {
	return s.repo.DeleteHabit(ctx, userID, id)
}

func (s *HabitService) GetHabit(ctx context.Context, userID, id string) (core.Habit, error) {
	return s.repo.GetHabit(ctx, userID, id)
}

func (s *HabitService) ListHabits(ctx context.Context, userID string, activeOnly bool) ([]core.Habit, error) {
	return s.repo.ListHabits(ctx, userID, activeOnly)
}

// ToggleCompletion flips the completion of habitID on date and reports
// whether the habit is now completed on that date.
func (s *HabitService) ToggleCompletion(ctx context.Context, userID, habitID string, date core.Date) (bool, error) {
	if err := date.Validate(); err != nil {
		return false, err
	}
	h, err := s.repo.GetHabit(ctx, userID, habitID)
	if err != nil {
		return false, err
	}

	today := s.clock.Today()
	if date.After(today) {
		return false, core.ErrDateInFuture
	}
	if date.Before(h.StartDate) {
		return false, core.ErrDateBeforeStart
	}

	completed, err := s.repo.ToggleCompletion(ctx, userID, habitID, date, today)
	if err != nil {
		return false, err
	}
	metrics.RecordToggle(completed)
	return completed, nil
}

// HabitWithSummary pairs a habit with its derived statistics.
type HabitWithSummary struct {
	Habit   core.Habit         `json:"habit"`
	Summary stats.HabitSummary `json:"summary"`
}

// Summaries returns streak statistics for every active habit.
func (s *HabitService) Summaries(ctx context.Context, userID string) ([]HabitWithSummary, error) {
	today := s.clock.Today()
	habits, err := s.repo.ListHabits(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	completions, err := s.repo.ListCompletions(ctx, userID, today.AddDays(-core.CompletionLookbackDays))
	if err != nil {
		return nil, err
	}
	return summarize(habits, completions, today), nil
}

// Heatmap returns the completion grid of one habit over the lookback window.
func (s *HabitService) Heatmap(ctx context.Context, userID, habitID string) ([]stats.DayFlag, error) {
	if _, err := s.repo.GetHabit(ctx, userID, habitID); err != nil {
		return nil, err
	}
	today := s.clock.Today()
	from := today.AddDays(-core.CompletionLookbackDays + 1)
	completions, err := s.repo.ListCompletions(ctx, userID, from)
	if err != nil {
		return nil, err
	}
	return stats.HabitHeatmap(completions, habitID, from, today), nil
}

func summarize(habits []core.Habit, completions []core.HabitCompletion, today core.Date) []HabitWithSummary {
	out := make([]HabitWithSummary, 0, len(habits))
	for _, h := range habits {
		out = append(out, HabitWithSummary{Habit: h, Summary: stats.SummarizeHabit(h, completions, today)})
	}
	return out
}
