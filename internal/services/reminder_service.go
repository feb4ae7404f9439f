package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"noskip/internal/amqp"
	"noskip/internal/core"
	"noskip/internal/metrics"
	"noskip/internal/stats"
	"noskip/internal/storage"
)

// ReminderPublisher hands reminders to whatever delivers them.
type ReminderPublisher interface {
	PublishHabitReminder(ctx context.Context, msg *amqp.HabitReminderMessage) error
}

// ReminderService publishes a reminder for every habit whose preferred time
// has come and that is still open today.
type ReminderService struct {
	repo      *storage.SQLiteRepository
	publisher ReminderPublisher
	loc       *time.Location
}

func NewReminderService(repo *storage.SQLiteRepository, publisher ReminderPublisher, loc *time.Location) *ReminderService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReminderService{repo: repo, publisher: publisher, loc: loc}
}

// Run sends the reminders due at now's minute and returns how many were
// published. Publish failures are collected; remaining reminders are still
// attempted.
func (s *ReminderService) Run(ctx context.Context, now time.Time) (int, error) {
	local := now.In(s.loc)
	today := core.DateOf(local)
	hhmm := local.Format("15:04")

	habits, err := s.repo.ListHabitsByPreferredTime(ctx, hhmm)
	if err != nil {
		return 0, err
	}
	if len(habits) == 0 {
		return 0, nil
	}

	completions := make(map[string][]core.HabitCompletion)
	var errs []error
	sent := 0
	for _, h := range habits {
		if !h.IsScheduledOn(today) {
			continue
		}
		list, ok := completions[h.UserID]
		if !ok {
			list, err = s.repo.ListCompletions(ctx, h.UserID, today.AddDays(-core.CompletionLookbackDays))
			if err != nil {
				errs = append(errs, fmt.Errorf("completions of %s: %w", h.UserID, err))
				continue
			}
			completions[h.UserID] = list
		}

		summary := stats.SummarizeHabit(h, list, today)
		if summary.CompletedToday {
			continue
		}

		msg := &amqp.HabitReminderMessage{
			UserID:        h.UserID,
			HabitID:       h.ID,
			HabitName:     h.Name,
			Emoji:         h.Emoji,
			PreferredTime: h.PreferredTime,
			Date:          today,
			CurrentStreak: summary.CurrentStreak,
			Timestamp:     now,
		}
		if err := s.publisher.PublishHabitReminder(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish habit reminder", "habit_id", h.ID, "error", err)
			errs = append(errs, fmt.Errorf("reminder %s: %w", h.ID, err))
			continue
		}
		metrics.RemindersSent.Inc()
		sent++
	}

	slog.InfoContext(ctx, "Habit reminders processed",
		"time", hhmm,
		"candidates", len(habits),
		"sent", sent)
	return sent, errors.Join(errs...)
}
