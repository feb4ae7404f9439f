package http

import (
	"errors"
	"net/http"

	"noskip/internal/core"
	"noskip/internal/log"
)

// habitRequest is the writable part of a habit.
type habitRequest struct {
	Name          string             `json:"name"`
	Emoji         string             `json:"emoji"`
	FrequencyType core.FrequencyType `json:"frequency_type"`
	CustomDays    core.Weekdays      `json:"custom_days"`
	PreferredTime string             `json:"preferred_time"`
	StartDate     core.Date          `json:"start_date"`
	IsActive      *bool              `json:"is_active"`
}

func (req habitRequest) habit() core.Habit {
	h := core.Habit{
		Name:          sanitizeInput(req.Name),
		Emoji:         sanitizeInput(req.Emoji),
		FrequencyType: req.FrequencyType,
		CustomDays:    req.CustomDays,
		PreferredTime: sanitizeInput(req.PreferredTime),
		StartDate:     req.StartDate,
		IsActive:      true,
	}
	if req.IsActive != nil {
		h.IsActive = *req.IsActive
	}
	return h
}

func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	activeOnly, err := ParseBoolParam(r.URL.Query(), "active", true)
	if err != nil {
		writeError(w, r, log.ComponentHabits, log.OpList, err)
		return
	}
	habits, err := s.deps.Habits.ListHabits(r.Context(), userID(r), activeOnly)
	if err != nil {
		writeError(w, r, log.ComponentHabits, log.OpList, err)
		return
	}
	NewJSONResponse().Data(habits).Write(w)
}

func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.ComponentHabits, log.OpCreate, err)
		return
	}

	h, err := s.deps.Habits.CreateHabit(r.Context(), userID(r), req.habit())
	if err != nil {
		writeError(w, r, log.ComponentHabits, log.OpCreate, err)
		return
	}

	ctx := r.Context()
	log.FromContext(ctx).WithComponent(log.ComponentHabits).InfoContext(ctx, "Habit created",
		log.NewFields().WithUser(userID(r)).WithOperation(log.OpCreate).ToSlice()...)
	NewJSONResponse().Status(http.StatusCreated).Data(h).NotifySuccess("Habit created").Write(w)
}

func (s *Server) handleUpdateHabit(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.ComponentHabits, log.OpUpdate, err)
		return
	}

	h := req.habit()
	h.ID = pathID(r)
	updated, err := s.deps.Habits.UpdateHabit(r.Context(), userID(r), h)
	if err != nil {
		writeError(w, r, log.ComponentHabits, log.OpUpdate, err)
		return
	}
	NewJSONResponse().Data(updated).NotifySuccess("Habit updated").Write(w)
}

func (s *Server) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Habits.DeleteHabit(r.Context(), userID(r), pathID(r)); err != nil {
		writeError(w, r, log.ComponentHabits, log.OpDelete, err)
		return
	}

	ctx := r.Context()
	log.FromContext(ctx).WithComponent(log.ComponentHabits).InfoContext(ctx, "Habit deleted",
		log.NewFields().WithUser(userID(r)).WithOperation(log.OpDelete).ToSlice()...)
	NewJSONResponse().NotifySuccess("Habit deleted").Write(w)
}

type toggleRequest struct {
	Date core.Date `json:"date"`
}

// handleToggleHabit flips a completion. An omitted date means today.
func (s *Server) handleToggleHabit(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, r, log.ComponentHabits, log.OpToggle, err)
		return
	}
	if req.Date.IsEmpty() {
		req.Date = s.deps.Clock.Today()
	}

	completed, err := s.deps.Habits.ToggleCompletion(r.Context(), userID(r), pathID(r), req.Date)
	if err != nil {
		writeError(w, r, log.ComponentHabits, log.OpToggle, err)
		return
	}
	NewJSONResponse().Data(map[string]any{
		"date":      req.Date,
		"completed": completed,
	}).Write(w)
}

func (s *Server) handleHabitSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.deps.Habits.Summaries(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, log.ComponentHabits, log.OpRead, err)
		return
	}
	NewJSONResponse().Data(summaries).Write(w)
}

func (s *Server) handleHabitHeatmap(w http.ResponseWriter, r *http.Request) {
	days, err := s.deps.Habits.Heatmap(r.Context(), userID(r), pathID(r))
	if err != nil {
		writeError(w, r, log.ComponentHabits, log.OpRead, err)
		return
	}
	NewJSONResponse().Data(days).Write(w)
}
