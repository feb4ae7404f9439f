package http

import (
	"net/http"

	"noskip/internal/core"
	"noskip/internal/log"
	"noskip/internal/stats"
)

type budgetRequest struct {
	Category string     `json:"category"`
	Amount   core.Money `json:"amount"`
	Month    string     `json:"month"` // YYYY-MM; empty means the current cycle's month
}

// handleListBudgets returns the budgets of a month with the spending of the
// cycle they cover. Without ?month the current cycle is used.
func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := s.deps.Settings.LoadCycle(ctx, userID(r))
	today := s.deps.Clock.Today()

	month, ok, err := ParseMonthParam(r.URL.Query(), "month")
	if err != nil {
		writeError(w, r, log.ComponentBudgets, log.OpList, err)
		return
	}
	cycle := stats.ResolveCycle(cfg, today)
	if ok && !month.Equal(cycle.BudgetMonth()) {
		cycle = stats.CycleForMonth(cfg, month)
	}

	statuses, err := s.deps.Budgets.Progress(ctx, userID(r), cycle)
	if err != nil {
		writeError(w, r, log.ComponentBudgets, log.OpList, err)
		return
	}
	NewJSONResponse().Data(map[string]any{
		"cycle":   cycle,
		"budgets": statuses,
	}).Write(w)
}

func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.ComponentBudgets, log.OpUpdate, err)
		return
	}

	ctx := r.Context()
	var month core.Date
	if req.Month == "" {
		cfg := s.deps.Settings.LoadCycle(ctx, userID(r))
		month = stats.ResolveCycle(cfg, s.deps.Clock.Today()).BudgetMonth()
	} else {
		m, err := core.ParseMonth(req.Month)
		if err != nil {
			writeError(w, r, log.ComponentBudgets, log.OpUpdate, core.ErrInvalidMonth)
			return
		}
		month = m
	}

	b, err := s.deps.Budgets.Upsert(ctx, userID(r), core.Budget{
		Category: sanitizeInput(req.Category),
		Amount:   req.Amount,
		Month:    month,
	})
	if err != nil {
		writeError(w, r, log.ComponentBudgets, log.OpUpdate, err)
		return
	}

	log.FromContext(ctx).WithComponent(log.ComponentBudgets).InfoContext(ctx, "Budget saved",
		append(log.NewFields().WithUser(userID(r)).WithOperation(log.OpUpdate).ToSlice(),
			"category", b.Category,
			"month", b.Month.MonthKey(),
			"amount_cents", b.Amount.Cents)...)
	NewJSONResponse().Data(b).NotifySuccess("Budget saved").Write(w)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Budgets.Delete(r.Context(), userID(r), pathID(r)); err != nil {
		writeError(w, r, log.ComponentBudgets, log.OpDelete, err)
		return
	}
	NewJSONResponse().NotifySuccess("Budget deleted").Write(w)
}
