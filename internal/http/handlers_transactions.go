package http

import (
	"net/http"

	"noskip/internal/core"
	"noskip/internal/log"
	"noskip/internal/stats"
)

type expenseRequest struct {
	Amount   core.Money `json:"amount"`
	Category string     `json:"category"`
	Date     core.Date  `json:"date"`
	Note     string     `json:"note"`
}

type incomeRequest struct {
	Amount core.Money        `json:"amount"`
	Source core.IncomeSource `json:"source"`
	Date   core.Date         `json:"date"`
	Note   string            `json:"note"`
}

// currentRange is the user's current cycle, the default list window.
func (s *Server) currentRange(r *http.Request) DateRange {
	cycle := stats.ResolveCycle(s.deps.Settings.LoadCycle(r.Context(), userID(r)), s.deps.Clock.Today())
	return DateRange{From: cycle.Start, To: cycle.End}
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	rng, err := ParseDateRange(r.URL.Query(), s.currentRange(r))
	if err != nil {
		writeError(w, r, log.ComponentTransactions, log.OpList, err)
		return
	}
	expenses, err := s.deps.Transactions.ListExpenses(r.Context(), userID(r), rng.From, rng.To)
	if err != nil {
		writeError(w, r, log.ComponentTransactions, log.OpList, err)
		return
	}
	NewJSONResponse().Data(expenses).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.ComponentTransactions, log.OpCreate, err)
		return
	}
	if req.Date.IsEmpty() {
		req.Date = s.deps.Clock.Today()
	}

	e, err := s.deps.Transactions.CreateExpense(r.Context(), userID(r), core.Expense{
		Amount:   req.Amount,
		Category: sanitizeInput(req.Category),
		Date:     req.Date,
		Note:     sanitizeInput(req.Note),
	})
	if err != nil {
		writeError(w, r, log.ComponentTransactions, log.OpCreate, err)
		return
	}

	ctx := r.Context()
	log.FromContext(ctx).WithComponent(log.ComponentTransactions).InfoContext(ctx, "Expense created",
		append(log.NewFields().WithUser(userID(r)).WithOperation(log.OpCreate).ToSlice(),
			"expense_id", e.ID,
			"amount_cents", e.Amount.Cents,
			"category", e.Category)...)
	NewJSONResponse().Status(http.StatusCreated).Data(e).
		NotifySuccess("Expense saved: " + e.Amount.String() + " (" + e.Category + ")").
		Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Transactions.DeleteExpense(r.Context(), userID(r), pathID(r)); err != nil {
		writeError(w, r, log.ComponentTransactions, log.OpDelete, err)
		return
	}
	NewJSONResponse().NotifySuccess("Expense deleted").Write(w)
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	rng, err := ParseDateRange(r.URL.Query(), s.currentRange(r))
	if err != nil {
		writeError(w, r, log.ComponentTransactions, log.OpList, err)
		return
	}
	incomes, err := s.deps.Transactions.ListIncomes(r.Context(), userID(r), rng.From, rng.To)
	if err != nil {
		writeError(w, r, log.ComponentTransactions, log.OpList, err)
		return
	}
	NewJSONResponse().Data(incomes).Write(w)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.ComponentTransactions, log.OpCreate, err)
		return
	}
	if req.Date.IsEmpty() {
		req.Date = s.deps.Clock.Today()
	}

	in, err := s.deps.Transactions.CreateIncome(r.Context(), userID(r), core.Income{
		Amount: req.Amount,
		Source: req.Source,
		Date:   req.Date,
		Note:   sanitizeInput(req.Note),
	})
	if err != nil {
		writeError(w, r, log.ComponentTransactions, log.OpCreate, err)
		return
	}

	ctx := r.Context()
	log.FromContext(ctx).WithComponent(log.ComponentTransactions).InfoContext(ctx, "Income created",
		append(log.NewFields().WithUser(userID(r)).WithOperation(log.OpCreate).ToSlice(),
			"income_id", in.ID,
			"amount_cents", in.Amount.Cents,
			"source", in.Source)...)
	NewJSONResponse().Status(http.StatusCreated).Data(in).
		NotifySuccess("Income saved: " + in.Amount.String()).
		Write(w)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Transactions.DeleteIncome(r.Context(), userID(r), pathID(r)); err != nil {
		writeError(w, r, log.ComponentTransactions, log.OpDelete, err)
		return
	}
	NewJSONResponse().NotifySuccess("Income deleted").Write(w)
}
