package http

import (
	"net/http"

	"noskip/internal/core"
	"noskip/internal/log"
	"noskip/internal/stats"
)

type categoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.deps.Categories.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, log.ComponentBudgets, log.OpList, err)
		return
	}
	NewJSONResponse().Data(categories).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.ComponentBudgets, log.OpCreate, err)
		return
	}
	c, err := s.deps.Categories.Create(r.Context(), userID(r), core.CustomCategory{
		Name:  sanitizeInput(req.Name),
		Color: sanitizeInput(req.Color),
	})
	if err != nil {
		writeError(w, r, log.ComponentBudgets, log.OpCreate, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Data(c).NotifySuccess("Category created").Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Categories.Delete(r.Context(), userID(r), pathID(r)); err != nil {
		writeError(w, r, log.ComponentBudgets, log.OpDelete, err)
		return
	}
	NewJSONResponse().NotifySuccess("Category deleted").Write(w)
}

type cycleResponse struct {
	Config core.CycleConfig `json:"config"`
	Cycle  stats.Cycle      `json:"cycle"`
}

func (s *Server) cycleResponse(cfg core.CycleConfig) cycleResponse {
	return cycleResponse{Config: cfg, Cycle: stats.ResolveCycle(cfg, s.deps.Clock.Today())}
}

func (s *Server) handleGetCycle(w http.ResponseWriter, r *http.Request) {
	cfg := s.deps.Settings.LoadCycle(r.Context(), userID(r))
	NewJSONResponse().Data(s.cycleResponse(cfg)).Write(w)
}

func (s *Server) handlePutCycle(w http.ResponseWriter, r *http.Request) {
	var cfg core.CycleConfig
	if err := decodeJSON(w, r, &cfg); err != nil {
		writeError(w, r, log.ComponentBudgets, log.OpUpdate, err)
		return
	}
	// Calendar cycles ignore payday; keep the stored value valid.
	if cfg.Type == core.CycleCalendar && cfg.Payday == 0 {
		cfg.Payday = 1
	}
	if err := s.deps.Settings.SaveCycle(r.Context(), userID(r), cfg); err != nil {
		writeError(w, r, log.ComponentBudgets, log.OpUpdate, err)
		return
	}
	NewJSONResponse().Data(s.cycleResponse(cfg)).NotifySuccess("Cycle settings saved").Write(w)
}
