package http

import (
	"net/http"

	"noskip/internal/log"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.deps.Dashboard.Load(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, log.ComponentHTTP, log.OpRead, err)
		return
	}
	NewJSONResponse().Data(d).Write(w)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	year, month, err := ParseYearMonth(r.URL.Query(), s.deps.Clock.Today())
	if err != nil {
		writeError(w, r, log.ComponentHTTP, log.OpRead, err)
		return
	}
	heatmap, err := s.deps.Dashboard.Calendar(r.Context(), userID(r), year, month)
	if err != nil {
		writeError(w, r, log.ComponentHTTP, log.OpRead, err)
		return
	}
	NewJSONResponse().Data(heatmap).Write(w)
}
