package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"noskip/internal/log"
	"noskip/internal/middleware/auth"
)

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady checks the database before reporting ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{"database": "ok"}
	status, code := "ready", http.StatusOK
	if s.deps.Store != nil {
		if err := s.deps.Store.Ping(ctx); err != nil {
			log.FromContext(ctx).WithComponent(log.ComponentStorage).ErrorContext(ctx, "Readiness check failed",
				log.NewFields().WithError(err).ToSlice()...)
			checks["database"] = "failed"
			status, code = "not_ready", http.StatusServiceUnavailable
		}
	}

	NewJSONResponse().Status(code).Data(map[string]any{
		"status": status,
		"checks": checks,
	}).Write(w)
}

func userID(r *http.Request) string {
	return auth.UserID(r.Context())
}

func pathID(r *http.Request) string {
	return sanitizeInput(chi.URLParam(r, "id"))
}
