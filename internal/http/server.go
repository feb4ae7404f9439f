package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"noskip/internal/log"
	"noskip/internal/middleware/auth"
	"noskip/internal/middleware/ratelimit"
	"noskip/internal/middleware/security"
	"noskip/internal/middleware/trace"
	"noskip/internal/services"
	"noskip/internal/settings"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the server routes requests to.
type Deps struct {
	Habits       *services.HabitService
	Transactions *services.TransactionService
	Budgets      *services.BudgetService
	Categories   *services.CategoryService
	Dashboard    *services.DashboardService
	Settings     *settings.Service
	Clock        services.Clock
	Store        Pinger

	Auth     *auth.Authenticator
	Limiter  *ratelimit.Limiter
	Detector *security.Detector
	Logger   *log.Logger
}

type Server struct {
	http.Server
	deps    Deps
	started time.Time

	stopBackground context.CancelFunc
	shutdownOnce   sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
// Background loops such as the rate limiter sweep stop on Shutdown.
func NewServer(addr string, deps Deps) *Server {
	if deps.Detector == nil {
		deps.Detector = security.NewDetector()
	}
	if deps.Logger == nil {
		deps.Logger = log.New(log.DefaultConfig())
	}

	bg, cancel := context.WithCancel(context.Background())
	s := &Server{
		deps:           deps,
		started:        time.Now(),
		stopBackground: cancel,
	}
	if deps.Limiter != nil {
		go deps.Limiter.Run(bg)
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(log.Middleware(s.deps.Logger))
	r.Use(trace.NewMiddleware(s.deps.Detector.ExtractClientIP).Middleware)
	r.Use(middleware.Recoverer)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.deps.Detector.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("route not found").Write(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusMethodNotAllowed, "method not allowed").Write(w)
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.deps.Auth.Middleware(s.unauthorized))
		if s.deps.Limiter != nil {
			r.Use(s.deps.Limiter.Middleware(s.rateLimitKey, s.rateLimited))
		}

		r.Route("/habits", func(r chi.Router) {
			r.Get("/", s.handleListHabits)
			r.Post("/", s.handleCreateHabit)
			r.Get("/summary", s.handleHabitSummaries)
			r.Put("/{id}", s.handleUpdateHabit)
			r.Delete("/{id}", s.handleDeleteHabit)
			r.Post("/{id}/toggle", s.handleToggleHabit)
			r.Get("/{id}/heatmap", s.handleHabitHeatmap)
		})

		r.Get("/expenses", s.handleListExpenses)
		r.Post("/expenses", s.handleCreateExpense)
		r.Delete("/expenses/{id}", s.handleDeleteExpense)

		r.Get("/incomes", s.handleListIncomes)
		r.Post("/incomes", s.handleCreateIncome)
		r.Delete("/incomes/{id}", s.handleDeleteIncome)

		r.Get("/budgets", s.handleListBudgets)
		r.Put("/budgets", s.handleUpsertBudget)
		r.Delete("/budgets/{id}", s.handleDeleteBudget)

		r.Get("/categories", s.handleListCategories)
		r.Post("/categories", s.handleCreateCategory)
		r.Delete("/categories/{id}", s.handleDeleteCategory)

		r.Get("/settings/cycle", s.handleGetCycle)
		r.Put("/settings/cycle", s.handlePutCycle)

		r.Get("/dashboard", s.handleDashboard)
		r.Get("/calendar", s.handleCalendar)
	})

	return r
}

func (s *Server) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	log.FromContext(ctx).WithComponent(log.ComponentAuth).WarnContext(ctx, "Unauthorized request",
		log.NewFields().WithError(err).WithHTTPRequest(r.Method, r.URL.Path, "", r.Header.Get("User-Agent")).ToSlice()...)
	UnauthorizedError("authentication required").Write(w)
}

// rateLimitKey limits per user; auth has already run.
func (s *Server) rateLimitKey(r *http.Request) string {
	if id := auth.UserID(r.Context()); id != "" {
		return "user:" + id
	}
	return "ip:" + s.deps.Detector.ExtractClientIP(r)
}

func (s *Server) rateLimited(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log.FromContext(ctx).WithComponent(log.ComponentRateLimit).WarnContext(ctx, "Rate limit exceeded",
		log.NewFields().WithUser(auth.UserID(ctx)).WithClientIP(s.deps.Detector.ExtractClientIP(r)).ToSlice()...)
	TooManyRequestsError().Write(w)
}

// Shutdown stops background loops and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.stopBackground()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
