package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/config"
)

// Server holds the HTTP server dependencies shared by every process role.
// A role's main() calls NewServer, mounts its own handlers on APIRouter,
// then serves Router.
type Server struct {
	Router    *chi.Mux
	APIRouter chi.Router // mountable /api/v1 sub-router
	Logger    *slog.Logger
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Metrics   *prometheus.Registry
	startedAt time.Time
}

// NewServer creates an HTTP server with the ambient middleware chain
// (request ID, structured logging, metrics, panic recovery, CORS) and
// health/readiness/metrics endpoints. Domain handlers are mounted on
// APIRouter by the caller.
func NewServer(cfg *config.Config, logger *slog.Logger, db *pgxpool.Pool, rdb *redis.Client, metricsReg *prometheus.Registry) *Server {
	s := &Server{
		Router:    chi.NewRouter(),
		Logger:    logger,
		DB:        db,
		Redis:     rdb,
		Metrics:   metricsReg,
		startedAt: time.Now(),
	}

	s.Router.Use(RequestID)
	s.Router.Use(Logger(logger))
	s.Router.Use(Metrics)
	s.Router.Use(middleware.Recoverer)
	s.Router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.Router.Get("/healthz", s.handleHealthz)
	s.Router.Get("/readyz", s.handleReadyz)
	s.Router.Handle("/metrics", promhttp.HandlerFor(metricsReg, promhttp.HandlerOpts{}))

	s.Router.Route("/api/v1", func(r chi.Router) {
		s.APIRouter = r
	})

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	Respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.DB != nil {
		if err := s.DB.Ping(ctx); err != nil {
			s.Logger.Error("readiness check: database ping failed", "error", err)
			RespondError(w, http.StatusServiceUnavailable, "unavailable", "database not ready")
			return
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			s.Logger.Error("readiness check: redis ping failed", "error", err)
			RespondError(w, http.StatusServiceUnavailable, "unavailable", "redis not ready")
			return
		}
	}

	Respond(w, http.StatusOK, map[string]string{"status": "ready"})
}
